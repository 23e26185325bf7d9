// Package template renders the deployer's infrastructure artifacts:
// OpenTofu variables and cloud-init user-data, the Ansible inventory, and
// the Caddy reverse-proxy config, plus a byte-for-byte static-file copy
// for assets that need no substitution (e.g. the Ansible playbooks).
//
// Every rendered or copied file lands under build/<env-name>/<subsystem>/
// <file>, mirroring the workspace layout the rest of the system expects.
package template

import (
	"io"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/torrust/tracker-deployer/pkg/apperror"
)

// Engine renders templates and copies static files into a single
// environment's build directory.
type Engine struct {
	// EnvironmentBuildDir is build/<env-name>, the root all subsystem
	// output paths are relative to.
	EnvironmentBuildDir string
}

// New returns an Engine rooted at environmentBuildDir.
func New(environmentBuildDir string) *Engine {
	return &Engine{EnvironmentBuildDir: environmentBuildDir}
}

// outputPath returns build/<env-name>/<subsystem>/<file>.
func (e *Engine) outputPath(subsystem, file string) string {
	return filepath.Join(e.EnvironmentBuildDir, subsystem, file)
}

// Render parses tmplText under name, executes it against ctx, and writes
// the result to build/<env-name>/<subsystem>/<file>, creating parent
// directories as needed. Re-rendering an existing file overwrites it.
func (e *Engine) Render(name, tmplText string, ctx any, subsystem, file string) error {
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Parse(tmplText)
	if err != nil {
		return apperror.Wrap(apperror.KindTemplateRender, "template.Render: parse "+name, err)
	}

	out := e.outputPath(subsystem, file)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return apperror.Wrap(apperror.KindTemplateRender, "template.Render: mkdir", err)
	}

	f, err := os.Create(out)
	if err != nil {
		return apperror.Wrap(apperror.KindTemplateRender, "template.Render: create output file", err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, ctx); err != nil {
		return apperror.Wrap(apperror.KindTemplateRender, "template.Render: execute "+name, err)
	}
	return nil
}

// CopyStatic copies srcPath byte-for-byte to build/<env-name>/<subsystem>/
// <file>, creating parent directories as needed. Idempotent: copying the
// same source twice produces the same output.
func (e *Engine) CopyStatic(srcPath, subsystem, file string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return apperror.Wrap(apperror.KindTemplateRender, "template.CopyStatic: open source", err)
	}
	defer src.Close()

	out := e.outputPath(subsystem, file)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return apperror.Wrap(apperror.KindTemplateRender, "template.CopyStatic: mkdir", err)
	}

	dst, err := os.Create(out)
	if err != nil {
		return apperror.Wrap(apperror.KindTemplateRender, "template.CopyStatic: create destination", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return apperror.Wrap(apperror.KindTemplateRender, "template.CopyStatic: copy", err)
	}
	return nil
}

// WriteStatic writes content byte-for-byte to build/<env-name>/<subsystem>/
// <file>, creating parent directories as needed — the embedded-asset
// counterpart to CopyStatic for content compiled into the binary (e.g.
// AnsiblePlaybooks) rather than read from a source path. Idempotent:
// writing the same content twice produces the same output.
func (e *Engine) WriteStatic(content, subsystem, file string) error {
	out := e.outputPath(subsystem, file)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return apperror.Wrap(apperror.KindTemplateRender, "template.WriteStatic: mkdir", err)
	}
	if err := os.WriteFile(out, []byte(content), 0o644); err != nil {
		return apperror.Wrap(apperror.KindTemplateRender, "template.WriteStatic: write", err)
	}
	return nil
}

// ResetBuildDir deletes and recreates the environment's build directory,
// discarding every previously rendered artifact.
func (e *Engine) ResetBuildDir() error {
	if err := os.RemoveAll(e.EnvironmentBuildDir); err != nil {
		return apperror.Wrap(apperror.KindTemplateRender, "template.ResetBuildDir: remove", err)
	}
	if err := os.MkdirAll(e.EnvironmentBuildDir, 0o755); err != nil {
		return apperror.Wrap(apperror.KindTemplateRender, "template.ResetBuildDir: recreate", err)
	}
	return nil
}
