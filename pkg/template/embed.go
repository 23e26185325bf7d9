package template

import "embed"

//go:embed templates/tofu/*.tmpl templates/ansible/*.tmpl templates/ansible/playbooks/*.yml templates/caddy/*.tmpl templates/tracker/*.tmpl templates/compose/*.tmpl
var embeddedTemplates embed.FS

// mustReadTemplate reads a template by its path relative to templates/,
// panicking on failure since every name here is a compile-time constant
// embedded into the binary — a missing one is a build-time mistake, not a
// runtime condition callers should handle.
func mustReadTemplate(relPath string) string {
	data, err := embeddedTemplates.ReadFile("templates/" + relPath)
	if err != nil {
		panic("template: missing embedded template " + relPath + ": " + err.Error())
	}
	return string(data)
}

// Named template sources, grounded on the teacher's go:embed usage in
// pkg/embedded for shipping binary assets inside the compiled tool —
// here the assets are text templates instead of platform binaries.
var (
	CloudInitTemplate     = mustReadTemplate("tofu/cloud-init.yml.tmpl")
	LXDVariablesTemplate  = mustReadTemplate("tofu/lxd.tfvars.tmpl")
	HetznerVariablesTemplate = mustReadTemplate("tofu/hetzner.tfvars.tmpl")
	AnsibleInventoryTemplate = mustReadTemplate("ansible/inventory.yml.tmpl")
	CaddyfileTemplate     = mustReadTemplate("caddy/Caddyfile.tmpl")
	TrackerTomlTemplate   = mustReadTemplate("tracker/tracker.toml.tmpl")
	ComposeTemplate       = mustReadTemplate("compose/docker-compose.yml.tmpl")
)

// AnsiblePlaybooks maps each configure-phase playbook's file name to its
// embedded static content — these are copied byte-for-byte into
// build/<env-name>/ansible/ (spec §4.7's "static files" path), not
// rendered, since they carry no per-environment substitution beyond the
// `--extra-vars` RunPlaybook already passes on the command line.
var AnsiblePlaybooks = map[string]string{
	"install-container-runtime.yml":  mustReadTemplate("ansible/playbooks/install-container-runtime.yml"),
	"install-orchestrator.yml":       mustReadTemplate("ansible/playbooks/install-orchestrator.yml"),
	"configure-firewall.yml":         mustReadTemplate("ansible/playbooks/configure-firewall.yml"),
	"configure-security-updates.yml": mustReadTemplate("ansible/playbooks/configure-security-updates.yml"),
	"configure-backup-crontab.yml":   mustReadTemplate("ansible/playbooks/configure-backup-crontab.yml"),
}
