package step

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torrust/tracker-deployer/pkg/adapter/iac"
	"github.com/torrust/tracker-deployer/pkg/config"
	"github.com/torrust/tracker-deployer/pkg/template"
)

func TestRenderIaCTemplatesStepLXD(t *testing.T) {
	buildDir := t.TempDir()
	keyPath := filepath.Join(t.TempDir(), "id.pub")
	require.NoError(t, os.WriteFile(keyPath, []byte("ssh-ed25519 AAAATEST deploy@example"), 0o600))

	s := RenderIaCTemplatesStep{
		Engine:           template.New(buildDir),
		Provider:         config.LXDProviderConfig{ProfileName: "default"},
		InstanceName:     "torrust-tracker-vm-demo",
		Username:         "deploy",
		SSHPublicKeyPath: keyPath,
	}
	require.NoError(t, s.Execute(context.Background()))

	cloudInit, err := os.ReadFile(filepath.Join(buildDir, "tofu/lxd", "cloud-init.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(cloudInit), "torrust-tracker-vm-demo")
	assert.Contains(t, string(cloudInit), "ssh-ed25519 AAAATEST")

	vars, err := os.ReadFile(filepath.Join(buildDir, "tofu/lxd", "variables.tfvars"))
	require.NoError(t, err)
	assert.Contains(t, string(vars), `lxd_profile   = "default"`)
}

func TestRenderIaCTemplatesStepHetzner(t *testing.T) {
	buildDir := t.TempDir()
	keyPath := filepath.Join(t.TempDir(), "id.pub")
	require.NoError(t, os.WriteFile(keyPath, []byte("ssh-ed25519 AAAATEST"), 0o600))

	s := RenderIaCTemplatesStep{
		Engine:           template.New(buildDir),
		Provider:         config.HetznerProviderConfig{ServerType: "cx22", Region: "fsn1"},
		InstanceName:     "torrust-tracker-vm-demo",
		Username:         "deploy",
		SSHPublicKeyPath: keyPath,
	}
	require.NoError(t, s.Execute(context.Background()))

	vars, err := os.ReadFile(filepath.Join(buildDir, "tofu/hetzner", "variables.tfvars"))
	require.NoError(t, err)
	assert.Contains(t, string(vars), `server_type   = "cx22"`)
	assert.Contains(t, string(vars), `region        = "fsn1"`)
}

func TestRenderCMTemplatesStep(t *testing.T) {
	buildDir := t.TempDir()
	s := RenderCMTemplatesStep{
		Engine:         template.New(buildDir),
		Outputs:        &iac.InstanceOutputs{InstanceIP: net.ParseIP("10.0.0.9")},
		Username:       "deploy",
		PrivateKeyPath: "/keys/id_ed25519",
		Port:           22,
	}
	require.NoError(t, s.Execute(context.Background()))

	inventory, err := os.ReadFile(filepath.Join(buildDir, "ansible", "inventory.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(inventory), "10.0.0.9")
	assert.Contains(t, string(inventory), "deploy")
}
