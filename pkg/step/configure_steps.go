package step

import (
	"context"
	"strconv"

	"github.com/torrust/tracker-deployer/pkg/adapter/cm"
)

// playbookStep runs one named Ansible playbook against the environment's
// standard inventory.yml, optionally carrying extra vars — every
// configure-phase step shares this shape, so it is factored out once
// instead of repeated per step.
type playbookStep struct {
	client        *cm.Client
	name          string
	playbookFile  string
	inventoryFile string
	extraVars     map[string]string
}

func (s playbookStep) Name() string { return s.name }

func (s playbookStep) Execute(ctx context.Context) error {
	_, err := s.client.RunPlaybook(ctx, s.playbookFile, s.inventoryFile, s.extraVars)
	return err
}

// NewInstallContainerRuntimeStep runs the playbook that installs the
// container runtime (Docker) on the provisioned instance.
func NewInstallContainerRuntimeStep(client *cm.Client, inventoryFile string) Step {
	return playbookStep{client: client, name: "install_container_runtime", playbookFile: "install-container-runtime.yml", inventoryFile: inventoryFile}
}

// NewInstallOrchestratorStep runs the playbook that installs Docker
// Compose (the orchestrator driving the tracker's containers).
func NewInstallOrchestratorStep(client *cm.Client, inventoryFile string) Step {
	return playbookStep{client: client, name: "install_orchestrator", playbookFile: "install-orchestrator.yml", inventoryFile: inventoryFile}
}

// NewConfigureFirewallStep runs the firewall-rules playbook, which allows
// SSH and enables ufw with a deny policy. No extra vars are passed, so the
// playbook's tracker_firewall_ports list is empty and the tracker's
// bindings are not opened.
func NewConfigureFirewallStep(client *cm.Client, inventoryFile string) Step {
	return playbookStep{client: client, name: "configure_firewall", playbookFile: "configure-firewall.yml", inventoryFile: inventoryFile}
}

// NewConfigureSecurityUpdatesStep runs the unattended-upgrades playbook.
func NewConfigureSecurityUpdatesStep(client *cm.Client, inventoryFile string) Step {
	return playbookStep{client: client, name: "configure_security_updates", playbookFile: "configure-security-updates.yml", inventoryFile: inventoryFile}
}

// NewConfigureBackupCrontabStep runs the optional backup-crontab
// playbook, installing a cron job on the configured schedule that prunes
// database files older than the configured retention. No remote target
// is passed to the playbook.
func NewConfigureBackupCrontabStep(client *cm.Client, inventoryFile string, retentionDays int, schedule string) Step {
	return playbookStep{
		client:        client,
		name:          "configure_backup_crontab",
		playbookFile:  "configure-backup-crontab.yml",
		inventoryFile: inventoryFile,
		extraVars: map[string]string{
			"backup_retention_days": strconv.Itoa(retentionDays),
			"backup_schedule":       schedule,
		},
	}
}

var _ Step = playbookStep{}
