package step

import (
	"context"
	"fmt"
	"os"

	"github.com/torrust/tracker-deployer/pkg/adapter/iac"
	"github.com/torrust/tracker-deployer/pkg/adapter/ssh"
	"github.com/torrust/tracker-deployer/pkg/apperror"
	"github.com/torrust/tracker-deployer/pkg/config"
	"github.com/torrust/tracker-deployer/pkg/template"
	"github.com/torrust/tracker-deployer/pkg/wait"
)

// RenderIaCTemplatesStep renders the OpenTofu variables file and
// cloud-init user-data at provision start, before any instance IP is
// known (spec §4.7's "moment (a)").
type RenderIaCTemplatesStep struct {
	Engine           *template.Engine
	Provider         config.ProviderConfig
	InstanceName     string
	Username         string
	SSHPublicKeyPath string
}

func (s RenderIaCTemplatesStep) Name() string { return "render_iac_templates" }

func (s RenderIaCTemplatesStep) Execute(ctx context.Context) error {
	pubKey, err := os.ReadFile(s.SSHPublicKeyPath)
	if err != nil {
		return apperror.Wrap(apperror.KindTemplateRender, "render_iac_templates: read ssh public key", err)
	}

	cloudInitCtx, err := template.NewCloudInitContext(s.InstanceName, string(pubKey), s.Username)
	if err != nil {
		return err
	}
	if err := s.Engine.Render("cloud-init", template.CloudInitTemplate, cloudInitCtx, providerSubsystem(s.Provider), "cloud-init.yml"); err != nil {
		return err
	}

	varsCtx, err := template.NewTofuVariablesContext(s.InstanceName)
	if err != nil {
		return err
	}
	switch p := s.Provider.(type) {
	case config.LXDProviderConfig:
		varsCtx.ProfileName = p.ProfileName
		return s.Engine.Render("lxd-vars", template.LXDVariablesTemplate, varsCtx, "tofu/lxd", "variables.tfvars")
	case config.HetznerProviderConfig:
		varsCtx.ServerType = p.ServerType
		varsCtx.Region = p.Region
		return s.Engine.Render("hetzner-vars", template.HetznerVariablesTemplate, varsCtx, "tofu/hetzner", "variables.tfvars")
	default:
		return apperror.New(apperror.KindConfiguration, fmt.Sprintf("render_iac_templates: unknown provider %T", s.Provider))
	}
}

func providerSubsystem(p config.ProviderConfig) string {
	switch p.(type) {
	case config.LXDProviderConfig:
		return "tofu/lxd"
	case config.HetznerProviderConfig:
		return "tofu/hetzner"
	default:
		return "tofu"
	}
}

// iacClientStep is embedded by every step that just delegates to one
// *iac.Client method, to avoid repeating the field.
type iacClientStep struct {
	Client *iac.Client
}

// IaCInitStep runs `tofu init`.
type IaCInitStep struct{ iacClientStep }

func NewIaCInitStep(c *iac.Client) IaCInitStep { return IaCInitStep{iacClientStep{c}} }
func (s IaCInitStep) Name() string             { return "iac_init" }
func (s IaCInitStep) Execute(ctx context.Context) error { return s.Client.Init(ctx) }

// IaCValidateStep runs `tofu validate`.
type IaCValidateStep struct{ iacClientStep }

func NewIaCValidateStep(c *iac.Client) IaCValidateStep { return IaCValidateStep{iacClientStep{c}} }
func (s IaCValidateStep) Name() string                 { return "iac_validate" }
func (s IaCValidateStep) Execute(ctx context.Context) error { return s.Client.Validate(ctx) }

// IaCPlanStep runs `tofu plan`.
type IaCPlanStep struct{ iacClientStep }

func NewIaCPlanStep(c *iac.Client) IaCPlanStep { return IaCPlanStep{iacClientStep{c}} }
func (s IaCPlanStep) Name() string              { return "iac_plan" }
func (s IaCPlanStep) Execute(ctx context.Context) error {
	_, err := s.Client.Plan(ctx)
	return err
}

// IaCApplyStep runs `tofu apply -auto-approve`.
type IaCApplyStep struct{ iacClientStep }

func NewIaCApplyStep(c *iac.Client) IaCApplyStep { return IaCApplyStep{iacClientStep{c}} }
func (s IaCApplyStep) Name() string               { return "iac_apply" }
func (s IaCApplyStep) Execute(ctx context.Context) error { return s.Client.Apply(ctx) }

// ReadInstanceIPStep reads `tofu output -json` and stores the parsed
// instance IP where the handler can read it back after Execute returns.
type ReadInstanceIPStep struct {
	iacClientStep
	Result *iac.InstanceOutputs
}

func NewReadInstanceIPStep(c *iac.Client, result *iac.InstanceOutputs) ReadInstanceIPStep {
	return ReadInstanceIPStep{iacClientStep{c}, result}
}
func (s ReadInstanceIPStep) Name() string { return "read_instance_ip" }
func (s ReadInstanceIPStep) Execute(ctx context.Context) error {
	out, err := s.Client.Output(ctx)
	if err != nil {
		return err
	}
	*s.Result = out
	return nil
}

// RenderCMTemplatesStep renders the Ansible inventory once the instance
// IP is known (spec §4.7's "moment (b)").
type RenderCMTemplatesStep struct {
	Engine *template.Engine
	// Outputs is read at Execute time rather than captured by value, so
	// this step can be constructed before ReadInstanceIPStep (earlier in
	// the same sequence) has actually populated it.
	Outputs        *iac.InstanceOutputs
	Username       string
	PrivateKeyPath string
	Port           uint16
}

func (s RenderCMTemplatesStep) Name() string { return "render_cm_templates" }

func (s RenderCMTemplatesStep) Execute(ctx context.Context) error {
	host, err := template.NewAnsibleHost(s.Outputs.InstanceIP.String())
	if err != nil {
		return err
	}
	keyFile, err := template.NewSshPrivateKeyFile(s.PrivateKeyPath)
	if err != nil {
		return err
	}
	inventoryCtx, err := template.NewAnsibleInventoryContext(host, s.Username, keyFile, s.Port)
	if err != nil {
		return err
	}
	return s.Engine.Render("ansible-inventory", template.AnsibleInventoryTemplate, inventoryCtx, "ansible", "inventory.yml")
}

// CopyAnsiblePlaybooksStep stages the configure-phase playbooks into
// build/<env-name>/ansible/ alongside the rendered inventory — a static
// copy (spec §4.7), not a render, since the playbooks carry no
// per-environment substitution.
type CopyAnsiblePlaybooksStep struct {
	Engine *template.Engine
}

func (s CopyAnsiblePlaybooksStep) Name() string { return "copy_ansible_playbooks" }

func (s CopyAnsiblePlaybooksStep) Execute(ctx context.Context) error {
	for name, content := range template.AnsiblePlaybooks {
		if err := s.Engine.WriteStatic(content, "ansible", name); err != nil {
			return err
		}
	}
	return nil
}

// PendingSSHConfig builds an ssh.Config lazily from Outputs, so a step can
// be constructed before ReadInstanceIPStep (earlier in the same sequence)
// has populated the instance IP — the field is only read at Execute time.
type PendingSSHConfig struct {
	Outputs        *iac.InstanceOutputs
	Port           uint16
	Username       string
	PrivateKeyPath string
}

func (p PendingSSHConfig) resolve() ssh.Config {
	return ssh.Config{
		Host:           p.Outputs.InstanceIP.String(),
		Port:           p.Port,
		Username:       p.Username,
		PrivateKeyPath: p.PrivateKeyPath,
	}
}

// WaitSSHStep polls until SSH connectivity is established or the default
// 30s/5s deadline (wait.SSHConnectivityConfig) expires.
type WaitSSHStep struct {
	SSHConfig PendingSSHConfig
}

func (s WaitSSHStep) Name() string { return "wait_ssh" }

func (s WaitSSHStep) Execute(ctx context.Context) error {
	poller := ssh.NewConnectivityPoller(s.SSHConfig.resolve())
	_, err := wait.WaitFor(ctx, "ssh connectivity", poller, wait.SSHConnectivityConfig())
	if err != nil {
		return apperror.Wrap(apperror.KindTimeout, "wait_ssh", err)
	}
	return nil
}

// WaitCloudInitStep dials its own SSH connection to the (already
// reachable) instance and polls `cloud-init status --wait` over it until
// it reports done or the longer cloud-init deadline expires.
type WaitCloudInitStep struct {
	SSHConfig PendingSSHConfig
}

func (s WaitCloudInitStep) Name() string { return "wait_cloud_init" }

func (s WaitCloudInitStep) Execute(ctx context.Context) error {
	client := ssh.New(s.SSHConfig.resolve())
	if err := client.Dial(); err != nil {
		return err
	}
	defer client.Close()

	poller := wait.NewCommandPoller("cloud-init status --wait", client.Runner("cloud-init status --wait"))
	_, err := wait.WaitFor(ctx, "cloud-init completion", poller, wait.CloudInitConfig())
	if err != nil {
		return apperror.Wrap(apperror.KindTimeout, "wait_cloud_init", err)
	}
	return nil
}

var (
	_ Step = RenderIaCTemplatesStep{}
	_ Step = IaCInitStep{}
	_ Step = IaCValidateStep{}
	_ Step = IaCPlanStep{}
	_ Step = IaCApplyStep{}
	_ Step = ReadInstanceIPStep{}
	_ Step = RenderCMTemplatesStep{}
	_ Step = CopyAnsiblePlaybooksStep{}
	_ Step = WaitSSHStep{}
	_ Step = WaitCloudInitStep{}
)
