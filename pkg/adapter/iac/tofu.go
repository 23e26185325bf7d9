// Package iac wraps the IaC engine (an OpenTofu binary, driven through
// the Terraform-compatible terraform-exec API) as a semantic client:
// Init, Validate, Plan, Apply, Destroy, Output map 1:1 onto the
// provision/destroy step sequence.
package iac

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os/exec"

	"github.com/hashicorp/terraform-exec/tfexec"
	tfjson "github.com/hashicorp/terraform-json"

	"github.com/torrust/tracker-deployer/pkg/apperror"
)

// Client drives a single environment's OpenTofu working directory
// (build/<env-name>/tofu/<provider>).
type Client struct {
	tf *tfexec.Terraform
}

// New returns a Client rooted at workingDir, invoking execPath (the
// OpenTofu/Terraform-compatible binary) for every operation.
func New(workingDir, execPath string) (*Client, error) {
	tf, err := tfexec.NewTerraform(workingDir, execPath)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindExternalTool, "iac.New", err)
	}
	return &Client{tf: tf}, nil
}

// Init runs `tofu init`.
func (c *Client) Init(ctx context.Context) error {
	if err := c.tf.Init(ctx); err != nil {
		return apperror.Wrap(apperror.KindExternalTool, "iac.Init", err)
	}
	return nil
}

// Validate runs `tofu validate`.
func (c *Client) Validate(ctx context.Context) error {
	result, err := c.tf.Validate(ctx)
	if err != nil {
		return apperror.Wrap(apperror.KindExternalTool, "iac.Validate", err)
	}
	if !result.Valid {
		return apperror.New(apperror.KindExternalTool, fmt.Sprintf("iac.Validate: %d error(s) in configuration", result.ErrorCount))
	}
	return nil
}

// Plan runs `tofu plan` and reports whether changes are pending.
func (c *Client) Plan(ctx context.Context) (hasChanges bool, err error) {
	hasChanges, err = c.tf.Plan(ctx)
	if err != nil {
		return false, apperror.Wrap(apperror.KindExternalTool, "iac.Plan", err)
	}
	return hasChanges, nil
}

// PlanFile is the name of the saved plan file passed between PlanToFile
// and ShowPlan, relative to the working directory.
const PlanFile = ".tracker-deployer.tfplan"

// PlanToFile runs `tofu plan -out=PlanFile` and reports whether changes
// are pending, without yet applying them.
func (c *Client) PlanToFile(ctx context.Context) (hasChanges bool, err error) {
	hasChanges, err = c.tf.Plan(ctx, tfexec.Out(PlanFile))
	if err != nil {
		return false, apperror.Wrap(apperror.KindExternalTool, "iac.PlanToFile", err)
	}
	return hasChanges, nil
}

// ShowPlan parses the plan saved by PlanToFile into terraform-json's
// typed Plan representation, letting callers report exactly which
// resources would be created, updated, or destroyed before Apply runs.
func (c *Client) ShowPlan(ctx context.Context) (*tfjson.Plan, error) {
	plan, err := c.tf.ShowPlanFile(ctx, PlanFile)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindParse, "iac.ShowPlan", err)
	}
	return plan, nil
}

// Apply runs `tofu apply` with auto-approve (there is no interactive
// terminal to confirm from).
func (c *Client) Apply(ctx context.Context) error {
	if err := c.tf.Apply(ctx); err != nil {
		return apperror.Wrap(apperror.KindExternalTool, "iac.Apply", err)
	}
	return nil
}

// Destroy runs `tofu destroy` with auto-approve, optionally scoped by
// -var assignments.
func (c *Client) Destroy(ctx context.Context, vars map[string]string) error {
	opts := make([]tfexec.DestroyOption, 0, len(vars))
	for k, v := range vars {
		opts = append(opts, tfexec.Var(fmt.Sprintf("%s=%s", k, v)))
	}
	if err := c.tf.Destroy(ctx, opts...); err != nil {
		return apperror.Wrap(apperror.KindExternalTool, "iac.Destroy", err)
	}
	return nil
}

// InstanceOutputs is the subset of `tofu output -json` this system reads:
// the provisioned instance's address.
type InstanceOutputs struct {
	InstanceIP net.IP
}

// Output runs `tofu output -json`, parses it into tfexec's OutputMeta
// map, and extracts "instance_ip". A malformed or missing output
// is a KindParse failure, distinct from the subprocess itself failing.
func (c *Client) Output(ctx context.Context) (InstanceOutputs, error) {
	raw, err := c.tf.Output(ctx)
	if err != nil {
		return InstanceOutputs{}, apperror.Wrap(apperror.KindExternalTool, "iac.Output", err)
	}

	meta, ok := raw["instance_ip"]
	if !ok {
		return InstanceOutputs{}, apperror.New(apperror.KindParse, "iac.Output: missing instance_ip output")
	}

	var ipStr string
	if err := json.Unmarshal(meta.Value, &ipStr); err != nil {
		return InstanceOutputs{}, apperror.Wrap(apperror.KindParse, "iac.Output: instance_ip is not a string", err)
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return InstanceOutputs{}, apperror.New(apperror.KindParse, fmt.Sprintf("iac.Output: %q is not a valid IP", ipStr))
	}
	return InstanceOutputs{InstanceIP: ip}, nil
}

// EmergencyDestroy bypasses the full command handler and invokes `tofu
// destroy -auto-approve` directly against workingDir, for test-harness
// cleanup paths that must tear down infrastructure even if the rest of
// the process state is unusable. It distinguishes a failure to even spawn
// the tool from the tool itself reporting failure.
func EmergencyDestroy(ctx context.Context, workingDir, execPath string) error {
	if _, err := exec.LookPath(execPath); err != nil {
		return apperror.Wrap(apperror.KindExternalTool, "iac.EmergencyDestroy: spawn", err)
	}
	tf, err := tfexec.NewTerraform(workingDir, execPath)
	if err != nil {
		return apperror.Wrap(apperror.KindExternalTool, "iac.EmergencyDestroy: spawn", err)
	}
	if err := tf.Destroy(ctx); err != nil {
		return apperror.Wrap(apperror.KindExternalTool, "iac.EmergencyDestroy: destroy", err)
	}
	return nil
}
