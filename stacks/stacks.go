// Package stacks assembles the CloudFormation templates that make up the
// ACME Corp hosting environment. Each stack is built entirely in memory from
// typed goformation resources; writing the rendered YAML to disk is the
// caller's job.
package stacks

import (
	"time"

	"github.com/awslabs/goformation/v7/cloudformation"
	"github.com/pkg/errors"
)

// Config carries the environment-specific values that get baked into the
// templates at generation time.
type Config struct {
	// JumpserverCIDRs are the source ranges allowed to SSH to API instances.
	JumpserverCIDRs []string `yaml:"jumpserver_cidrs"`

	// AppHostnames are the host headers the API load balancer listener
	// rules match on.
	AppHostnames []string `yaml:"app_hostnames"`

	// DeployRegion is the region the CodeDeploy agent installer is fetched
	// from and deployments are created in.
	DeployRegion string `yaml:"deploy_region"`

	// UIApplication and APIApplication are the CodeDeploy application names
	// deployed onto fresh API instances.
	UIApplication  string `yaml:"ui_application"`
	APIApplication string `yaml:"api_application"`

	// DeploymentGroup is the CodeDeploy deployment group targeted by both
	// deployments.
	DeploymentGroup string `yaml:"deployment_group"`

	// LaunchDate stamps the launch configuration name. The zero value means
	// "now", which is what the CLI always uses.
	LaunchDate time.Time `yaml:"-"`
}

// DefaultConfig returns the production settings. A settings file given to
// the CLI is merged over these.
func DefaultConfig() Config {
	return Config{
		JumpserverCIDRs: []string{"xx.xx.xx.xx/32", "xx.xx.xx.xx/32"},
		AppHostnames:    []string{"app.acme.com", "api.acme.com"},
		DeployRegion:    "us-west-2",
		UIApplication:   "acme-ui",
		APIApplication:  "acme-api-framework",
		DeploymentGroup: "staging",
	}
}

// Stack describes one deployable CloudFormation template.
type Stack struct {
	// Name is the identifier used on the command line.
	Name string

	// Filename is the name of the YAML file written under the output
	// directory.
	Filename string

	// Description matches the template's Description field.
	Description string

	// Build assembles the template. Builders are pure and never touch
	// the filesystem.
	Build func(Config) *cloudformation.Template
}

// All returns the known stacks in deployment order. Each stack only imports
// values exported by stacks earlier in the slice.
func All() []Stack {
	return []Stack{
		{
			Name:        "vpc",
			Filename:    "vpc.yaml",
			Description: "VPC for hosting ACME Corp application.",
			Build:       Network,
		},
		{
			Name:        "security-groups",
			Filename:    "security-groups.yaml",
			Description: "EC2 Security groups for ACME.",
			Build:       SecurityGroups,
		},
		{
			Name:        "db",
			Filename:    "db.yaml",
			Description: "Setup DB servers for ACME.",
			Build:       Database,
		},
		{
			Name:        "load-balancers",
			Filename:    "load-balancers.yaml",
			Description: "Load balancers for ACME.",
			Build:       LoadBalancers,
		},
		{
			Name:        "api-asg",
			Filename:    "api-asg.yaml",
			Description: "Auto Scaling group for ACME.",
			Build:       APIAutoScaling,
		},
	}
}

// Find returns the stack registered under the given name.
func Find(name string) (Stack, error) {
	for _, s := range All() {
		if s.Name == name {
			return s, nil
		}
	}
	return Stack{}, errors.Errorf("unknown stack %q", name)
}

// newTemplate returns a template with the fields every ACME stack shares.
func newTemplate(description string) *cloudformation.Template {
	t := cloudformation.NewTemplate()
	t.Description = description
	return t
}
