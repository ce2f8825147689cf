package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli"

	"github.com/acmecorp/acme-infra/stacks"
)

const LOCAL_BUILD_VERSION = "snapshot"

// `version` property will be replaced by the build upon release
var version = LOCAL_BUILD_VERSION

func main() {

	color.Unset()

	app := cli.NewApp()

	app.Name = "acme-infra"
	app.Version = version
	app.Usage = `
     ACME Corp infrastructure templates

     Generates the CloudFormation templates that make up the ACME hosting environment: the VPC, EC2 security groups, load balancers, the API auto scaling group and the DB servers. Templates are written as YAML files under ./templates and deployed with the AWS CLI. Stacks are wired together at deploy time through export names derived from the names the stacks were deployed under, so templates never need regenerating when a stack name changes.
	`
	app.EnableBashCompletion = true

	app.Commands = []cli.Command{
		cli.Command{
			Name:      "generate",
			Usage:     "Generates the CloudFormation templates and writes them to the output directory, one YAML file per stack. With no arguments all stacks are generated; pass stack names to regenerate a subset. A stack that cannot be written is reported on stderr and skipped, the remaining stacks are still attempted.",
			ArgsUsage: "[stack...]",
			Action:    generate,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:   "output-dir, o",
					Value:  "templates",
					Usage:  "Directory the template files are written to. It must already exist.",
					EnvVar: "ACME_OUTPUT_DIR",
				},
				cli.StringFlag{
					Name:   "config, c",
					Usage:  "Optional. YAML file with environment settings (jumpserver CIDRs, application hostnames, CodeDeploy applications) merged over the built-in defaults.",
					EnvVar: "ACME_CONFIG_FILE",
				},
			},
		},

		cli.Command{
			Name:      "validate",
			Usage:     "Validates the generated templates. Re-opens each YAML file in the output directory and returns a non-zero exit code if any of them fails to parse as a CloudFormation template.",
			ArgsUsage: "[stack...]",
			Action:    validate,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:   "output-dir, o",
					Value:  "templates",
					Usage:  "Directory the template files were written to.",
					EnvVar: "ACME_OUTPUT_DIR",
				},
			},
		},

		cli.Command{
			Name:   "list",
			Usage:  "Lists the known stacks in deployment order.",
			Action: list,
		},
	}

	app.Run(os.Args)

}

// selectStacks resolves command line arguments to registered stacks. With no
// arguments every stack is selected, in deployment order.
func selectStacks(args []string) ([]stacks.Stack, error) {
	if len(args) == 0 {
		return stacks.All(), nil
	}

	selected := make([]stacks.Stack, 0, len(args))
	for _, name := range args {
		s, err := stacks.Find(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, s)
	}
	return selected, nil
}

func list(c *cli.Context) {
	for _, s := range stacks.All() {
		fmt.Printf("%-16s %-21s %s\n", s.Name, s.Filename, s.Description)
	}
}
