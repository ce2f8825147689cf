package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	colorable "github.com/mattn/go-colorable"
	"github.com/urfave/cli"

	"github.com/acmecorp/acme-infra/stacks"
)

func generate(c *cli.Context) {

	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		log.Fatalf("Failed to load settings: %s\n", err)
	}

	selected, err := selectStacks(c.Args())
	if err != nil {
		log.Fatalf("%s\n", err)
	}

	// Diagnostics go to stderr in red; the success lines stay on stdout so
	// the written paths can be piped onwards.
	color.Output = colorable.NewColorableStderr()

	for _, stack := range selected {
		writeTemplate(stack, cfg, c.String("output-dir"))
	}

}

// writeTemplate renders one stack and writes it under outputDir. A stack
// that cannot be rendered or written is reported and skipped so the
// remaining stacks still get their templates; the validate command is what
// turns problems into exit codes. The output directory is never created
// here, pointing at a missing directory is reported the same way as any
// other write failure.
func writeTemplate(stack stacks.Stack, cfg stacks.Config, outputDir string) {

	filename := filepath.Join(outputDir, stack.Filename)

	data, err := stack.Build(cfg).YAML()
	if err != nil {
		color.Red("Couldn't open or write to file (%s).", err)
		return
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		color.Red("Couldn't open or write to file (%s).", err)
		return
	}

	abs, err := filepath.Abs(filename)
	if err != nil {
		abs = filename
	}
	fmt.Printf("Template written to file %s\n", abs)

}
