package main

import (
	"os"

	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/acmecorp/acme-infra/stacks"
)

// loadConfig returns the built-in environment settings, overlaid with the
// given YAML settings file when one was provided on the command line.
func loadConfig(filename string) (stacks.Config, error) {

	cfg := stacks.DefaultConfig()
	if filename == "" {
		return cfg, nil
	}

	const eMsg = "unable to use settings file '%s'"

	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, errors.Wrapf(err, eMsg, filename)
	}

	override := stacks.Config{}
	if err := yaml.Unmarshal(data, &override); err != nil {
		return cfg, errors.Wrapf(err, eMsg, filename)
	}

	return cfg, errors.Wrapf(mergo.MergeWithOverwrite(&cfg, override), eMsg, filename)
}
