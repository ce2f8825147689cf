package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/awslabs/goformation/v7"
	"github.com/urfave/cli"
)

func validate(c *cli.Context) {

	selected, err := selectStacks(c.Args())
	if err != nil {
		log.Fatalf("%s\n", err)
	}

	failed := false
	for _, stack := range selected {
		filename := filepath.Join(c.String("output-dir"), stack.Filename)
		if _, err := goformation.Open(filename); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", filename, err)
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Valid!\n")
	os.Exit(0)

}
