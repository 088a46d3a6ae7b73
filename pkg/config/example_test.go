package config_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/walteh/rewriterc/pkg/config"
)

func Example() {
	dir, err := os.MkdirTemp("", "rewriterc-example")
	if err != nil {
		fmt.Printf("Error creating dir: %v\n", err)
		return
	}
	defer os.RemoveAll(dir)

	configHCL := `
encoding = "utf-8"

rule "logout" {
  pattern     = "logout({ returnTo: window.location.origin })"
  replacement = "logout()"
  policy      = "zero_or_more"
}

target {
  paths = ["src/components/Navbar.jsx"]
  rules = ["logout"]
}
`
	configPath := filepath.Join(dir, ".rewriterc.hcl")
	if err := os.WriteFile(configPath, []byte(configHCL), 0644); err != nil {
		fmt.Printf("Error writing config: %v\n", err)
		return
	}

	// Load and validate the config
	cfg, err := config.Load(context.Background(), configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	targets, err := cfg.ExpandTargets(context.Background(), dir)
	if err != nil {
		fmt.Printf("Error expanding targets: %v\n", err)
		return
	}

	for _, t := range targets {
		fmt.Printf("%s: %d rule(s), first %q (%s)\n", filepath.ToSlash(t.Path), len(t.Rules), t.Rules[0].Name, t.Rules[0].Policy)
	}

	// Output:
	// src/components/Navbar.jsx: 1 rule(s), first "logout" (zero_or_more)
}
