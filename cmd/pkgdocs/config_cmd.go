package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-pkgdocs/internal/yamlutil"
)

// runConfigCmd prints the effective configuration as YAML: the config file
// (or defaults) with environment overrides and defaults applied.
func runConfigCmd(args []string, env *Environment) int {
	flags, _, err := parseInspectFlags("config", args, env.Stderr, printConfigUsage)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	src, root, err := resolveEnv(flags.root, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	envCfg := loadEnvConfig(src)

	cfg, err := loadBuildConfig(flags.config, envCfg.ConfigPath, root)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	out, err := yamlutil.Encode(cfg)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitGeneral
	}
	_, _ = env.Stdout.Write(out)
	return ExitSuccess
}
