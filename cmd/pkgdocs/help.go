package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pkgdocs <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      Build the package documentation")
	fmt.Fprintln(w, "  doctor     Check external tools and project layout")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'pkgdocs help <command>' for details on a specific command.")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pkgdocs build [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rebuild the top-level README.rst, insert source excerpts, and")
	fmt.Fprintln(w, "generate the HTML documentation.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exceptions documentation:")
	fmt.Fprintln(w, "  -r, --rebuild             Rebuild exceptions documentation (asks first)")
	fmt.Fprintln(w, "  -t, --test                Rebuild, diff against committed sources, restore")
	fmt.Fprintln(w, "                            Exits 1 when a module differs")
	fmt.Fprintln(w, "  -n, --num-cpus <n>        CPUs for the rebuild (default: 1)")
	fmt.Fprintln(w, "  -d, --directory <path>    Module source directory (default: ROOT/PACKAGE)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Project:")
	printCommonUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  PKGDOCS_CONFIG, PKGDOCS_ROOT, PKGDOCS_NUM_CPUS, PKGDOCS_NO_COLOR")
	fmt.Fprintln(w, "  Also read from ROOT/.env; the process environment wins.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0 success, 1 failure or differences, 2 usage, 3 I/O, 4 tool not found")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pkgdocs doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that the renderer, preprocessor and site generator are on PATH")
	fmt.Fprintln(w, "and that the project configuration loads.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Output as JSON")
	printCommonUsage(w)
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pkgdocs config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the effective configuration as YAML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	printCommonUsage(w)
}

// printCompletionUsage prints usage for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pkgdocs completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate the completion script for bash, zsh or fish.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:  eval \"$(pkgdocs completion bash)\"            # in ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:   eval \"$(pkgdocs completion zsh)\"             # in ~/.zshrc, before compinit")
	fmt.Fprintln(w, "  Fish:  pkgdocs completion fish > ~/.config/fish/completions/pkgdocs.fish")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "  -C, --root <path>         Package root (default: .)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show tool commands and diagnostics")
	fmt.Fprintln(w, "      --no-color            Disable colored output")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: pkgdocs version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: pkgdocs help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
