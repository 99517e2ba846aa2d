package main

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/template"

	flag "github.com/spf13/pflag"
)

// Shell is a shell supported by the completion command.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

var supportedShells = []Shell{ShellBash, ShellZsh, ShellFish}

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

//go:embed completions/*.tmpl
var completionFS embed.FS

// flagKind selects how a flag's value is completed.
type flagKind string

const (
	flagBool  flagKind = "bool"
	flagValue flagKind = "value"
	flagFile  flagKind = "file"
	flagDir   flagKind = "dir"
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long  string
	Short string
	Desc  string
	Kind  flagKind
	Globs []string // file patterns for flagFile, without the leading "*."
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
	Args  []string // fixed positional values
}

// completionMeta holds completion hints that a FlagSet cannot express.
type completionMeta struct {
	Globs []string
	IsDir bool
}

var flagCompletionMeta = map[string]completionMeta{
	"config":    {Globs: []string{"yaml", "yml"}},
	"root":      {IsDir: true},
	"directory": {IsDir: true},
}

// extractFlags converts a FlagSet into completion definitions, sorted by
// long name.
func extractFlags(fs *flag.FlagSet) []flagDef {
	var flags []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage, Kind: flagValue}
		if f.Value.Type() == "bool" {
			fd.Kind = flagBool
		}
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Globs) > 0:
				fd.Kind = flagFile
				fd.Globs = meta.Globs
			case meta.IsDir:
				fd.Kind = flagDir
			}
		}
		flags = append(flags, fd)
	})
	return flags
}

// getCommands returns the command registry for completion. Flags come from
// the same FlagSets the commands parse.
func getCommands() []commandDef {
	var jsonOutput bool
	shells := make([]string, len(supportedShells))
	for i, s := range supportedShells {
		shells[i] = string(s)
	}

	return []commandDef{
		{
			Name:  "build",
			Desc:  "Build the package documentation",
			Flags: extractFlags(newBuildFlagSet(&buildFlags{})),
		},
		{
			Name:  "doctor",
			Desc:  "Check external tools and project layout",
			Flags: extractFlags(newInspectFlagSet("doctor", &commonFlags{}, &jsonOutput)),
		},
		{
			Name:  "config",
			Desc:  "Print the effective configuration",
			Flags: extractFlags(newInspectFlagSet("config", &commonFlags{}, &jsonOutput)),
		},
		{
			Name: "completion",
			Desc: "Generate shell completion script",
			Args: shells,
		},
		{
			Name: "version",
			Desc: "Show version information",
		},
		{
			Name: "help",
			Desc: "Show help for a command",
			Args: []string{"build", "doctor", "config", "completion", "version"},
		},
	}
}

var completionFuncs = template.FuncMap{
	"join":       strings.Join,
	"commands":   commandNames,
	"flagWords":  flagWords,
	"bashCase":   bashCase,
	"zshArgs":    zshArgs,
	"fishArg":    fishArg,
	"fishEscape": fishEscape,
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	known := false
	for _, s := range supportedShells {
		if s == shell {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}

	name := string(shell) + ".tmpl"
	tmpl, err := template.New(name).Funcs(completionFuncs).ParseFS(completionFS, "completions/"+name)
	if err != nil {
		return fmt.Errorf("parsing %s completion template: %w", shell, err)
	}
	if err := tmpl.Execute(w, getCommands()); err != nil {
		return fmt.Errorf("writing %s completion: %w", shell, err)
	}
	return nil
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

// flagWords lists every spelling of the flags, then the fixed arguments.
func flagWords(c commandDef) string {
	var words []string
	for _, f := range c.Flags {
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
		words = append(words, "--"+f.Long)
	}
	return strings.Join(append(words, c.Args...), " ")
}

// bashCase returns the case pattern matching every spelling of f.
func bashCase(f flagDef) string {
	if f.Short == "" {
		return "--" + f.Long
	}
	return "-" + f.Short + "|--" + f.Long
}

// zshArgs returns the _arguments specs for c, one per line.
func zshArgs(c commandDef) string {
	var specs []string
	for _, f := range c.Flags {
		desc := strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`).Replace(f.Desc)
		action := ""
		switch f.Kind {
		case flagValue:
			action = ":" + f.Long + ": "
		case flagDir:
			action = ":" + f.Long + ":_files -/"
		case flagFile:
			action = ":" + f.Long + ":_files -g \"*.(" + strings.Join(f.Globs, "|") + ")\""
		}
		if f.Short == "" {
			specs = append(specs, "'--"+f.Long+"["+desc+"]"+action+"'")
			continue
		}
		specs = append(specs, fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, action))
	}
	if len(c.Args) > 0 {
		specs = append(specs, "'1:argument:("+strings.Join(c.Args, " ")+")'")
	}
	return strings.Join(specs, " \\\n            ")
}

// fishArg returns the complete options describing f's value.
func fishArg(f flagDef) string {
	switch f.Kind {
	case flagValue:
		return " -r"
	case flagDir:
		return " -r -a '(__fish_complete_directories)'"
	case flagFile:
		return " -r -F"
	}
	return ""
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

// runCompletionCmd handles the completion command.
func runCompletionCmd(args []string, env *Environment) int {
	switch len(args) {
	case 0:
		printCompletionUsage(env.Stdout)
		return ExitSuccess
	case 1:
	default:
		fmt.Fprintf(env.Stderr, "error: %v\n", unexpectedArgs(args[1:]))
		return ExitUsage
	}

	if err := GenerateCompletion(env.Stdout, Shell(args[0])); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}
