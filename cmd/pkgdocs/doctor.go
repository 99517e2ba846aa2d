package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-pkgdocs/internal/config"
	"github.com/alnah/go-pkgdocs/internal/fileutil"
	"github.com/alnah/go-pkgdocs/internal/hints"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Tools    []toolInfo  `json:"tools"`
	Project  projectInfo `json:"project"`
	Env      envInfo     `json:"environment"`
	System   systemInfo  `json:"system"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// toolInfo holds the lookup result for one external tool.
type toolInfo struct {
	Role  string `json:"role"`
	Name  string `json:"name"`
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

// projectInfo describes the package root and its configuration.
type projectInfo struct {
	Root       string `json:"root"`
	ConfigPath string `json:"config_path,omitempty"`
	Package    string `json:"package,omitempty"`
	Submodules int    `json:"submodules"`
	Readme     bool   `json:"readme"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	CPUs       int    `json:"cpus"`
	VirtualEnv bool   `json:"virtualenv"`
	CI         bool   `json:"ci"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	flags, jsonOutput, err := parseInspectFlags("doctor", args, env.Stderr, printDoctorUsage)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	result := runDoctor(flags, env)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(flags *commonFlags, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			CPUs:       env.maxCPUs(),
			VirtualEnv: hints.InVirtualEnv(),
		},
	}

	tools := checkProject(result, flags, env)
	checkTools(result, tools, env)
	checkEnvironment(result, env)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkProject loads the configuration the build would use and returns the
// tool names it selects.
func checkProject(result *doctorResult, flags *commonFlags, env *Environment) config.ToolsConfig {
	src, root, err := resolveEnv(flags.root, env)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return config.DefaultConfig().Tools
	}
	result.Project.Root = root

	envCfg := loadEnvConfig(src)
	name := flags.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	var cfg *config.Config
	if name != "" {
		cfg, err = config.LoadConfig(name)
		result.Project.ConfigPath = name
	} else {
		cfg, result.Project.ConfigPath, err = config.Discover(root)
	}
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Config: %v", err))
		return config.DefaultConfig().Tools
	}
	cfg.ApplyDefaults(root)

	result.Project.Package = cfg.Package
	result.Project.Submodules = len(cfg.ExDoc.Submodules)

	readme := filepath.Join(root, filepath.FromSlash(cfg.DocsDir), "README.rst")
	result.Project.Readme = fileutil.FileExists(readme)
	if !result.Project.Readme {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Documentation-source readme not found: %s", readme))
	}

	return cfg.Tools
}

// checkTools locates each external tool on PATH.
func checkTools(result *doctorResult, tools config.ToolsConfig, env *Environment) {
	lookPath := env.LookPath
	if lookPath == nil {
		lookPath = func(string) (string, error) { return "", errors.New("no lookup configured") }
	}

	for _, t := range []struct{ role, name string }{
		{"renderer", tools.RST2HTML},
		{"preprocessor", tools.Cog},
		{"site generator", tools.Sphinx},
	} {
		info := toolInfo{Role: t.role, Name: t.name}
		if path, err := lookPath(t.name); err == nil {
			info.Found = true
			info.Path = path
		} else {
			result.Errors = append(result.Errors, fmt.Sprintf("%s not found on PATH%s", t.name, hints.ForToolNotFound(t.name)))
		}
		result.Tools = append(result.Tools, info)
	}
}

// checkEnvironment detects virtual and CI environments.
func checkEnvironment(result *doctorResult, env *Environment) {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if val, ok := env.lookupEnv(v); ok && val != "" {
			result.Env.CI = true
			break
		}
	}

	if !result.Env.VirtualEnv && !result.Env.CI {
		result.Warnings = append(result.Warnings,
			"No Python virtual environment active. Tools may resolve to system installs")
	}
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult) {
	// The renderer writes its HTML to a temp file.
	tmpDir := os.TempDir()
	f, err := os.CreateTemp(tmpDir, "pkgdocs-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "pkgdocs doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Tools")
	for _, t := range r.Tools {
		if t.Found {
			fmt.Fprintf(w, "  [OK] %s: %s (%s)\n", t.Role, t.Name, t.Path)
		} else {
			fmt.Fprintf(w, "  [ERROR] %s: %s not found\n", t.Role, t.Name)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Project")
	fmt.Fprintf(w, "  [OK] Root: %s\n", r.Project.Root)
	if r.Project.ConfigPath != "" {
		fmt.Fprintf(w, "  [OK] Config: %s\n", r.Project.ConfigPath)
	} else {
		fmt.Fprintln(w, "  [OK] Config: defaults")
	}
	if r.Project.Package != "" {
		fmt.Fprintf(w, "  [OK] Package: %s (%d submodules)\n", r.Project.Package, r.Project.Submodules)
	}
	if r.Project.Readme {
		fmt.Fprintln(w, "  [OK] Readme: found")
	} else {
		fmt.Fprintln(w, "  [WARN] Readme: missing")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s (%d CPUs)\n", r.Env.OS, r.Env.Arch, r.Env.CPUs)
	if r.Env.VirtualEnv {
		fmt.Fprintln(w, "  [OK] Virtual environment: active")
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to build")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
