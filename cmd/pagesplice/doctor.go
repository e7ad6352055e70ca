package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	pagesplice "github.com/alnah/go-pagesplice"
	"github.com/alnah/go-pagesplice/internal/config"
	"github.com/alnah/go-pagesplice/internal/fileutil"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string         `json:"status"` // "ready", "warnings", "errors"
	Config   configInfo     `json:"config"`
	Root     rootInfo       `json:"root"`
	Families []familyReport `json:"families,omitempty"`
	Env      envInfo        `json:"environment"`
	Warnings []string       `json:"warnings,omitempty"`
	Errors   []string       `json:"errors,omitempty"`
}

// configInfo holds config resolution results.
type configInfo struct {
	Path   string `json:"path,omitempty"`
	Loaded bool   `json:"loaded"`
}

// rootInfo holds document root checks.
type rootInfo struct {
	Path     string `json:"path,omitempty"`
	Exists   bool   `json:"exists"`
	Writable bool   `json:"writable"`
}

// familyReport holds per-family checks.
type familyReport struct {
	Name      string   `json:"name"`
	Dir       string   `json:"dir"`
	DirExists bool     `json:"dir_exists"`
	Compiled  bool     `json:"compiled"`
	Documents int      `json:"documents"`
	Present   int      `json:"present"`
	Missing   []string `json:"missing,omitempty"`
	Outputs   int      `json:"existing_outputs,omitempty"` // sibling outputs already written
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	GoMaxProcs    int    `json:"gomaxprocs"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args)
	if err != nil {
		if exitCodeFor(err) == ExitUsage {
			fmt.Fprintln(env.Stderr, err)
			return ExitUsage
		}
		printDoctorUsage(env.Stdout)
		return ExitSuccess
	}

	result := runDoctor(flags.common.config, flags.root, loadEnvConfig())

	if flags.json {
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
func runDoctor(configFlag, rootFlag string, envCfg *envConfig) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			GoMaxProcs: runtime.GOMAXPROCS(0),
		},
	}
	result.Env.Container, result.Env.ContainerHint = isContainer()

	if cfg := checkConfig(result, configFlag, rootFlag, envCfg); cfg != nil {
		checkRootDir(result, cfg)
		if result.Root.Exists {
			for i := range cfg.Families {
				checkFamily(result, cfg, &cfg.Families[i])
			}
		}
	}

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

// checkConfig resolves and loads the config, recording any failure.
func checkConfig(result *doctorResult, configFlag, rootFlag string, envCfg *envConfig) *config.Config {
	name := configFlag
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		name = defaultConfigName
	}
	if path, err := config.ResolvePath(name); err == nil {
		result.Config.Path = path
	}

	cfg, err := loadConfig(configFlag, rootFlag, envCfg)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return nil
	}
	result.Config.Loaded = true
	if len(cfg.Families) == 0 {
		result.Warnings = append(result.Warnings, "config declares no families")
	}
	return cfg
}

// checkRootDir verifies the document root exists and is writable.
func checkRootDir(result *doctorResult, cfg *config.Config) {
	result.Root.Path = cfg.Root
	if !fileutil.DirExists(cfg.Root) {
		result.Errors = append(result.Errors, fmt.Sprintf("Document root not found: %s", cfg.Root))
		return
	}
	result.Root.Exists = true

	probe, err := os.CreateTemp(cfg.Root, ".pagesplice-doctor-*")
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Document root not writable: %s (only --dry-run will work)", cfg.Root))
		return
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())
	result.Root.Writable = true
}

// checkFamily compiles a family and checks its documents exist.
func checkFamily(result *doctorResult, cfg *config.Config, fc *config.FamilyConfig) {
	fam := buildFamily(cfg, fc)
	report := familyReport{
		Name:      fc.Name,
		Dir:       fam.Dir,
		Documents: len(fam.Documents),
	}

	if fileutil.DirExists(fam.Dir) {
		report.DirExists = true
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("Family %s: directory not found: %s", fc.Name, fam.Dir))
	}

	if _, err := pagesplice.New(fam); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Family %s: %v", fc.Name, err))
	} else {
		report.Compiled = true
	}

	for _, d := range fam.Documents {
		path := d.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(fam.Dir, path)
		}
		if !fileutil.FileExists(path) {
			report.Missing = append(report.Missing, d.Path)
			continue
		}
		report.Present++
		if fam.Output.Suffix != "" && fileutil.FileExists(fileutil.SiblingPath(path, fam.Output.Suffix)) {
			report.Outputs++
		}
	}
	if len(report.Missing) > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Family %s: %d of %d document(s) missing (will be skipped)", fc.Name, len(report.Missing), report.Documents))
	}

	result.Families = append(result.Families, report)
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("PAGESPLICE_CONTAINER") == "1" {
		return true, "PAGESPLICE_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "pagesplice doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config")
	if r.Config.Loaded {
		fmt.Fprintf(w, "  [OK] Loaded %s\n", r.Config.Path)
	} else {
		fmt.Fprintln(w, "  [ERROR] Not loaded")
	}
	fmt.Fprintln(w)

	if r.Config.Loaded {
		fmt.Fprintln(w, "Document root")
		switch {
		case !r.Root.Exists:
			fmt.Fprintf(w, "  [ERROR] %s not found\n", r.Root.Path)
		case r.Root.Writable:
			fmt.Fprintf(w, "  [OK] %s (writable)\n", r.Root.Path)
		default:
			fmt.Fprintf(w, "  [WARN] %s (read-only)\n", r.Root.Path)
		}
		fmt.Fprintln(w)
	}

	if len(r.Families) > 0 {
		fmt.Fprintln(w, "Families")
		for _, f := range r.Families {
			tag := "[OK]"
			if !f.DirExists || !f.Compiled {
				tag = "[ERROR]"
			} else if len(f.Missing) > 0 {
				tag = "[WARN]"
			}
			fmt.Fprintf(w, "  %s %s: %d/%d document(s) present", tag, f.Name, f.Present, f.Documents)
			if f.Outputs > 0 {
				fmt.Fprintf(w, ", %d already converted", f.Outputs)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	fmt.Fprintf(w, "  [OK] GOMAXPROCS: %d\n", r.Env.GoMaxProcs)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
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
		fmt.Fprintln(w, "Status: Ready to run")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
