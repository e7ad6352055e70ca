package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// envPrefix namespaces every environment variable the CLI reads.
const envPrefix = "PAGESPLICE_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without editing the YAML file.
type envConfig struct {
	ConfigPath string   // PAGESPLICE_CONFIG: config file name or path
	Root       string   // PAGESPLICE_ROOT: document root
	DryRun     bool     // PAGESPLICE_DRY_RUN: compute results without writing
	Families   []string // PAGESPLICE_FAMILIES: comma-separated family names
}

// knownEnvVars lists valid PAGESPLICE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"PAGESPLICE_CONFIG":    true,
	"PAGESPLICE_ROOT":      true,
	"PAGESPLICE_DRY_RUN":   true,
	"PAGESPLICE_FAMILIES":  true,
	"PAGESPLICE_CONTAINER": true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Invalid booleans are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("PAGESPLICE_CONFIG"),
		Root:       os.Getenv("PAGESPLICE_ROOT"),
	}

	if v := os.Getenv("PAGESPLICE_DRY_RUN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DryRun = b
		}
	}

	if v := os.Getenv("PAGESPLICE_FAMILIES"); v != "" {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Families = append(cfg.Families, name)
			}
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized PAGESPLICE_* variables.
// Helps catch typos like PAGESPLICE_DRYRUN instead of PAGESPLICE_DRY_RUN.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}
