package main

// Notes:
// - loadEnvConfig: we test every PAGESPLICE_* variable; invalid booleans are
//   ignored, not errors.
// - warnUnknownEnvVars: we test typo detection and that known vars don't warn.
// - Tests use t.Setenv() which prevents t.Parallel() at parent level.

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("all variables", func(t *testing.T) {
		t.Setenv("PAGESPLICE_CONFIG", "/etc/pagesplice.yaml")
		t.Setenv("PAGESPLICE_ROOT", "/srv/www")
		t.Setenv("PAGESPLICE_DRY_RUN", "true")
		t.Setenv("PAGESPLICE_FAMILIES", "client, admin,,landing ")

		got := loadEnvConfig()
		want := &envConfig{
			ConfigPath: "/etc/pagesplice.yaml",
			Root:       "/srv/www",
			DryRun:     true,
			Families:   []string{"client", "admin", "landing"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("loadEnvConfig() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("invalid boolean is ignored", func(t *testing.T) {
		t.Setenv("PAGESPLICE_DRY_RUN", "sometimes")

		if loadEnvConfig().DryRun {
			t.Error("DryRun = true for invalid value")
		}
	})

	t.Run("unset", func(t *testing.T) {
		t.Setenv("PAGESPLICE_CONFIG", "")
		t.Setenv("PAGESPLICE_ROOT", "")
		t.Setenv("PAGESPLICE_DRY_RUN", "")
		t.Setenv("PAGESPLICE_FAMILIES", "")

		got := loadEnvConfig()
		if got.ConfigPath != "" || got.Root != "" || got.DryRun || got.Families != nil {
			t.Errorf("loadEnvConfig() = %+v, want zero value", got)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("PAGESPLICE_DRYRUN", "1")
	t.Setenv("PAGESPLICE_ROOT", "/srv/www")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	out := buf.String()
	if !strings.Contains(out, "unknown environment variable PAGESPLICE_DRYRUN") {
		t.Errorf("missing typo warning: %q", out)
	}
	if strings.Contains(out, "PAGESPLICE_ROOT") {
		t.Errorf("known variable reported: %q", out)
	}
}

// ---------------------------------------------------------------------------
// TestRun_EnvOverrides - flags > env > file
// ---------------------------------------------------------------------------

func TestRun_EnvOverrides(t *testing.T) {
	t.Run("config, dry run and families from env", func(t *testing.T) {
		site := newTestSite(t)
		t.Setenv("PAGESPLICE_CONFIG", site.config)
		t.Setenv("PAGESPLICE_DRY_RUN", "1")
		t.Setenv("PAGESPLICE_FAMILIES", "landing")
		env, stdout, _ := testEnv(t)

		code := runMain(context.Background(), []string{"pagesplice", "run"}, env)
		if code != ExitSuccess {
			t.Fatalf("exit = %d", code)
		}
		if site.read(t, "landing/index.html") != testLandingPage {
			t.Error("PAGESPLICE_DRY_RUN ignored")
		}
		if !strings.Contains(stdout.String(), "Would convert "+site.path("landing/index.html")) {
			t.Errorf("stdout:\n%s", stdout.String())
		}
		if strings.Contains(stdout.String(), "client") {
			t.Errorf("PAGESPLICE_FAMILIES ignored:\n%s", stdout.String())
		}
	})

	t.Run("positional families beat env", func(t *testing.T) {
		site := newTestSite(t)
		t.Setenv("PAGESPLICE_FAMILIES", "landing")
		env, _, _ := testEnv(t)

		code := runMain(context.Background(), []string{"pagesplice", "run", "client", "-c", site.config}, env)
		if code != ExitSuccess {
			t.Fatalf("exit = %d", code)
		}
		if site.read(t, "landing/index.html") != testLandingPage {
			t.Error("landing processed although client was named")
		}
		if site.read(t, "client/page.html") == testHardcodedPage {
			t.Error("client not processed")
		}
	})

	t.Run("root flag beats env", func(t *testing.T) {
		site := newTestSite(t)
		t.Setenv("PAGESPLICE_ROOT", site.path("nope"))
		env, _, stderr := testEnv(t)

		code := runMain(context.Background(), []string{"pagesplice", "run", "-n", "-c", site.config, "-r", site.dir}, env)
		if code != ExitSuccess {
			t.Fatalf("exit = %d\nstderr: %s", code, stderr.String())
		}
	})

	t.Run("env root beats file", func(t *testing.T) {
		site := newTestSite(t)
		t.Setenv("PAGESPLICE_ROOT", site.path("nope"))
		env, _, _ := testEnv(t)

		code := runMain(context.Background(), []string{"pagesplice", "run", "-c", site.config}, env)
		if code != ExitIO {
			t.Fatalf("exit = %d, want %d", code, ExitIO)
		}
	})
}
