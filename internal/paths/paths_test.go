package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigHome_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SITEREPORT_CONFIG_DIR", dir)

	if got := ConfigHome(); got != dir {
		t.Errorf("ConfigHome() = %q, want %q", got, dir)
	}
}

func TestConfigHome_Default(t *testing.T) {
	t.Setenv("SITEREPORT_CONFIG_DIR", "")

	got := ConfigHome()
	if filepath.Base(got) != AppDir {
		t.Errorf("ConfigHome() = %q, want it to end in %q", got, AppDir)
	}
}

func TestEnsureDir(t *testing.T) {
	t.Run("creates nested directories", func(t *testing.T) {
		base := t.TempDir()
		target := filepath.Join(base, "a", "b", "c")

		if err := EnsureDir(target, 0); err != nil {
			t.Fatalf("EnsureDir() error = %v", err)
		}

		info, err := os.Stat(target)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if !info.IsDir() {
			t.Error("target is not a directory")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		base := t.TempDir()
		if err := EnsureDir(base, 0); err != nil {
			t.Errorf("EnsureDir() on existing dir error = %v", err)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		if err := EnsureDir("", 0); err == nil {
			t.Error("EnsureDir(\"\") should error")
		}
	})
}
