package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mhollis/sitereport/internal/config"
)

// setupInitTest points the config directory at a temp dir and resets
// the init flags.
func setupInitTest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SITEREPORT_CONFIG_DIR", dir)
	initForce = false
	t.Cleanup(func() { initForce = false })
	return dir
}

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd
}

func TestInitWritesStarterFiles(t *testing.T) {
	dir := setupInitTest(t)

	if err := runInit(newTestCmd(), nil); err != nil {
		t.Fatalf("runInit failed: %v", err)
	}

	for _, name := range []string{"config.yaml", "site.toml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}

func TestInitRefusesToOverwrite(t *testing.T) {
	dir := setupInitTest(t)

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("output: /tmp/mine.html\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runInit(newTestCmd(), nil); err == nil {
		t.Fatal("expected an error when config.yaml already exists")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "output: /tmp/mine.html\n" {
		t.Error("existing config.yaml was modified")
	}
}

func TestInitForceOverwrites(t *testing.T) {
	dir := setupInitTest(t)

	path := filepath.Join(dir, "site.toml")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	initForce = true
	if err := runInit(newTestCmd(), nil); err != nil {
		t.Fatalf("runInit --force failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) == "stale" {
		t.Error("site.toml was not overwritten")
	}
}

// The files init writes must load back through the same code paths a
// run uses.
func TestInitOutputLoads(t *testing.T) {
	dir := setupInitTest(t)

	if err := runInit(newTestCmd(), nil); err != nil {
		t.Fatalf("runInit failed: %v", err)
	}

	viper.Reset()
	t.Cleanup(viper.Reset)
	config.Init()

	loaded, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("loading written config failed: %v", err)
	}

	if _, err := config.LoadInventory(loaded.Inventory, loaded.DialTimeout); err != nil {
		t.Fatalf("loading written inventory failed: %v", err)
	}
}
