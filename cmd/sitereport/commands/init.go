package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/mhollis/sitereport/internal/check"
	"github.com/mhollis/sitereport/internal/config"
	"github.com/mhollis/sitereport/internal/errors"
	"github.com/mhollis/sitereport/internal/paths"
	"github.com/mhollis/sitereport/pkg/fileutil"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false,
		"overwrite existing configuration files")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write starter configuration files",
	Long: `Write a starter config.yaml (thresholds, output path, report palette)
and site.toml (site inventory) into the sitereport config directory.

The inventory entries are placeholders. Point them at the real site
backends before running a report.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := paths.ConfigHome()
	if err := paths.EnsureDir(dir, 0); err != nil {
		return errors.NewSystemError(err, "check permissions on "+dir)
	}

	configPath := filepath.Join(dir, "config.yaml")
	inventoryPath := filepath.Join(dir, "site.toml")

	if !initForce {
		for _, p := range []string{configPath, inventoryPath} {
			if _, err := os.Stat(p); err == nil {
				return errors.NewUserError(
					errors.Newf("%s already exists", p),
					"use --force to overwrite")
			}
		}
	}

	// Durations go out as strings so the file reads as "15s", not as
	// nanosecond integers.
	starter := struct {
		Output       string           `yaml:"output"`
		Inventory    string           `yaml:"inventory"`
		ProbeTimeout string           `yaml:"probe_timeout"`
		DialTimeout  string           `yaml:"dial_timeout"`
		Thresholds   check.Thresholds `yaml:"thresholds"`
	}{
		Output:       filepath.Join(paths.DataHome(), "report.html"),
		Inventory:    inventoryPath,
		ProbeTimeout: check.DefaultProbeTimeout.String(),
		DialTimeout:  (10 * time.Second).String(),
		Thresholds:   check.DefaultThresholds(),
	}
	if err := fileutil.AtomicWriteYAML(configPath, starter); err != nil {
		return errors.NewSystemError(err, "check permissions on "+dir)
	}

	inv, err := toml.Marshal(config.SampleInventory())
	if err != nil {
		return errors.Wrap(err, "marshaling sample inventory")
	}
	if err := fileutil.AtomicWriteFile(inventoryPath, inv, paths.DefaultFilePerm); err != nil {
		return errors.NewSystemError(err, "check permissions on "+dir)
	}

	if !quiet {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Wrote %s\n", configPath)
		fmt.Fprintf(out, "Wrote %s\n", inventoryPath)
		fmt.Fprintln(out, "\nEdit site.toml to point at the site's backends, then run: sitereport run")
	}
	return nil
}
