package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/mhollis/sitereport/internal/check"
	"github.com/mhollis/sitereport/internal/config"
	"github.com/mhollis/sitereport/internal/errors"
	"github.com/mhollis/sitereport/internal/logging"
	"github.com/mhollis/sitereport/internal/probe"
	"github.com/mhollis/sitereport/internal/report"
	"github.com/mhollis/sitereport/internal/site"
)

var (
	runOutput   string
	runJSON     bool
	runStrict   bool
	runSections []string
	runPick     bool
)

func init() {
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "",
		"report output path (default: from config)")
	runCmd.Flags().BoolVar(&runJSON, "json", false,
		"print results as JSON to stdout instead of rendering HTML")
	runCmd.Flags().BoolVar(&runStrict, "strict", false,
		"exit with code 2 when any check is critical")
	runCmd.Flags().StringSliceVar(&runSections, "sections", nil,
		"limit the report to these sections (comma-separated)")
	runCmd.Flags().BoolVar(&runPick, "pick", false,
		"pick the sections to report interactively")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Query the site and generate the health report",
	Long: `Connect to the site's backends, run every configured check, and
write the styled HTML report. The previous report at the output path is
overwritten.

A check that fails to answer becomes a Critical row; a check whose
backend is absent from the inventory becomes an Unknown row. Neither
stops the run. Only a failed management connection aborts the report,
and even then a short fatal page is written in its place.

Exit codes:
  0 - Report rendered (rows may still be Warning or Critical)
  1 - Invalid configuration or inventory
  2 - Management connection failed, or --strict with Critical rows`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	styles, err := cfg.StyleMap()
	if err != nil {
		return errors.NewConfigError(err)
	}
	renderer, err := report.NewRenderer(styles)
	if err != nil {
		return errors.NewConfigError(err)
	}

	output := runOutput
	if output == "" {
		output = cfg.Output
	}

	siteCfg, err := config.LoadInventory(cfg.Inventory, cfg.DialTimeout)
	if err != nil {
		return errors.NewConfigError(err)
	}

	conn, err := site.Dial(ctx, siteCfg, logger)
	if err != nil {
		// No data to report, but leave a page explaining why in place of
		// the stale report.
		if werr := report.WriteFatalFile(output, siteCfg.Target, err); werr != nil {
			logger.Error("writing fatal page failed", "path", output, "error", werr)
		} else {
			logger.Info("wrote fatal page", "path", output)
		}
		return errors.NewSystemError(err, "check the site inventory: "+cfg.Inventory)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			logger.Warn("closing site connection", "error", cerr)
		}
	}()

	registry, err := probe.Definitions(conn, cfg.Thresholds)
	if err != nil {
		return errors.NewConfigError(err)
	}

	registry, err = selectSections(registry)
	if err != nil {
		return err
	}
	if registry == nil {
		// Interactive pick aborted.
		return nil
	}

	runner := check.NewRunner(registry, conn.Target(),
		check.WithProbeTimeout(cfg.ProbeTimeout),
		check.WithLogger(logger),
	)
	rep := runner.Run(ctx)

	if runJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return errors.Wrap(err, "encoding JSON")
		}
	} else {
		if err := renderer.WriteFile(output, rep); err != nil {
			return errors.NewSystemError(err, "check the output path is writable")
		}
		if !quiet {
			report.NewPrinter(cmd.OutOrStdout(), verbosity > 0).Print(rep)
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)
		}
	}

	if runStrict && rep.HasCritical() {
		return errors.NewExitError(errors.New("critical results present"), errors.ExitSystem)
	}
	return nil
}

// selectSections narrows the registry per --sections or --pick. A nil
// registry with nil error means the user cancelled the interactive pick.
func selectSections(registry *check.Registry) (*check.Registry, error) {
	if runPick && len(runSections) > 0 {
		return nil, errors.NewUserError(nil, "use either --pick or --sections, not both")
	}

	if len(runSections) > 0 {
		known := make(map[string]struct{})
		for _, s := range registry.Sections() {
			known[s] = struct{}{}
		}
		var invalid []string
		for _, s := range runSections {
			if _, ok := known[s]; !ok {
				invalid = append(invalid, s)
			}
		}
		if len(invalid) > 0 {
			err := errors.Newf("unknown section(s): %s (valid: %s)",
				strings.Join(invalid, ", "),
				strings.Join(registry.Sections(), ", "))
			return nil, errors.NewUserError(err, "Run 'sitereport checks' to see sections")
		}
		return registry.Filter(runSections), nil
	}

	if runPick {
		sections := registry.Sections()
		idxs, err := fuzzyfinder.FindMulti(
			sections,
			func(i int) string { return sections[i] },
		)
		if err != nil {
			if errors.Is(err, fuzzyfinder.ErrAbort) {
				return nil, nil
			}
			return nil, errors.Wrap(err, "interactive section pick failed")
		}
		keep := make([]string, 0, len(idxs))
		for _, i := range idxs {
			keep = append(keep, sections[i])
		}
		return registry.Filter(keep), nil
	}

	return registry, nil
}
