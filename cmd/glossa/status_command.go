package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"glossa/internal/api"
	"glossa/internal/config"
	"glossa/internal/daemonctl"
	"glossa/internal/store"
)

const (
	ansiBlue  = "\x1b[34m"
	ansiReset = "\x1b[0m"
)

type statusReport struct {
	Running         bool              `json:"running"`
	PID             int               `json:"pid,omitempty"`
	Daemon          *api.DaemonStatus `json:"daemon,omitempty"`
	RecordingCounts map[string]int    `json:"recordingCounts"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and catalog status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				if asJSON {
					report := statusReport{RecordingCounts: map[string]int{}}
					report.Running, report.PID = daemonctl.ProcessInfo(cfg)
					if report.Running {
						if status, err := daemonctl.NewClient(cfg).Status(cmd.Context()); err == nil {
							report.Daemon = status
						}
					}
					counts, err := st.CountRecordings(cmd.Context())
					if err != nil {
						return err
					}
					for status, n := range counts {
						report.RecordingCounts[string(status)] = n
					}
					return printJSON(out, report)
				}

				printHeading(out, "Daemon", colorize)
				running, pid := daemonctl.ProcessInfo(cfg)
				if running {
					fmt.Fprintf(out, "Running (pid %d)\n", pid)
					if status, err := daemonctl.NewClient(cfg).Status(cmd.Context()); err == nil {
						fmt.Fprintf(out, "API: http://%s\n", cfg.Paths.APIBind)
						for _, dep := range status.Dependencies {
							state := "available"
							if !dep.Available {
								state = "missing"
							}
							fmt.Fprintf(out, "Tool %s: %s\n", dep.Name, state)
						}
					}
				} else {
					fmt.Fprintln(out, "Not running")
				}

				fmt.Fprintln(out)
				printHeading(out, "Recordings", colorize)
				counts, err := st.CountRecordings(cmd.Context())
				if err != nil {
					return err
				}
				if len(counts) == 0 {
					fmt.Fprintln(out, "Catalog is empty.")
					return nil
				}
				statuses := make([]string, 0, len(counts))
				for status := range counts {
					statuses = append(statuses, string(status))
				}
				sort.Strings(statuses)
				rows := make([][]string, 0, len(statuses))
				total := 0
				for _, status := range statuses {
					n := counts[store.Status(status)]
					total += n
					rows = append(rows, []string{status, fmt.Sprintf("%d", n)})
				}
				rows = append(rows, []string{"total", fmt.Sprintf("%d", total)})
				fmt.Fprintln(out, renderTable(
					[]string{"Status", "Count"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON")
	return cmd
}

func printHeading(out io.Writer, text string, colorize bool) {
	line := text
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	fmt.Fprintln(out, line)
	fmt.Fprintln(out, rule)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
