package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/whhaicheng/news-scraper/internal/app/repository"
	"github.com/whhaicheng/news-scraper/internal/app/usecase"
	"github.com/whhaicheng/news-scraper/internal/domain/history"
	"github.com/whhaicheng/news-scraper/internal/domain/report"
	reportgen "github.com/whhaicheng/news-scraper/internal/infra/report"
)

type historyOptions struct {
	Limit int
	Logs  string
}

// prefixSearchWindow bounds the sessions scanned when resolving a short run ID.
const prefixSearchWindow = 500

func newHistoryCmd() *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded scraping sessions",
		Long: `List recorded scraping sessions, newest first.

With --logs RUN_ID the activity log of one session is printed instead.
RUN_ID may be a unique prefix of the full run ID.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			uc, closeFn, err := OpenHistory(ctx, bootstrapOptions())
			if err != nil {
				return err
			}
			defer closeFn()

			if opts.Logs != "" {
				return printSessionLogs(ctx, cmd.OutOrStdout(), uc, opts.Logs)
			}
			return printSessions(ctx, cmd.OutOrStdout(), uc, opts.Limit)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "Maximum sessions to list (0 lists all)")
	cmd.Flags().StringVar(&opts.Logs, "logs", "", "Print the activity log of RUN_ID")

	cmd.AddCommand(newHistoryExportCmd())

	return cmd
}

type exportOptions struct {
	Format string
	Dir    string
	All    bool
	Limit  int
}

func newHistoryExportCmd() *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export [RUN_ID]",
		Short: "Write session reports to disk",
		Long: `Write a report of one session, or of every session with --all.

Formats: markdown (md), json, txt.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.All && len(args) == 0 {
				return fmt.Errorf("RUN_ID required (or use --all)")
			}
			format, err := report.ParseFormat(opts.Format)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			uc, closeFn, err := OpenHistory(ctx, bootstrapOptions())
			if err != nil {
				return err
			}
			defer closeFn()

			exporter := usecase.NewExportUseCase(uc, opts.Dir, reportgen.Generators()...)
			out := cmd.OutOrStdout()

			if opts.All {
				n, dir, err := exporter.ExportAllSessions(ctx, format, opts.Limit)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Exported %d sessions to %s\n", n, dir)
				return nil
			}

			id, err := resolveSessionID(ctx, uc, args[0])
			if err != nil {
				return err
			}
			rpt, err := exporter.ExportSession(ctx, id, format)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Exported %s (%s)\n", rpt.FilePath, humanize.Bytes(uint64(len(rpt.Content))))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "markdown", "Report format (markdown|json|txt)")
	cmd.Flags().StringVar(&opts.Dir, "dir", usecase.DefaultExportDir, "Export directory")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Export every session")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "With --all, export at most this many sessions (0 exports all)")

	return cmd
}

func printSessions(ctx context.Context, out io.Writer, uc *usecase.HistoryUseCase, limit int) error {
	sessions, err := uc.ListSessions(ctx, limit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions recorded")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTARTED\tPHASE\tUNITS\tDURATION")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			shortRunID(s.ID),
			humanize.Time(s.StartedAt),
			s.Phase.Label(),
			humanize.Comma(int64(s.WorkCount)),
			s.Duration().Round(time.Second),
		)
	}
	return w.Flush()
}

func printSessionLogs(ctx context.Context, out io.Writer, uc *usecase.HistoryUseCase, ref string) error {
	id, err := resolveSessionID(ctx, uc, ref)
	if err != nil {
		return err
	}
	session, logs, err := uc.GetSessionLogs(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Run:     %s\n", session.ID)
	fmt.Fprintf(out, "Started: %s (%s)\n", session.StartedAt.Local().Format(time.DateTime), humanize.Time(session.StartedAt))
	if session.StoppedAt != nil {
		fmt.Fprintf(out, "Stopped: %s\n", session.StoppedAt.Local().Format(time.DateTime))
	}
	fmt.Fprintf(out, "Phase:   %s\n", session.Phase.Label())
	fmt.Fprintf(out, "Units:   %s\n", humanize.Comma(int64(session.WorkCount)))
	fmt.Fprintln(out)
	for _, r := range logs {
		fmt.Fprintf(out, "  %s\n", r.Entry().String())
	}
	return nil
}

// resolveSessionID accepts a full run ID or a unique prefix of one.
func resolveSessionID(ctx context.Context, uc *usecase.HistoryUseCase, ref string) (string, error) {
	_, err := uc.GetSession(ctx, ref)
	if err == nil {
		return ref, nil
	}
	if !errors.Is(err, repository.ErrSessionNotFound) {
		return "", err
	}

	sessions, err := uc.ListSessions(ctx, prefixSearchWindow)
	if err != nil {
		return "", err
	}
	var matches []*history.Session
	for _, s := range sessions {
		if strings.HasPrefix(s.ID, ref) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", repository.ErrSessionNotFound, ref)
	case 1:
		return matches[0].ID, nil
	}
	return "", fmt.Errorf("run ID prefix %q is ambiguous (%d sessions)", ref, len(matches))
}
