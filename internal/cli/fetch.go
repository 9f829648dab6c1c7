package cli

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/sync"
)

// FetchReport is one source's outcome in the fetch command output.
type FetchReport struct {
	RunID    string `json:"run_id" yaml:"run_id"`
	Source   string `json:"source" yaml:"source"`
	Type     string `json:"type" yaml:"type"`
	Inserted int    `json:"inserted" yaml:"inserted"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// FetchSummary is the structured output of the fetch command.
type FetchSummary struct {
	Sources  []FetchReport `json:"sources" yaml:"sources"`
	Skipped  []string      `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Inserted int           `json:"inserted" yaml:"inserted"`
}

// NewFetchCommand creates the fetch command.
func NewFetchCommand(rootOpts *RootOptions) *cobra.Command {
	var sourceID string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch notifications from the configured sources",
		Long: `Run every enabled source once and store what it returns as unsorted
notifications. Each source is inserted in a single transaction.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runWithEnv(cmd, func(ctx context.Context, env *appEnv) error {
				return runFetch(ctx, env, sourceID)
			})
		},
	}

	cmd.Flags().StringVarP(&sourceID, "source", "s", "", "fetch only the source with this id")
	return cmd
}

func runFetch(ctx context.Context, env *appEnv, sourceID string) error {
	sources := env.cfg.Sources
	if sourceID != "" {
		src, ok := env.cfg.FindSource(sourceID)
		if !ok {
			return NewExitError(ExitFailure, fmt.Sprintf("source %q is not configured", sourceID))
		}
		src.Enabled = true
		sources = []model.SourceConfig{src}
	}

	regs, buildErrs := sync.BuildProducers(sources, nil, http.DefaultClient)

	var summary FetchSummary
	for _, err := range buildErrs {
		env.log.Warn("source skipped", "error", err)
		summary.Skipped = append(summary.Skipped, err.Error())
	}
	if len(regs) == 0 && len(buildErrs) == 0 {
		return NewExitError(ExitFailure, "no sources configured; add one under sources in the config file")
	}

	failed := 0
	for _, reg := range regs {
		env.out.VerboseLog("Fetching %s", reg.Producer.ID())
		res := sync.Fetch(ctx, env.engine, reg.Producer, env.log)

		report := FetchReport{
			RunID:    res.RunID,
			Source:   res.SourceID,
			Type:     string(res.SourceType),
			Inserted: res.Inserted,
		}
		switch {
		case res.AuthError != nil:
			report.Error = res.AuthError.Message
			failed++
		case res.Error != nil:
			report.Error = res.Error.Error()
			failed++
		}
		summary.Inserted += res.Inserted
		summary.Sources = append(summary.Sources, report)
	}

	if err := env.out.Success(summary, func() string { return fetchText(summary) }); err != nil {
		return err
	}
	if failed > 0 || len(buildErrs) > 0 {
		return &ExitError{Code: ExitFailure, Message: "some sources failed", reported: true}
	}
	return nil
}

func fetchText(s FetchSummary) string {
	var b strings.Builder
	for _, r := range s.Sources {
		if r.Error != "" {
			fmt.Fprintf(&b, "%-20s failed: %s\n", r.Source, r.Error)
			continue
		}
		fmt.Fprintf(&b, "%-20s %d new\n", r.Source, r.Inserted)
	}
	for _, skipped := range s.Skipped {
		fmt.Fprintf(&b, "%s\n", skipped)
	}
	fmt.Fprintf(&b, "Inserted %d notifications.", s.Inserted)
	return b.String()
}
