package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/notify/internal/crossref"
	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/paging"
	"github.com/nhle/notify/internal/render"
	"github.com/nhle/notify/internal/theme"
)

const pagePrompt = "n: next page, x: show all, any other key: back"

// parseNotificationTable accepts "unsorted" or "sorted".
func parseNotificationTable(name string) (model.Table, error) {
	t, err := model.ParseTable(name)
	if err != nil || !t.IsNotificationTable() {
		return "", NewExitError(ExitFailure, fmt.Sprintf("unknown list %q (want unsorted or sorted)", name))
	}
	return t, nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitFailure, fmt.Sprintf("invalid id %q: must be a positive integer", arg))
	}
	return id, nil
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:       "list unsorted|sorted",
		Short:     "List notifications",
		Long:      "List notifications page by page. Structured output always contains every row.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"unsorted", "sorted"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runWithEnv(cmd, func(ctx context.Context, env *appEnv) error {
				table, err := parseNotificationTable(args[0])
				if err != nil {
					return err
				}
				size := env.cfg.Display.PageSize
				truncateAt := env.cfg.Display.TruncateAt
				levels := env.engine.ImportanceLevels()
				in := cmd.InOrStdin()
				if all || env.out.Structured() {
					in = nil
				}

				if table == model.TableUnsorted {
					return listPages(ctx, env.out, in, env.engine.UnsortedPages(size), func(rows []model.UnsortedNotification) string {
						return render.UnsortedTable(rows, truncateAt)
					})
				}
				return listPages(ctx, env.out, in, env.engine.SortedPages(size), func(rows []model.SortedView) string {
					return render.SortedTable(rows, levels, truncateAt)
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "print every row without paging")
	return cmd
}

// listPages prints p one page at a time, asking on in before each next
// page. A nil in prints everything at once.
func listPages[T any](ctx context.Context, out *OutputFormatter, in io.Reader, p *paging.Pager[T], table func([]T) string) error {
	if in == nil {
		rows, err := p.All(ctx)
		if err != nil {
			return err
		}
		if rows == nil {
			rows = []T{}
		}
		return out.Success(rows, func() string {
			if len(rows) == 0 {
				return theme.MutedStyle.Render("No notifications.")
			}
			return table(rows)
		})
	}

	reader := bufio.NewReader(in)
	for {
		rows, more, err := p.Next(ctx)
		if err != nil {
			return err
		}
		if len(rows) == 0 && p.Offset() == 0 {
			fmt.Fprintln(out.Writer, theme.MutedStyle.Render("No notifications."))
			return nil
		}
		fmt.Fprintln(out.Writer, table(rows))
		if !more {
			return nil
		}

		fmt.Fprintln(out.Writer, pagePrompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return nil
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "n":
			continue
		case "x":
			all, err := p.All(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out.Writer, table(all))
			return nil
		default:
			return nil
		}
	}
}

// ShowResult is the structured output of the show command.
type ShowResult struct {
	Unsorted *model.UnsortedNotification `json:"unsorted,omitempty" yaml:"unsorted,omitempty"`
	Sorted   *model.SortedView           `json:"sorted,omitempty" yaml:"sorted,omitempty"`
	Links    []string                    `json:"links,omitempty" yaml:"links,omitempty"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show unsorted|sorted <id>",
		Short: "Show one notification in full",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runWithEnv(cmd, func(ctx context.Context, env *appEnv) error {
				table, err := parseNotificationTable(args[0])
				if err != nil {
					return err
				}
				id, err := parseID(args[1])
				if err != nil {
					return err
				}

				var res ShowResult
				if table == model.TableUnsorted {
					n, err := env.engine.GetUnsorted(ctx, id)
					if err != nil {
						return err
					}
					res.Unsorted = &n
					res.Links = crossref.Links(n.Title, n.Content, nil)
				} else {
					n, err := env.engine.GetSorted(ctx, id)
					if err != nil {
						return err
					}
					res.Sorted = &n
					res.Links = crossref.Links(n.Title, n.Content, nil)
				}

				return env.out.Success(res, func() string {
					return showText(res, env.engine.ImportanceLevels())
				})
			})
		},
	}
}

func showText(res ShowResult, levels model.ImportanceLevels) string {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", theme.MutedStyle.Render(label+":"), value)
	}

	if n := res.Unsorted; n != nil {
		field("ID", strconv.FormatInt(n.ID, 10))
		field("Title", n.Title)
		fmt.Fprintf(&b, "\n%s\n", n.Content)
	}
	if n := res.Sorted; n != nil {
		field("ID", strconv.FormatInt(n.ID, 10))
		field("Title", n.Title)
		field("Category", render.Category(n.CategoryName))
		field("Importance", render.Importance(levels, n.ImportanceLevel))
		field("Note", render.Note(n.Note))
		fmt.Fprintf(&b, "\n%s\n", n.Content)
	}

	if len(res.Links) > 0 {
		b.WriteString("\nLinks:\n")
		for _, l := range res.Links {
			fmt.Fprintf(&b, "  %s\n", l)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
