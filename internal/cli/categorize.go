package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/notify/internal/lifecycle"
	"github.com/nhle/notify/internal/render"
)

// NewCategorizeCommand creates the categorize command.
func NewCategorizeCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		categoryID int64
		importance int
		note       string
	)

	cmd := &cobra.Command{
		Use:   "categorize <unsorted-id>",
		Short: "File an unsorted notification under a category",
		Long: `Move an unsorted notification into the sorted list with a category,
an importance level and an optional note.

Missing --category or --importance values are asked for interactively.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runWithEnv(cmd, func(ctx context.Context, env *appEnv) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}

				b := categorizeBindings{categoryID: categoryID, importance: importance, note: note}
				if b.categoryID == 0 || b.importance == 0 {
					if env.out.Structured() {
						return NewExitError(ExitFailure, "--category and --importance are required with structured output")
					}
					n, err := env.engine.GetUnsorted(ctx, id)
					if err != nil {
						return err
					}
					cats, err := env.engine.Categories(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(env.out.Writer, "Categorizing #%d: %s\n", n.ID, n.Title)
					askNote := !cmd.Flags().Changed("note")
					if err := promptCategorize(&b, cats, env.engine.ImportanceLevels(), env.cfg.Display.BatchSize, askNote); err != nil {
						return err
					}
				}

				view, err := env.engine.Categorize(ctx, lifecycle.CategorizeRequest{
					UnsortedID: id,
					CategoryID: b.categoryID,
					Importance: b.importance,
					Note:       strings.TrimSpace(b.note),
				})
				if err != nil {
					return err
				}

				return env.out.Success(view, func() string {
					return fmt.Sprintf("Filed %q as sorted #%d under %s (%s).",
						view.Title, view.ID, render.Category(view.CategoryName),
						render.Importance(env.engine.ImportanceLevels(), view.ImportanceLevel))
				})
			})
		},
	}

	cmd.Flags().Int64VarP(&categoryID, "category", "c", 0, "category id")
	cmd.Flags().IntVarP(&importance, "importance", "i", 0, "importance level")
	cmd.Flags().StringVarP(&note, "note", "n", "", "optional note")
	return cmd
}

// NoteResult is the structured output of the note command.
type NoteResult struct {
	ID   int64   `json:"id" yaml:"id"`
	Note *string `json:"note" yaml:"note"`
}

// NewNoteCommand creates the note command.
func NewNoteCommand(rootOpts *RootOptions) *cobra.Command {
	var clearNote bool

	cmd := &cobra.Command{
		Use:   "note <sorted-id> [text]",
		Short: "Set or clear the note on a sorted notification",
		Long: `Replace the note on a sorted notification. Without text the current
note is opened for editing; an empty note or --clear removes it.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runWithEnv(cmd, func(ctx context.Context, env *appEnv) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}

				var text string
				switch {
				case clearNote:
				case len(args) == 2:
					text = args[1]
				case env.out.Structured():
					return NewExitError(ExitFailure, "note text or --clear is required with structured output")
				default:
					current, err := env.engine.GetSorted(ctx, id)
					if err != nil {
						return err
					}
					if text, err = promptText("Note", current.NoteText(), false); err != nil {
						return err
					}
				}

				text = strings.TrimSpace(text)
				if err := env.engine.UpdateNote(ctx, id, text); err != nil {
					return err
				}

				res := NoteResult{ID: id}
				if text != "" {
					res.Note = &text
				}
				return env.out.Success(res, func() string {
					if res.Note == nil {
						return fmt.Sprintf("Cleared the note on sorted #%d.", id)
					}
					return fmt.Sprintf("Updated the note on sorted #%d.", id)
				})
			})
		},
	}

	cmd.Flags().BoolVar(&clearNote, "clear", false, "remove the note")
	return cmd
}
