package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/notify/internal/credential"
)

// CredentialResult is the structured output of the credential commands.
type CredentialResult struct {
	Source string `json:"source" yaml:"source"`
	Key    string `json:"key" yaml:"key"`
	Action string `json:"action" yaml:"action"`
}

// NewCredentialCommand creates the credential command group.
func NewCredentialCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credential",
		Short: "Manage source passwords in the system keyring",
		Long: `Store or remove the password a source logs in with.

Passwords are kept in the system keyring under "<source-id>-password".
The environment variable NOTIFY_<SOURCE_ID>_PASSWORD takes precedence
over the keyring.`,
	}

	cmd.AddCommand(newCredentialSetCommand(rootOpts))
	cmd.AddCommand(newCredentialDeleteCommand(rootOpts))
	return cmd
}

func newCredentialSetCommand(rootOpts *RootOptions) *cobra.Command {
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "set <source-id>",
		Short: "Store the password of a source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			id := args[0]
			key := credential.PasswordKey(id)

			var (
				value string
				err   error
			)
			if fromStdin {
				value, err = bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && value == "" {
					return fail(out, fmt.Errorf("reading password from stdin: %w", err))
				}
				value = strings.TrimRight(value, "\r\n")
			} else {
				value, err = promptText(fmt.Sprintf("Password for %s", id), "", true)
				if err != nil {
					return fail(out, err)
				}
			}
			if value == "" {
				return fail(out, NewExitError(ExitFailure, "password must not be empty"))
			}

			if err := credential.Set(key, value); err != nil {
				return fail(out, WrapExitError(ExitCommandError, "storing password", err))
			}
			res := CredentialResult{Source: id, Key: key, Action: "set"}
			return out.Success(res, func() string {
				return fmt.Sprintf("Stored the password for %s.", id)
			})
		},
	}

	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read the password from the first line of stdin")
	return cmd
}

func newCredentialDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <source-id>",
		Short: "Remove the password of a source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			id := args[0]
			key := credential.PasswordKey(id)

			if err := credential.Delete(key); err != nil {
				return fail(out, WrapExitError(ExitFailure, "removing password", err))
			}
			res := CredentialResult{Source: id, Key: key, Action: "delete"}
			return out.Success(res, func() string {
				return fmt.Sprintf("Removed the password for %s.", id)
			})
		},
	}
}
