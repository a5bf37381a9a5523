package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExistsCommand(a *app) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "exists <path>",
		Short: "Check whether a parameter exists",
		Long: `Check whether a dotted path holds a value.

Prints true or false and exits with status 1 when the parameter is absent.`,
		Example: `  flatconf exists server.tls.cert -s ./config && echo configured`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close(cmd.Context())

			found := rt.load(cmd.Context()).Exists(args[0])
			if !quiet {
				fmt.Fprintln(cmd.OutOrStdout(), found)
			}
			if !found {
				return ErrAbsent
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "report through the exit status only")

	return cmd
}
