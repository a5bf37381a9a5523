package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newListCommand(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every parameter",
		Long: `List every parameter of the source, sorted by path.

The default output has one "path = value" line per parameter. With --json
a single object mapping paths to values is printed.`,
		Example: `  flatconf list -s ./config
  flatconf list -s ./config --json | jq .`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close(cmd.Context())

			cfg := rt.load(cmd.Context())
			out := cmd.OutOrStdout()

			if jsonOutput {
				doc := make(map[string]any, cfg.Len())
				for path, v := range cfg.Entries() {
					doc[path] = jsonValue(v)
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(doc); err != nil {
					return fmt.Errorf("failed to encode parameters: %w", err)
				}
				return nil
			}

			for _, path := range cfg.Keys() {
				v, err := cfg.Get(path)
				if err != nil {
					return err
				}
				rendered, err := render(v)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s = %s\n", path, rendered)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	return cmd
}
