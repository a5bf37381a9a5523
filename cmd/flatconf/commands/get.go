package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flatconf/flatconf/pkg/config"
	"github.com/flatconf/flatconf/pkg/value"
)

func newGetCommand(a *app) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Print the value of a parameter",
		Long: `Print the value stored at a dotted path.

With --type the value must be of that type, otherwise the command fails.
Integers are accepted for --type float.`,
		Example: `  # Print a value
  flatconf get server.port -s ./config

  # Require a boolean
  flatconf get features.beta --type bool -s ./config`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close(cmd.Context())

			cfg := rt.load(cmd.Context())
			out, err := getTyped(cfg, args[0], kind)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", "", "required type: string, bool, int, float or sequence")

	return cmd
}

// getTyped looks up path through the getter matching kind and renders the
// result.
func getTyped(cfg *config.Config, path, kind string) (string, error) {
	var (
		v   value.Value
		err error
	)

	switch kind {
	case "":
		v, err = cfg.Get(path)
	case "string":
		var s string
		s, err = cfg.GetString(path)
		v = value.String(s)
	case "bool":
		var b bool
		b, err = cfg.GetBool(path)
		v = value.Bool(b)
	case "int", "number":
		var i int64
		i, err = cfg.GetInt(path)
		v = value.Int(i)
	case "float":
		var f float64
		f, err = cfg.GetFloat(path)
		v = value.Float(f)
	case "sequence":
		var items []value.Value
		items, err = cfg.GetSequence(path)
		v = value.Sequence(items...)
	default:
		return "", fmt.Errorf("unsupported type %q", kind)
	}
	if err != nil {
		return "", err
	}

	return render(v)
}
