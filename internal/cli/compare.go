package cli

import (
	"fmt"

	"github.com/kevinwang15/yamlupdate/pattern"
	"github.com/spf13/cobra"
)

func newCompareCmd() *cobra.Command {
	var parts int

	cmd := &cobra.Command{
		Use:   "compare A B",
		Short: "Compare two version identifiers",
		Long: "Compare parses both identifiers with a dotted numeric pattern of --parts parts " +
			"(plain integers when 0) and prints how they order.",
		Example: "  yamlupdate compare --parts 2 1.9 1.10",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if parts < 0 {
				return fmt.Errorf("--parts must not be negative")
			}
			p := pattern.New(pattern.Range(1, pattern.Unbounded, 1))
			if parts > 0 {
				p = pattern.Dotted(parts)
			}

			a, ok := p.Version(args[0])
			if !ok {
				return fmt.Errorf("%q does not match %s", args[0], p)
			}
			b, ok := p.Version(args[1])
			if !ok {
				return fmt.Errorf("%q does not match %s", args[1], p)
			}
			c, err := a.Compare(b)
			if err != nil {
				return err
			}

			op := "=="
			switch {
			case c < 0:
				op = "<"
			case c > 0:
				op = ">"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", a, op, b)
			return nil
		},
	}
	cmd.Flags().IntVar(&parts, "parts", 2, "Number of dot separated numeric parts, 0 for plain integers")

	return cmd
}
