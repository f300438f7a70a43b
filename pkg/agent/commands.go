package agent

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// OnCommand runs an operator command, e.g. []string{"vector", "cat", "SimilarityLink"},
// and returns its output.
func (a *Agent) OnCommand(args []string) (string, error) {
	root := &cobra.Command{
		Use:           "dimembed",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(Commands(func() *Agent { return a })...)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

// Commands returns the operator command tree. get is resolved when a
// command runs, so callers may build the agent after flag parsing.
func Commands(get func() *Agent) []*cobra.Command {
	embedCmd := &cobra.Command{
		Use:   "embed [edge-type...]",
		Short: "Re-embed edge types (all configured types when none given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			types := args
			if len(types) == 0 {
				types = a.EdgeTypes()
			}
			if err := a.engine.EmbedAll(a.graph, types...); err != nil {
				return err
			}
			for _, t := range types {
				pivots, err := a.engine.Pivots(t)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "embedded %s: %d pivots\n", t, len(pivots))
			}
			return nil
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <node> <edge-type>",
		Short: "Embed a single node against the current pivots",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if err := a.engine.AddNode(a.graph, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s\n", args[0], args[1])
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear <edge-type>",
		Short: "Drop the embedding of an edge type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			get().engine.Clear(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", args[0])
			return nil
		},
	}

	vectorCmd := &cobra.Command{
		Use:   "vector <node> <edge-type>",
		Short: "Print the embedding vector of a node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vec, err := get().engine.Vector(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatFloats(vec))
			return nil
		},
	}

	distanceCmd := &cobra.Command{
		Use:   "distance <node-a> <node-b> <edge-type>",
		Short: "Print the embedding distance between two nodes",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := get().engine.Distance(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.6f\n", d)
			return nil
		},
	}

	pivotsCmd := &cobra.Command{
		Use:   "pivots <edge-type>",
		Short: "Print the pivot sequence of an edge type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pivots, err := get().engine.Pivots(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(pivots, " "))
			return nil
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump <edge-type>",
		Short: "Print every node vector of an edge type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return get().engine.WriteDump(cmd.OutOrStdout(), args[0])
		},
	}

	tickCmd := &cobra.Command{
		Use:   "tick",
		Short: "Run one scheduled step now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return get().OnTick()
		},
	}

	return []*cobra.Command{embedCmd, addCmd, clearCmd, vectorCmd, distanceCmd, pivotsCmd, dumpCmd, tickCmd}
}

func formatFloats(vec []float64) string {
	parts := make([]string, len(vec))
	for i, v := range vec {
		parts[i] = fmt.Sprintf("%.6f", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
