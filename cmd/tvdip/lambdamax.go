package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-tvd/dsp/tvd"
)

func newLambdaMaxCmd(a *app) *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "lambdamax",
		Short: "Print the smallest λ that flattens each trace to its mean",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			traces, err := in.read(cmd)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TRACE\tSAMPLES\tLAMBDA_MAX")
			for _, tr := range traces {
				lmax, err := tvd.LambdaMax(tr.Samples)
				if err != nil {
					return fmt.Errorf("trace %s: %w", tr.ID, err)
				}
				a.logger.Debug("lambda_max", "trace", tr.ID, "value", lmax)
				fmt.Fprintf(tw, "%s\t%d\t%.10g\n", tr.ID, len(tr.Samples), lmax)
			}
			return tw.Flush()
		},
	}
	in.register(cmd)
	return cmd
}
