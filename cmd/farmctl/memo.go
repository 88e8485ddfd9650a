package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osse101/farmclock/internal/memo"
)

func newMemoCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memo",
		Short: "Encode amounts and memos the way the contracts expect",
	}

	fixedCmd := &cobra.Command{
		Use:   "fixed [decimal]",
		Short: "Convert a decimal amount to its raw fixed-point integer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := memo.ToFixedPointString(args[0], g.precision)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), raw)
			return nil
		},
	}

	assetCmd := &cobra.Command{
		Use:   "asset [decimal]",
		Short: "Render a decimal amount as a token asset string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asset, err := memo.ToAssetString(args[0], g.symbol, g.precision)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), asset)
			return nil
		},
	}

	var p memo.Proposal
	proposeCmd := &cobra.Command{
		Use:   "propose",
		Short: "Build a template proposal memo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := memo.ProposeMemo(p, g.precision)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), m)
			return nil
		},
	}
	proposeCmd.Flags().StringVar(&p.Actor, "actor", "", "proposing account (required)")
	proposeCmd.Flags().StringVar(&p.Collection, "collection", "", "NFT collection (required)")
	proposeCmd.Flags().StringVar(&p.TemplateID, "template", "", "template id (required)")
	proposeCmd.Flags().StringVar(&p.Fee, "fee", "", "proposal fee as a decimal (required)")
	proposeCmd.Flags().StringVar(&p.Reward, "reward", "", "reward per harvest as a decimal (required)")
	proposeCmd.Flags().Int64Var(&p.Cap, "cap", 0, "reward cap (required)")
	for _, name := range []string{"actor", "collection", "template", "fee", "reward", "cap"} {
		_ = proposeCmd.MarkFlagRequired(name)
	}

	cmd.AddCommand(fixedCmd, assetCmd, proposeCmd)
	return cmd
}
