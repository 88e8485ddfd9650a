package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/osse101/farmclock/internal/chain"
)

func newClockCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clock",
		Short: "Fetch the chain head time and compare it with the local clock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := chain.NewClient(g.rpcURL, chain.DefaultRateLimit)

			sent := time.Now()
			head, err := client.HeadBlockTime(cmd.Context())
			if err != nil {
				return err
			}
			skew := head.Sub(sent)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "chain time: %s\n", head.UTC().Format(time.RFC3339))
			fmt.Fprintf(out, "local time: %s\n", sent.UTC().Format(time.RFC3339))
			fmt.Fprintf(out, "skew:       %s\n", skew.Round(time.Millisecond))
			return nil
		},
	}
}
