package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/osse101/farmclock/internal/chain"
	"github.com/osse101/farmclock/internal/cooldown"
	"github.com/osse101/farmclock/internal/domain"
	"github.com/osse101/farmclock/internal/growth"
	"github.com/osse101/farmclock/internal/indexer"
)

func newSlotsCmd(g *globalFlags) *cobra.Command {
	var farmID, account string

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List every slot of a farm with its state, cooldown and legal actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			now, err := chain.NewClient(g.rpcURL, chain.DefaultRateLimit).HeadBlockTime(ctx)
			if err != nil {
				return fmt.Errorf("chain time: %w", err)
			}

			idx := indexer.NewClient(indexer.Config{BaseURL: g.indexerURL, RateLimit: indexer.DefaultRateLimit})
			plots, err := idx.FetchPlots(ctx, farmID)
			if err != nil {
				return fmt.Errorf("plots: %w", err)
			}

			gctx := growth.Context{Now: now}
			if account != "" {
				inv, err := idx.Inventory(ctx, account)
				if err != nil {
					return fmt.Errorf("inventory: %w", err)
				}
				gctx.SeedsAvailable = inv.SeedsAvailable()
			}

			return renderSlots(cmd, plots, gctx)
		},
	}
	cmd.Flags().StringVar(&farmID, "farm", "", "farm id (required)")
	cmd.Flags().StringVar(&account, "account", "", "account whose seeds count toward planting")
	_ = cmd.MarkFlagRequired("farm")
	return cmd
}

func renderSlots(cmd *cobra.Command, plots []domain.Plot, gctx growth.Context) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "chain time: %s\n\n", gctx.Now.UTC().Format(time.RFC3339))
	fmt.Fprintln(w, "PLOT\tSLOT\tSTATE\tTICK\tCOOLDOWN\tACTIONS")

	for _, p := range plots {
		for _, raw := range p.Slots {
			s := growth.Normalize(raw)

			cd := cooldown.WaterCooldownRemaining(s, gctx.Now).Label()
			if cd == "" {
				cd = "-"
			}

			legal := growth.LegalActions(s, gctx)
			names := make([]string, 0, len(legal))
			for _, a := range legal {
				names = append(names, string(a))
			}
			actions := strings.Join(names, ",")
			if actions == "" {
				actions = "-"
			}

			fmt.Fprintf(w, "%s\t%d\t%s\t%d/%d\t%s\t%s\n",
				p.ID, s.Index, s.State, s.Tick, s.TickGoal, cd, actions)
		}
	}
	return w.Flush()
}
