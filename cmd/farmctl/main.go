// Command farmctl is an operator CLI for encoding memos and inspecting farms
// without running the daemon.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/osse101/farmclock/internal/config"
	"github.com/osse101/farmclock/internal/domain"
)

type globalFlags struct {
	rpcURL     string
	indexerURL string
	symbol     string
	precision  int
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "farmctl",
		Short:         "farmctl - farm memo encoder and slot inspector",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&g.rpcURL, "rpc", envOr(config.EnvChainRPCURL, config.DefaultChainRPCURL), "chain RPC base URL")
	root.PersistentFlags().StringVar(&g.indexerURL, "indexer", envOr(config.EnvIndexerURL, config.DefaultIndexerURL), "indexer base URL")
	root.PersistentFlags().StringVar(&g.symbol, "symbol", envOr(config.EnvTokenSymbol, domain.DefaultTokenSymbol), "token symbol")
	root.PersistentFlags().IntVar(&g.precision, "precision", domain.DefaultTokenPrecision, "token precision")

	root.AddCommand(newMemoCmd(g), newClockCmd(g), newSlotsCmd(g))
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
