package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInvestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invest",
		Short: "Investment market commands",
	}

	cmd.AddCommand(newInvestListCmd())
	cmd.AddCommand(newInvestBuyCmd())
	cmd.AddCommand(newInvestSellCmd())

	return cmd
}

func newInvestListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tradable symbols with current prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			var state State

			if err := client.Get("/api/v1/state", &state); err != nil {
				return err
			}

			if cfg.Output == "json" {
				NewOutput(cfg.Output).Print(state.Player.Investments)
				return nil
			}

			for _, inv := range state.Player.Investments {
				fmt.Printf("%-6s $%12.2f  %+6.2f%%", inv.Symbol, inv.CurrentPrice, inv.ChangePercent)
				if inv.Owned > 0 {
					fmt.Printf("  holding %.6f", inv.Owned)
				}
				fmt.Println()
			}
			return nil
		},
	}
}

func newInvestBuyCmd() *cobra.Command {
	var amount float64

	cmd := &cobra.Command{
		Use:   "buy <symbol>",
		Short: "Buy into an investment with currency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]float64{"amount": amount}
			var result ActionResult

			path := fmt.Sprintf("/api/v1/actions/investments/%s/buy", args[0])
			if err := client.Post(path, req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "Currency amount to spend (required)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newInvestSellCmd() *cobra.Command {
	var units float64

	cmd := &cobra.Command{
		Use:   "sell <symbol>",
		Short: "Sell investment units at the current price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]float64{"units": units}
			var result ActionResult

			path := fmt.Sprintf("/api/v1/actions/investments/%s/sell", args[0])
			if err := client.Post(path, req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Float64Var(&units, "units", 0, "Units to sell (required)")
	_ = cmd.MarkFlagRequired("units")

	return cmd
}
