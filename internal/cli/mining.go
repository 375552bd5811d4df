package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMiningCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mining",
		Short: "GPU mining farm commands",
	}

	cmd.AddCommand(newMiningStatusCmd())
	cmd.AddCommand(newMiningBuyCmd())
	cmd.AddCommand(newMiningUpgradeCmd())
	cmd.AddCommand(newMiningSellCmd())

	return cmd
}

func newMiningStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the mining farm",
		RunE: func(cmd *cobra.Command, args []string) error {
			var state State

			if err := client.Get("/api/v1/state", &state); err != nil {
				return err
			}

			farm := state.Player.MiningFarm
			if cfg.Output == "json" {
				NewOutput(cfg.Output).Print(farm)
				return nil
			}

			fmt.Printf("GPUs: %d (level %d)\n", farm.GPUCount, farm.GPULevel)
			fmt.Printf("Unsold BTC: %.6f\n", farm.BTCBalance)
			fmt.Printf("Energy Debt: %.2f\n", farm.EnergyDebt)
			fmt.Printf("Next GPU: $%.2f\n", farm.NextGPUCost)
			fmt.Printf("Upgrade: $%.2f\n", farm.UpgradeCost)
			return nil
		},
	}
}

func newMiningBuyCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "buy-gpu",
		Short: "Buy mining GPUs",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]int{"count": count}
			var result ActionResult

			if err := client.Post("/api/v1/actions/mining/gpus", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 1, "Number of GPUs to buy")

	return cmd
}

func newMiningUpgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade the farm's GPU level",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ActionResult

			if err := client.Post("/api/v1/actions/mining/upgrade", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMiningSellCmd() *cobra.Command {
	var amount float64

	cmd := &cobra.Command{
		Use:   "sell",
		Short: "Sell mined BTC at the current market price",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Zero amount sells the whole unsold balance
			req := map[string]float64{"amount": amount}
			var result ActionResult

			if err := client.Post("/api/v1/actions/mining/sell", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "BTC amount to sell (default: all)")

	return cmd
}
