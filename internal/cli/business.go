package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBusinessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "business",
		Short: "Business catalog commands",
	}

	cmd.AddCommand(newBusinessListCmd())
	cmd.AddCommand(newBusinessBuyCmd())
	cmd.AddCommand(newBusinessUpgradeCmd())

	return cmd
}

func newBusinessListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the business catalog with costs",
		RunE: func(cmd *cobra.Command, args []string) error {
			var state State

			if err := client.Get("/api/v1/state", &state); err != nil {
				return err
			}

			if cfg.Output == "json" {
				NewOutput(cfg.Output).Print(state.Player.Businesses)
				return nil
			}

			for _, b := range state.Player.Businesses {
				if b.Owned {
					fmt.Printf("%-12s L%-3d %8.2f/tick  upgrade $%.2f\n",
						b.ID, b.Level, b.BaseIncome*float64(b.Level), b.UpgradeCost)
				} else {
					fmt.Printf("%-12s      %8.2f/tick  buy $%.2f\n",
						b.ID, b.BaseIncome, b.Cost)
				}
			}
			return nil
		},
	}
}

func newBusinessBuyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy <id>",
		Short: "Buy a business from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ActionResult

			path := fmt.Sprintf("/api/v1/actions/businesses/%s/buy", args[0])
			if err := client.Post(path, nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newBusinessUpgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade <id>",
		Short: "Upgrade an owned business one level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ActionResult

			path := fmt.Sprintf("/api/v1/actions/businesses/%s/upgrade", args[0])
			if err := client.Post(path, nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
