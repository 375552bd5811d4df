package cli

import (
	"github.com/spf13/cobra"
)

func newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the live session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result State

			if err := client.Get("/api/v1/state", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newTapCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "tap",
		Short: "Tap for currency",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]int{"count": count}
			var result ActionResult

			if err := client.Post("/api/v1/actions/tap", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 1, "Number of taps to apply")

	return cmd
}

func newRedeemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "redeem <code>",
		Short: "Redeem a promo code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"code": args[0]}
			var result RedeemResult

			if err := client.Post("/api/v1/actions/promo", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
