package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Moderation and config commands (admin only)",
	}

	cmd.AddCommand(newAdminPlayersCmd())
	cmd.AddCommand(newAdminBanCmd())
	cmd.AddCommand(newAdminUnbanCmd())
	cmd.AddCommand(newAdminBanIPCmd())
	cmd.AddCommand(newAdminConfigCmd())
	cmd.AddCommand(newAdminEconomyCmd())
	cmd.AddCommand(newAdminBroadcastCmd())
	cmd.AddCommand(newAdminTrackCmd())
	cmd.AddCommand(newAdminPromoCmd())

	return cmd
}

func newAdminPlayersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players",
		Short: "List all players",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Player

			if err := client.Get("/api/v1/admin/players", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAdminBanCmd() *cobra.Command {
	var (
		reason string
		hours  int
	)

	cmd := &cobra.Command{
		Use:   "ban <player-id>",
		Short: "Ban a player; a live session freezes within one tick",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Zero hours means permanent
			bannedUntil := int64(-1)
			if hours > 0 {
				bannedUntil = time.Now().Add(time.Duration(hours) * time.Hour).UnixMilli()
			}

			req := map[string]any{
				"banned_until": bannedUntil,
				"reason":       reason,
			}

			if err := client.Post(fmt.Sprintf("/api/v1/admin/players/%s/ban", args[0]), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Player banned")
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Ban reason shown to the player")
	cmd.Flags().IntVar(&hours, "hours", 0, "Ban duration in hours (0 = permanent)")

	return cmd
}

func newAdminUnbanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unban <player-id>",
		Short: "Lift a player's ban",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(fmt.Sprintf("/api/v1/admin/players/%s/unban", args[0]), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Player unbanned")
			return nil
		},
	}
}

func newAdminBanIPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ban-ip <address>",
		Short: "Block an IP address from registering or logging in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"ip": args[0]}

			if err := client.Post("/api/v1/admin/ips/ban", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("IP banned")
			return nil
		},
	}
}

func newAdminConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the global config",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GlobalConfig

			if err := client.Get("/api/v1/admin/config", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAdminEconomyCmd() *cobra.Command {
	var (
		multiplier float64
		tax        float64
		energyCost float64
	)

	cmd := &cobra.Command{
		Use:   "economy",
		Short: "Tune the economy; only the flags given change",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			if cmd.Flags().Changed("multiplier") {
				req["global_multiplier"] = multiplier
			}
			if cmd.Flags().Changed("tax") {
				req["tax_rate"] = tax
			}
			if cmd.Flags().Changed("energy-cost") {
				req["energy_cost_per_gpu"] = energyCost
			}

			if len(req) == 0 {
				return fmt.Errorf("nothing to change; pass at least one flag")
			}

			var result GlobalConfig
			if err := client.Patch("/api/v1/admin/config/economy", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Float64Var(&multiplier, "multiplier", 0, "Global income multiplier")
	cmd.Flags().Float64Var(&tax, "tax", 0, "Tax rate on business income 0.0-1.0")
	cmd.Flags().Float64Var(&energyCost, "energy-cost", 0, "Energy cost per GPU per tick")

	return cmd
}

func newAdminBroadcastCmd() *cobra.Command {
	var music bool

	cmd := &cobra.Command{
		Use:   "broadcast <track-id>",
		Short: "Set the broadcast audio track for every session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"active_track":     args[0],
				"is_music_enabled": music,
			}

			var result GlobalConfig
			if err := client.Put("/api/v1/admin/broadcast", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&music, "music", true, "Whether music plays at all")

	return cmd
}

func newAdminTrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Custom audio track commands",
	}

	cmd.AddCommand(newAdminTrackAddCmd())
	cmd.AddCommand(newAdminTrackHideCmd())
	cmd.AddCommand(newAdminTrackUnhideCmd())

	return cmd
}

func newAdminTrackAddCmd() *cobra.Command {
	var name, url string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a custom audio track",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"name": name,
				"url":  url,
			}

			var result AudioTrack
			if err := client.Post("/api/v1/admin/tracks", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Track name (required)")
	cmd.Flags().StringVar(&url, "url", "", "Track URL (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func newAdminTrackHideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hide <track-id>",
		Short: "Hide a track from players",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setTrackHidden(args[0], true)
		},
	}
}

func newAdminTrackUnhideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unhide <track-id>",
		Short: "Make a hidden track visible again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setTrackHidden(args[0], false)
		},
	}
}

func setTrackHidden(id string, hidden bool) error {
	req := map[string]bool{"hidden": hidden}

	if err := client.Patch(fmt.Sprintf("/api/v1/admin/tracks/%s", id), req, nil); err != nil {
		return err
	}

	out := NewOutput(cfg.Output)
	if hidden {
		out.PrintMessage("Track hidden")
	} else {
		out.PrintMessage("Track visible")
	}
	return nil
}

func newAdminPromoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promo",
		Short: "Promo code commands",
	}

	cmd.AddCommand(newAdminPromoCreateCmd())
	cmd.AddCommand(newAdminPromoListCmd())

	return cmd
}

func newAdminPromoCreateCmd() *cobra.Command {
	var (
		reward  float64
		maxUses int
	)

	cmd := &cobra.Command{
		Use:   "create <code>",
		Short: "Create a promo code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"code":     args[0],
				"reward":   reward,
				"max_uses": maxUses,
			}

			var result PromoCode
			if err := client.Post("/api/v1/admin/promos", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Float64Var(&reward, "reward", 0, "Currency reward (required)")
	cmd.Flags().IntVar(&maxUses, "max-uses", 0, "Redemption cap (0 = unlimited)")
	_ = cmd.MarkFlagRequired("reward")

	return cmd
}

func newAdminPromoListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List promo codes with usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []PromoCode

			if err := client.Get("/api/v1/admin/promos", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
