package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Player preference commands",
	}

	cmd.AddCommand(newSettingsShowCmd())
	cmd.AddCommand(newSettingsSetCmd())

	return cmd
}

func newSettingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Settings

			if err := client.Get("/api/v1/settings", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	var (
		theme    string
		music    bool
		volume   float64
		track    string
		language string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update settings; only the flags given change",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			if cmd.Flags().Changed("theme") {
				req["theme"] = theme
			}
			if cmd.Flags().Changed("music") {
				req["enable_music"] = music
			}
			if cmd.Flags().Changed("volume") {
				req["volume"] = volume
			}
			if cmd.Flags().Changed("track") {
				req["selected_track"] = track
			}
			if cmd.Flags().Changed("language") {
				req["language"] = language
			}

			if len(req) == 0 {
				return fmt.Errorf("nothing to change; pass at least one flag")
			}

			var result Settings
			if err := client.Put("/api/v1/settings", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "UI theme (dark, light)")
	cmd.Flags().BoolVar(&music, "music", false, "Enable or disable music")
	cmd.Flags().Float64Var(&volume, "volume", 0, "Music volume 0.0-1.0")
	cmd.Flags().StringVar(&track, "track", "", "Selected audio track")
	cmd.Flags().StringVar(&language, "language", "", "UI language code")

	return cmd
}
