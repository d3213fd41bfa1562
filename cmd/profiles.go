package cmd

import (
	"fmt"
	"sort"

	cobra "github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List configured zoom profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := make([]string, 0, len(cfg.Profiles))
		for name := range cfg.Profiles {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			p := cfg.Profiles[name]
			marker := " "
			if name == cfg.DefaultProfile {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, name)
			fmt.Printf("    zoom_factor: %g  zoom_speed: %g  follow_speed: %g\n", p.ZoomFactor, p.ZoomSpeed, p.FollowSpeed)
			fmt.Printf("    follow_border: %g  easing: %s  auto_follow: %t\n", p.FollowBorder, p.Easing, p.AutoFollow)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}
