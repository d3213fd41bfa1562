package cmd

import (
	"fmt"
	"sort"

	cobra "github.com/spf13/cobra"

	display "github.com/capture-tools/zoomd/internal/display"
)

var displaysCmd = &cobra.Command{
	Use:   "displays",
	Short: "List detected displays and their classification",
	Long: `Enumerates the displays known to the OS, runs each through the
coordinate classifier and prints the resulting geometry. Useful for
checking HiDPI scale detection before configuring overrides.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := display.NewRegistry()

		enumerator, closeEnum, err := newNativeEnumerator()
		if err != nil {
			return fmt.Errorf("failed to connect to display server: %w", err)
		}
		defer func() { _ = closeEnum() }()

		if err := registry.Populate(cmd.Context(), enumerator, nil, displayOverrides(cfg)); err != nil {
			return fmt.Errorf("failed to enumerate displays: %w", err)
		}

		records := registry.All()
		if len(records) == 0 {
			fmt.Println("No usable displays found.")
			return nil
		}
		sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

		for _, rec := range records {
			primary := ""
			if rec.Primary {
				primary = " (primary)"
			}
			fmt.Printf("%s: %s%s\n", rec.ID, rec.Name, primary)
			fmt.Printf("  origin:   %g,%g\n", rec.Origin.X, rec.Origin.Y)
			fmt.Printf("  logical:  %gx%g\n", rec.LogicalSize.Width, rec.LogicalSize.Height)
			fmt.Printf("  pixels:   %gx%g\n", rec.PixelSize.Width, rec.PixelSize.Height)
			fmt.Printf("  scale:    %gx%g (%s)\n", rec.Scale.X, rec.Scale.Y, rec.Class.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(displaysCmd)
}
