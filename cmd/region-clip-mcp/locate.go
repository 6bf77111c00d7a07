package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/region-clip-mcp/internal/extract"
)

var locateCmd = &cobra.Command{
	Use:   "locate <ep-key>",
	Short: "Decode an extracted-part key",
	Long: `Decode an extracted-part key into its source key, orientation and region
key. When output.dir is configured the object path is printed too.

  region-clip-mcp locate :ep-xo6-page0001-f9e95504ad`,
	Args: cobra.ExactArgs(1),
	RunE: runLocate,
}

func init() {
	rootCmd.AddCommand(locateCmd)
}

func runLocate(cmd *cobra.Command, args []string) error {
	loc, err := extract.ParseEPKey(args[0])
	if err != nil {
		return err
	}
	cmd.Printf("Source:      %s\n", loc.SourceKey)
	cmd.Printf("Orientation: %d (%s)\n", int(loc.Orientation), loc.Orientation)
	cmd.Printf("Region:      %s\n", loc.RegionKey)
	if cfg.Output.Dir != "" {
		cmd.Printf("Object:      %s\n", extract.ObjectPath(cfg.Output.Dir, loc.Key(), cfg.Output.MimeType))
	}
	return nil
}
