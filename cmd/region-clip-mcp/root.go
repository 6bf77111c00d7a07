package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ironsheep/region-clip-mcp/internal/config"
	"github.com/ironsheep/region-clip-mcp/internal/logger"
)

var (
	configPath string
	verbose    bool

	// cfg is loaded before every command runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "region-clip-mcp",
	Short: "Clip oriented image regions and embed rights metadata",
	Long: `region-clip-mcp clips polygonal regions out of page images, correcting for
EXIF orientation, and emits them as JPEG or PNG with an embedded XMP rights
packet.

Without a subcommand it runs the MCP server over stdin/stdout. Logs go to
stderr; set REGION_MCP_LOG_LEVEL=debug or pass --verbose for debug output.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runServe,
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "config file (TOML); missing file means defaults")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging on stderr")
}

// defaultConfigPath is <user config dir>/region-clip-mcp/config.toml.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "region-clip-mcp", "config.toml")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = c
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetVerbose(verbose || cfg.Log.Verbose || logger.VerboseFromEnv())
	logger.Debug("config: %s", configPath)
	return nil
}
