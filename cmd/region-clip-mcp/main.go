// Command region-clip-mcp clips polygonal regions out of archive page images,
// correcting for EXIF orientation, and writes them as JPEG or PNG carrying an
// XMP rights packet.
//
// Run without a subcommand it serves the MCP protocol on stdin and stdout.
package main

import (
	"os"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
