package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/region-clip-mcp/internal/embed"
	"github.com/ironsheep/region-clip-mcp/internal/imaging"
)

var embedFlags struct {
	image  string
	out    string
	rights rightsFlags
}

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Embed a rights packet into a JPEG or PNG",
	Long: `Embed an XMP rights packet into an existing JPEG or PNG file. Without --out
the input file is rewritten in place.

  region-clip-mcp embed --image part.png --license CC0-1.0 --holder "Archive"`,
	Args: cobra.NoArgs,
	RunE: runEmbed,
}

func init() {
	f := embedCmd.Flags()
	f.StringVar(&embedFlags.image, "image", "", "image path (required)")
	f.StringVar(&embedFlags.out, "out", "", "output file (default: rewrite --image)")
	embedFlags.rights.register(embedCmd)
	_ = embedCmd.MarkFlagRequired("image")
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(embedFlags.image)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	mimeType, err := imaging.DetectMimeType(data)
	if err != nil {
		return err
	}

	rights, allow := embedFlags.rights.resolve()
	out, err := embed.Serialize(data, mimeType, rights, allow)
	if err != nil {
		return err
	}

	path := embedFlags.out
	if path == "" {
		path = embedFlags.image
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	cmd.Printf("%s %s %d bytes (+%d)\n", path, mimeType, len(out), len(out)-len(data))
	return nil
}
