package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/region-clip-mcp/internal/extract"
	"github.com/ironsheep/region-clip-mcp/internal/imaging"
	"github.com/ironsheep/region-clip-mcp/internal/orientation"
)

var clipFlags struct {
	image       string
	region      string
	orientation int
	mimeType    string
	out         string
	sourceKey   string
	rights      rightsFlags
}

var clipCmd = &cobra.Command{
	Use:   "clip",
	Short: "Clip a region out of an image",
	Long: `Clip a region out of an image and write it with an embedded rights packet.

Region coordinates are upright. The orientation defaults to the EXIF tag of
JPEG input. Output goes to --out, or, when --source-key is given and the
config sets output.dir, to the object path of the extracted-part key.

  region-clip-mcp clip --image page.jpg --region @region.json \
      --license CC-BY-4.0 --out part.jpg`,
	Args: cobra.NoArgs,
	RunE: runClip,
}

func init() {
	f := clipCmd.Flags()
	f.StringVar(&clipFlags.image, "image", "", "source image path (required)")
	f.StringVar(&clipFlags.region, "region", "", "region JSON, @file or - for stdin (required)")
	f.IntVar(&clipFlags.orientation, "orientation", 0, "EXIF orientation 1-8 (0 detects)")
	f.StringVar(&clipFlags.mimeType, "mime", "", "output type: image/jpeg or image/png")
	f.StringVar(&clipFlags.out, "out", "", "output file")
	f.StringVar(&clipFlags.sourceKey, "source-key", "", "key of the source image, for the extracted-part key")
	clipFlags.rights.register(clipCmd)
	_ = clipCmd.MarkFlagRequired("image")
	_ = clipCmd.MarkFlagRequired("region")
	rootCmd.AddCommand(clipCmd)
}

func runClip(cmd *cobra.Command, _ []string) error {
	var o orientation.Orientation
	if clipFlags.orientation != 0 {
		var err error
		if o, err = orientation.Parse(clipFlags.orientation); err != nil {
			return err
		}
	}
	rb, err := readRegion(cmd.InOrStdin(), clipFlags.region)
	if err != nil {
		return err
	}
	img, err := imaging.NewImageCache().LoadOriented(clipFlags.image, o)
	if err != nil {
		return err
	}

	opts, err := extract.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	rights, allow := clipFlags.rights.resolve()
	res, err := extract.New(opts).Extract(extract.Request{
		Image:               img,
		Boundary:            rb,
		MimeType:            clipFlags.mimeType,
		Rights:              rights,
		AllowMissingLicense: allow,
	})
	if err != nil {
		return err
	}

	var epKey string
	if clipFlags.sourceKey != "" {
		epKey = extract.EPKey(clipFlags.sourceKey, img.Orientation(), res.RegionKey)
	}

	path := clipFlags.out
	switch {
	case path != "":
		if err := os.WriteFile(path, res.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write clip: %w", err)
		}
	case epKey != "" && cfg.Output.Dir != "":
		if path, err = extract.WriteObject(cfg.Output.Dir, epKey, res.MimeType, res.Data); err != nil {
			return err
		}
	default:
		return errors.New("no destination: pass --out, or --source-key with output.dir configured")
	}

	cmd.Printf("%s %dx%d %s %d bytes\n", res.RegionKey, res.Width, res.Height, res.MimeType, len(res.Data))
	if epKey != "" {
		cmd.Printf("  Key:  %s\n", epKey)
	}
	cmd.Printf("  File: %s\n", path)
	return nil
}
