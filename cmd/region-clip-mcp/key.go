package main

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/region-clip-mcp/internal/region"
)

var keyCmd = &cobra.Command{
	Use:   "key <region>",
	Short: "Print the content key of a region boundary",
	Long: `Print the content key of a region boundary together with its bounding box.

The region is a JSON array of polygon groups, given inline, as @file, or as
"-" to read stdin:

  region-clip-mcp key '[[[[0,0],[10,0],[10,10],[0,10]]]]'`,
	Args: cobra.ExactArgs(1),
	RunE: runKey,
}

func init() {
	rootCmd.AddCommand(keyCmd)
}

func runKey(cmd *cobra.Command, args []string) error {
	rb, err := readRegion(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}
	key, ok := rb.Key()
	if !ok {
		return errors.New("region has no key")
	}
	cmd.Println(key)

	bb := rb.BoundingBox()
	if !bb.IsEmpty() {
		cmd.Printf("  Box:  (%d,%d)-(%d,%d)\n", bb.MinX, bb.MinY, bb.MaxX, bb.MaxY)
		cmd.Printf("  Size: %dx%d\n", bb.Width(), bb.Height())
	}
	return nil
}

// readRegion parses a region given inline, as @file, or as "-" for stdin.
func readRegion(stdin io.Reader, arg string) (*region.Boundary, error) {
	var data []byte
	var err error
	switch {
	case arg == "-":
		data, err = io.ReadAll(stdin)
	case strings.HasPrefix(arg, "@"):
		data, err = os.ReadFile(arg[1:])
	default:
		data = []byte(arg)
	}
	if err != nil {
		return nil, err
	}
	return region.Parse(data)
}
