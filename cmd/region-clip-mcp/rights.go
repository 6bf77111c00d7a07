package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/region-clip-mcp/internal/xmp"
)

// rightsFlags collects the rights record from command-line flags.
type rightsFlags struct {
	rights       xmp.Rights
	allowMissing bool
}

func (f *rightsFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.rights.License, "license", "", "licence key (CC0-1.0, CC-BY-4.0, CC-BY-SA-4.0) or URL")
	fl.StringVar(&f.rights.Title, "title", "", "title of the work")
	fl.StringVar(&f.rights.Holder, "holder", "", "rights holder")
	fl.StringVar(&f.rights.Date, "date", "", "date of the work")
	fl.StringVar(&f.rights.Source, "source", "", "source the region was taken from")
	fl.StringVar(&f.rights.Credit, "credit", "", "credit line")
	fl.StringVar(&f.rights.Language, "lang", "", "BCP 47 language of the work")
	fl.StringVar(&f.rights.Direction, "dir", "", "text direction (ltr or rtl)")
	fl.StringVar(&f.rights.WritingMode, "writing-mode", "", "writing mode (e.g. vertical-rl)")
	fl.BoolVar(&f.rights.Modified, "modified", false, "mark the image as modified from its source")
	fl.BoolVar(&f.allowMissing, "allow-missing-license", false, "permit output without a licence")
}

// resolve merges the flags over the configured defaults.
func (f *rightsFlags) resolve() (xmp.Rights, bool) {
	return cfg.Rights.Defaults.Merge(f.rights), f.allowMissing || cfg.Rights.AllowMissingLicense
}
