package config

import (
	"flag"

	"github.com/dmitrijs2005/sftpwriter/internal/flagx"
)

type flags struct {
	dataDir string
	debug   bool
}

// parseFlags reads the flags this package owns:
//
//	-d string   data directory (overrides KBC_DATADIR)
//	-debug      force debug logging
//
// Arguments are filtered through flagx.FilterArgs so that flags belonging to
// other components do not cause parse errors.
func parseFlags(args []string) flags {
	var fl flags

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&fl.dataDir, "d", "", "data directory")
	fs.BoolVar(&fl.debug, "debug", false, "force debug logging")

	_ = fs.Parse(flagx.FilterArgs(args, []string{"-d", "-debug"}))

	return fl
}
