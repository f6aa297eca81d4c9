package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/panvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-f string   path of the local account directory file
//
// os.Args is filtered to the flags handled here (flagx.FilterArgs) so the
// JSON config flags do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DirectoryPath, "f", cfg.DirectoryPath, "path of the local account directory file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
