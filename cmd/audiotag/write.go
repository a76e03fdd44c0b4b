package main

import (
	"github.com/spf13/cobra"

	"github.com/simonhull/audiotag"
)

// writeFlags are the options shared by the commands that write files.
type writeFlags struct {
	backup        string
	preserveMtime bool
	validate      bool
}

func (f *writeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.backup, "backup", "", "keep the original file with this suffix, e.g. .bak")
	cmd.Flags().BoolVar(&f.preserveMtime, "preserve-mtime", false, "keep the modification time of the file")
	cmd.Flags().BoolVar(&f.validate, "validate", true, "read the file back after writing")
}

func (f *writeFlags) options(g *globals) []audiotag.WriteOption {
	opts := []audiotag.WriteOption{audiotag.WithWriteLogger(g.logger())}
	if f.backup != "" {
		opts = append(opts, audiotag.WithBackup(f.backup))
	}
	if f.preserveMtime {
		opts = append(opts, audiotag.WithPreserveModTime())
	}
	if f.validate {
		opts = append(opts, audiotag.WithValidation())
	}
	return opts
}
