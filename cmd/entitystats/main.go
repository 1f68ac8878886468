// Package main implements the entitystats CLI, which extracts entities such
// as hashtags, mentions, currency symbols and URLs from a corpus and
// summarizes them.
package main

import (
	"context"
	"errors"
	"os"
)

// version is set at build time.
var version = "dev"

func main() {
	if err := execute(context.Background(), os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// execute runs the command tree, then flushes metrics, telemetry and logs
// whether or not the command succeeded.
func execute(ctx context.Context, args []string) error {
	cmd, a := newRootCmd()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return errors.Join(err, a.teardown(ctx))
}
