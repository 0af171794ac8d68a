package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/jlewi/gcputil/config"
	"github.com/jlewi/gcputil/gcp"
)

// newClient builds a client from the environment.
func newClient(ctx context.Context) (*gcp.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return gcp.NewClient(ctx, *cfg)
}

// exitOnError prints the error and exits. Commands use it so failures produce a non zero exit code.
func exitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
	os.Exit(1)
}
