package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/MKhiriev/go-user-keeper/internal/adapter"
	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/models"
	"github.com/rs/zerolog"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))

	log := logger.NewClientLogger("user-keeper-client", os.Stderr, zerolog.WarnLevel)

	c := &cli{
		newClient: func(opts options) (adapter.APIClient, error) {
			if opts.Verbose {
				log.Logger = log.Level(zerolog.DebugLevel)
			}
			return adapter.NewHTTPAPIClient(opts.Address, opts.Timeout, log)
		},
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := c.run(ctx, os.Args[1:])
	stop()

	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	default:
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printBuildInfo(build models.AppBuildInfo) {
	fmt.Fprintf(os.Stderr, "Build version: %s\n", build.BuildVersion())
	fmt.Fprintf(os.Stderr, "Build date: %s\n", build.BuildDate())
	fmt.Fprintf(os.Stderr, "Build commit: %s\n", build.BuildCommit())
}
