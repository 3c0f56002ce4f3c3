// Package main provides the command-line interface for the proximity group finder.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/aydeggy-dot/proximity/internal/cli"
	"github.com/aydeggy-dot/proximity/internal/feed"
	"github.com/aydeggy-dot/proximity/internal/formatter"
	"github.com/aydeggy-dot/proximity/internal/geo"
	"github.com/aydeggy-dot/proximity/internal/groups"
	"github.com/aydeggy-dot/proximity/internal/location"
	"github.com/aydeggy-dot/proximity/internal/logging"
	"github.com/aydeggy-dot/proximity/internal/store"
)

var Version = "dev"

// Dependencies encapsulates external dependencies for testing
type Dependencies struct {
	ResolveLocation func(context.Context, logging.LogLevel) (*geo.Coordinate, error)
	ParseGroupsFile func(string, logging.LogLevel) (*groups.File, error)
	Stdout          io.Writer
}

// DefaultDependencies returns production dependencies
func DefaultDependencies() Dependencies {
	return Dependencies{
		ResolveLocation: makeResolveLocation(Version),
		ParseGroupsFile: groups.ParseGroupsFileWithLogLevel,
		Stdout:          os.Stdout,
	}
}

// makeResolveLocation creates a geolocation resolver with the given version
func makeResolveLocation(version string) func(context.Context, logging.LogLevel) (*geo.Coordinate, error) {
	return func(ctx context.Context, logLevel logging.LogLevel) (*geo.Coordinate, error) {
		client := location.NewGeoIPClient(location.WithVersion(version), location.WithLogLevel(logLevel))
		return client.Current(ctx)
	}
}

func main() {
	// Create a context that can be cancelled with SIGINT or SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := run(ctx, os.Args[1:], DefaultDependencies()); err != nil {
		if err == context.Canceled {
			fmt.Fprintln(os.Stderr, "Operation cancelled")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		cancel()
		os.Exit(1)
	}
	cancel()
}

func run(ctx context.Context, args []string, deps Dependencies) error {
	config, err := cli.ParseFlags(args)
	if err != nil {
		return err
	}

	if config.ShowHelp {
		cli.PrintUsage(deps.Stdout, Version)
		return nil
	}

	if config.ShowVersion {
		_, _ = fmt.Fprintf(deps.Stdout, "proximity %s\n", Version)
		return nil
	}

	file, err := deps.ParseGroupsFile(config.GroupsFile, config.LogLevel)
	if err != nil {
		return err
	}

	if len(file.Groups) == 0 {
		return fmt.Errorf("no groups found in %s", config.GroupsFile)
	}

	// Pick the reference location: explicit coordinates win, otherwise a
	// best-effort IP-based lookup. A failed lookup degrades to no location.
	var provider location.Provider
	if config.HasLocation {
		provider = location.NewStatic(geo.Coordinate{
			Latitude:  config.Latitude,
			Longitude: config.Longitude,
		})
	} else {
		provider = location.ProviderFunc(func(ctx context.Context) (*geo.Coordinate, error) {
			return deps.ResolveLocation(ctx, config.LogLevel)
		})
	}

	reference, err := provider.Current(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_, _ = fmt.Fprintln(deps.Stdout, "Could not determine your location; showing groups unranked")
		provider = location.None{}
		reference = nil
	}

	grps := file.Groups
	if config.Radius >= 0 {
		if reference == nil {
			return fmt.Errorf("a radius filter requires a location; pass --lat and --lon")
		}
		grps = groups.FilterByRadiusWithLogLevel(grps, *reference, config.Radius, config.LogLevel)
		if len(grps) == 0 {
			_, _ = fmt.Fprintf(deps.Stdout, "No groups found within %s of your location\n", geo.FormatDistance(config.Radius))
			return nil
		}
	}

	controller, err := feed.New(
		store.NewMemoryStore(grps),
		feed.WithPageSize(config.PageSize),
		feed.WithLocationProvider(provider),
		feed.WithLogLevel(config.LogLevel),
	)
	if err != nil {
		return err
	}
	defer controller.Close()

	controller.Refresh(ctx)
	if err := controller.Err(); err != nil {
		return err
	}

	// Load further pages as requested; 0 means until exhaustion.
	for loaded := 1; config.Pages == 0 || loaded < config.Pages; loaded++ {
		if !controller.HasMore() {
			break
		}
		controller.LoadMore(ctx)
		if err := controller.Err(); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	ranked := controller.Groups()

	if config.NearestMode {
		if reference == nil {
			return fmt.Errorf("--nearest requires a location; pass --lat and --lon")
		}
		output := formatter.FormatNearestGroup(*reference, ranked[0])
		_, _ = fmt.Fprint(deps.Stdout, output)
		return nil
	}

	table := formatter.FormatTable(ranked)
	_, _ = fmt.Fprint(deps.Stdout, table)

	if controller.HasMore() {
		_, _ = fmt.Fprintln(deps.Stdout, "More groups available; increase --pages to load them")
	}

	return nil
}
