// Package main is the attrkit definition tool: it compiles declarative
// resource definitions, reports definition-time errors, dumps compiled
// descriptors, and optionally persists snapshots.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/artpar/attrkit/adapters/clock"
	"github.com/artpar/attrkit/adapters/idgen"
	"github.com/artpar/attrkit/adapters/metrics"
	"github.com/artpar/attrkit/adapters/sqlite"
	"github.com/artpar/attrkit/core/attribute"
	"github.com/artpar/attrkit/core/resource"
	"github.com/artpar/attrkit/core/schema"
	"github.com/artpar/attrkit/ports"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	definitionsPath := flag.String("definitions", "resources.yaml", "Path to resource definitions file")
	validateOnly := flag.Bool("validate", false, "Compile definitions and exit")
	dump := flag.String("dump", "", "Dump compiled resources as 'json' or 'yaml'")
	watch := flag.Bool("watch", false, "Watch the definitions file and recompile on change")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address while watching")
	dbPath := flag.String("db", "", "Persist compiled snapshots to this SQLite database")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("attrkit %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	reg, err := schema.NewRegistry(
		attribute.Now(clock.Real{}),
		attribute.UUID(idgen.UUID{}),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("schema derivation failed")
	}

	holder, err := resource.NewHolder(*definitionsPath, reg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *definitionsPath).Msg("definitions failed to compile")
	}
	defer holder.Stop()

	holder.SetMetrics(metrics.New())

	resources := holder.Resources()
	logger.Info().Int("resources", len(resources)).Msg("definitions compiled")

	if *validateOnly {
		fmt.Printf("OK: %d resource(s)\n", len(resources))
		return
	}

	if *dump != "" {
		if err := dumpResources(resources, *dump); err != nil {
			logger.Fatal().Err(err).Msg("dump failed")
		}
	}

	if *dbPath != "" {
		if err := persistSnapshots(*definitionsPath, *dbPath, resources); err != nil {
			logger.Fatal().Err(err).Msg("snapshot persist failed")
		}
		logger.Info().Str("db", *dbPath).Msg("snapshots persisted")
	}

	if *watch {
		if err := holder.WatchFile(); err != nil {
			logger.Fatal().Err(err).Msg("watch failed")
		}
		holder.WatchSignals()

		if *metricsAddr != "" {
			go func() {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				logger.Info().Str("addr", *metricsAddr).Msg("serving metrics")
				if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
					logger.Error().Err(err).Msg("metrics listener failed")
				}
			}()
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info().Msg("shutting down")
	}
}

func dumpResources(resources []resource.Resource, format string) error {
	summaries := make([]resource.Summary, 0, len(resources))
	for _, r := range resources {
		summaries = append(summaries, r.Summary())
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(summaries)
	default:
		return fmt.Errorf("unknown dump format %q (want json or yaml)", format)
	}
}

func persistSnapshots(definitionsPath, dbPath string, resources []resource.Resource) error {
	source, err := os.ReadFile(definitionsPath)
	if err != nil {
		return fmt.Errorf("read definitions: %w", err)
	}

	db, err := sqlite.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return err
	}

	store := sqlite.NewResourceStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, r := range resources {
		compiled, err := json.Marshal(r.Summary())
		if err != nil {
			return fmt.Errorf("encode %q: %w", r.Name, err)
		}
		snap := ports.ResourceSnapshot{
			Name:      r.Name,
			Source:    string(source),
			Compiled:  compiled,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := store.Save(ctx, snap); err != nil {
			return fmt.Errorf("save %q: %w", r.Name, err)
		}
	}
	return nil
}
