// Command processor runs the ingestion pipeline once and writes the unified
// datasets to the output directory. Useful for batch exports and for
// inspecting what the server would serve, without starting it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"salama/internal/config"
	"salama/internal/dataprocessing"
	"salama/internal/exporter"
	"salama/internal/infrastructure"
)

func main() {
	configFile := flag.String("config", "config.yml", "path to the configuration file")
	format := flag.String("format", "csv", "export format: csv, excel or json")
	outDir := flag.String("out", "", "output directory (defaults to the configured export directory)")
	flag.Parse()

	cfg, err := config.LoadFrom(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *outDir == "" {
		*outDir = cfg.Export.OutputDir
	}

	logger, logCloser, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	if logCloser != nil {
		defer logCloser.Close()
	}

	manifest, err := config.LoadManifest(cfg.Pipeline.ManifestFile)
	if err != nil {
		logger.Error("failed to load source manifest", "error", err)
		os.Exit(1)
	}

	processor := dataprocessing.NewProcessor(logger, dataprocessing.LoaderConfig{
		BaseDir:     cfg.Pipeline.DataDir,
		Encodings:   cfg.Pipeline.Encodings,
		Parallelism: cfg.Pipeline.Parallelism,
		HeaderPromoter: dataprocessing.HeaderPromoterConfig{
			StringRatio:      cfg.Pipeline.HeaderRatio,
			PlaceholderRatio: cfg.Pipeline.PlaceholderRatio,
		},
	})

	ctx := context.Background()
	snapshot := processor.Run(ctx, manifest.ToLoaderManifest())
	if len(snapshot.Unified) == 0 {
		logger.Error("no sources produced data")
		os.Exit(1)
	}

	switch *format {
	case "csv":
		writer := exporter.NewCSVWriter(logger, *outDir)
		for kind, t := range snapshot.Unified {
			if err := writer.WriteTable(fmt.Sprintf("%s.csv", kind), t); err != nil {
				logger.Error("csv export failed", "kind", kind.String(), "error", err)
				os.Exit(1)
			}
		}
	case "excel":
		if err := exporter.NewExcelWriter(logger, *outDir).WriteWorkbook("safety-data.xlsx", snapshot.Unified); err != nil {
			logger.Error("excel export failed", "error", err)
			os.Exit(1)
		}
	case "json":
		if err := exporter.NewJSONWriter(logger, *outDir).Write("safety-data.json", snapshot.Unified); err != nil {
			logger.Error("json export failed", "error", err)
			os.Exit(1)
		}
	default:
		logger.Error("unsupported format", "format", *format)
		os.Exit(1)
	}

	logger.Info("processing complete",
		slog.Int("datasets", len(snapshot.Unified)),
		slog.String("output_dir", *outDir))
}
