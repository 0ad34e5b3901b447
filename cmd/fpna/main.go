package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Karthikn9883/fpna-agent/internal/analysis"
	"github.com/Karthikn9883/fpna-agent/internal/config"
	"github.com/Karthikn9883/fpna-agent/internal/core"
	"github.com/Karthikn9883/fpna-agent/internal/intent"
	"github.com/Karthikn9883/fpna-agent/internal/log"
	"github.com/Karthikn9883/fpna-agent/internal/source"
)

func main() {
	entity := flag.String("entity", "", "restrict aggregation to one entity")
	op := flag.String("op", "", "run a fixed operation instead of classifying the question")
	asJSON := flag.Bool("json", false, "emit the full result as JSON")
	sourceFlag := flag.String("source", "", "override DATA_SOURCE (memory|csv|sheets)")
	csvDir := flag.String("csv-dir", "", "override CSV_DIR")
	flag.Usage = usage
	flag.Parse()

	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" && *op == "" {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if *sourceFlag != "" {
		cfg.DataSource = *sourceFlag
	}
	if *csvDir != "" {
		cfg.CSVDir = *csvDir
	}

	// Answers go to stdout; everything else stays on stderr.
	logger := log.NewWithWriter(log.Config{
		Level:     cfg.LogLevel,
		Pretty:    cfg.LogPretty,
		Component: log.ComponentApp,
	}, os.Stderr)

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	operation := intent.Classify(question)
	if *op != "" {
		operation = analysis.Operation(*op)
		if !operation.Valid() {
			logger.Fatal().Str("op", *op).Msgf("unknown operation, valid: %v", analysis.Operations())
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	loader, err := source.NewFactory(logger).CreateLoader(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("source", cfg.DataSource).Msg("failed to initialize data source")
	}

	tables, err := loader.Load(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load tables")
	}
	ds, err := core.BuildDataset(tables)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build dataset")
	}

	res, err := analysis.New(logger, nil).Answer(ds, operation, question, *entity)
	if err != nil {
		logger.Fatal().Err(err).Str("operation", string(operation)).Msg("failed to answer")
	}

	if *asJSON {
		out := struct {
			Answer    string             `json:"answer"`
			Chart     *analysis.Chart    `json:"chart,omitempty"`
			Operation analysis.Operation `json:"operation"`
		}{res.Answer, res.Chart, operation}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			logger.Fatal().Err(err).Msg("failed to encode result")
		}
		return
	}

	fmt.Println(res.Answer)
}

func usage() {
	fmt.Fprintln(os.Stderr, "fpna answers one financial question and exits.")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  fpna [flags] <question...>")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Examples:")
	fmt.Fprintln(os.Stderr, `  fpna "What was June 2025 revenue vs budget?"`)
	fmt.Fprintln(os.Stderr, `  fpna -entity EMEA -json "show opex breakdown for June"`)
	fmt.Fprintln(os.Stderr, `  fpna -op cash_runway`)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}
