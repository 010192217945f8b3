package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GustavoCremonez/backend/internal/app"
	"github.com/GustavoCremonez/backend/internal/domain/entities"
	"github.com/GustavoCremonez/backend/internal/usecase/extraction"
	"github.com/GustavoCremonez/backend/pkg/config"
	pkglogger "github.com/GustavoCremonez/backend/pkg/logger"
)

func runExtract(cmd *cobra.Command, args []string, opts *extractOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.lexicon != "" {
		cfg.Extraction.LexiconPath = opts.lexicon
	}
	if opts.timezone != "" {
		cfg.Extraction.Timezone = opts.timezone
	}

	transcript, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	// logs go to stderr through zap; stdout carries only JSON
	logger, err := pkglogger.New("development", "warn")
	if err != nil {
		return err
	}
	defer logger.Sync()

	records, err := extract(cmd.Context(), cfg, opts, transcript, logger)
	if err != nil {
		return err
	}
	return writeRecords(cmd.OutOrStdout(), records, opts.pretty)
}

func extract(ctx context.Context, cfg *config.Config, opts *extractOptions, transcript string, logger *zap.Logger) ([]entities.PersonRecord, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}

	pipeline, err := app.BuildPipeline(cfg, logger, nil)
	if err != nil {
		return nil, err
	}

	req := extraction.Request{
		Transcript: transcript,
		Provider:   entities.ExtractionProvider(opts.provider),
		BaseDay:    opts.baseDate,
	}

	service := extraction.NewService(extraction.Dependencies{
		Strategies:      pipeline.Strategies,
		DefaultProvider: entities.ExtractionProvider(cfg.Extraction.DefaultProvider),
		Location:        loc,
		Timeout:         cfg.Extraction.Timeout,
	}, logger)

	res, err := service.Extract(ctx, req)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// readInput reads the file named in args, or stdin when none (or "-") is given
func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

func writeRecords(w io.Writer, records []entities.PersonRecord, pretty bool) error {
	if records == nil {
		records = []entities.PersonRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(records)
}
