package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"shuttersort/internal/config"
	"shuttersort/internal/fingerprint"
	"shuttersort/internal/history"
	"shuttersort/internal/logging"
	"shuttersort/internal/mediameta"
	"shuttersort/internal/organize"
	"shuttersort/internal/plan"
	"shuttersort/internal/preflight"
	"shuttersort/internal/scan"
	"shuttersort/internal/services/exiftool"
)

func newRunCommand(cmdCtx *commandContext) *cobra.Command {
	var inputFlag string
	var outputFlag string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scan the input directory and organize media into the output tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyPathOverrides(cfg, inputFlag, outputFlag); err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// One organizing session at a time; concurrent runs would race
			// on the fingerprint artifact.
			lock := flock.New(filepath.Join(cfg.Paths.FingerprintDir, "shuttersort.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another shuttersort run is already in progress")
			}
			defer func() {
				_ = lock.Unlock()
			}()

			files, err := scan.Discover(ctx, cfg.Paths.InputDir, scan.Options{
				Nested:       cfg.Organize.ScanNested,
				MaxSizeBytes: cfg.MaxFileSizeBytes(),
			}, logger)
			if err != nil {
				return fmt.Errorf("scan input: %w", err)
			}

			var totalBytes int64
			for _, file := range files {
				totalBytes += file.Size
			}

			results := preflight.RunAll(ctx, cfg, totalBytes)
			printPreflight(cmd, results)
			if preflight.FatalFailure(results) {
				return fmt.Errorf("preflight checks failed")
			}

			algorithm, err := fingerprint.ParseAlgorithm(cfg.Organize.HashAlgorithm)
			if err != nil {
				return err
			}
			store := fingerprint.Open(cfg.Paths.FingerprintDir, algorithm, logger)

			executor := &organize.Executor{
				Store:           store,
				Planner:         plan.NewPlanner(cfg, algorithm),
				Extractor:       buildExtractor(cfg, logger),
				Algorithm:       algorithm,
				DuplicatePolicy: cfg.Organize.DuplicatePolicy,
				DryRun:          dryRun,
				Logger:          logger,
			}

			var historyStore *history.Store
			var runID int64
			if cfg.History.Enabled && !dryRun {
				historyStore, err = history.Open(cfg.History.Path)
				if err != nil {
					logger.Warn("history unavailable for this run", logging.Error(err))
				} else {
					defer historyStore.Close()
					runID, err = historyStore.BeginRun(ctx, cfg.Paths.InputDir, cfg.Paths.OutputDir, dryRun)
					if err != nil {
						logger.Warn("history unavailable for this run", logging.Error(err))
						historyStore = nil
					} else {
						executor.Sink = historyStore.Sink(runID)
					}
				}
			}

			started := time.Now()
			summary, runErr := executor.Run(ctx, files)

			if historyStore != nil {
				if err := historyStore.FinishRun(ctx, runID, summary); err != nil {
					logger.Warn("history run not finalized", logging.Error(err))
				}
			}

			printSummary(cmd, summary, dryRun, time.Since(started))
			return runErr
		},
	}

	cmd.Flags().StringVarP(&inputFlag, "input", "i", "", "Input directory (overrides paths.input_dir)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output directory (overrides paths.output_dir)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Log planned operations without copying anything")
	return cmd
}

func applyPathOverrides(cfg *config.Config, input, output string) error {
	if input != "" {
		expanded, err := config.ExpandPath(input)
		if err != nil {
			return err
		}
		cfg.Paths.InputDir = expanded
	}
	if output != "" {
		expanded, err := config.ExpandPath(output)
		if err != nil {
			return err
		}
		cfg.Paths.OutputDir = expanded
	}
	return cfg.Validate()
}

// buildExtractor assembles the metadata fallback chain: exiftool first when
// it is enabled and resolvable, then the in-process EXIF reader.
func buildExtractor(cfg *config.Config, logger *slog.Logger) mediameta.Extractor {
	var extractors []mediameta.Extractor
	if !cfg.Extractor.Disabled {
		client := exiftool.NewClient(cfg.ExiftoolBinary(), time.Duration(cfg.Extractor.TimeoutSeconds)*time.Second)
		if client.Available() {
			extractors = append(extractors, client)
		} else {
			logger.Warn("exiftool not found, using built-in EXIF reader only",
				logging.String("binary", cfg.ExiftoolBinary()))
		}
	}
	extractors = append(extractors, mediameta.GoexifExtractor{})
	return mediameta.NewChain(logger, extractors...)
}

func printPreflight(cmd *cobra.Command, results []preflight.Result) {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		status := "ok"
		if !result.Passed {
			status = "warn"
			if result.Fatal {
				status = "FAIL"
			}
		}
		rows = append(rows, []string{result.Name, status, result.Detail})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Check", "Status", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft},
	))
}

func printSummary(cmd *cobra.Command, summary organize.Summary, dryRun bool, elapsed time.Duration) {
	rows := [][]string{
		{"Scanned", strconv.Itoa(summary.Scanned)},
		{"Copied", strconv.Itoa(summary.Copied)},
		{"Duplicates", strconv.Itoa(summary.Duplicates)},
		{"Unknown", strconv.Itoa(summary.Unknown)},
		{"Errors", strconv.Itoa(summary.Errors)},
		{"Elapsed", elapsed.Round(time.Millisecond).String()},
	}
	out := cmd.OutOrStdout()
	if dryRun {
		fmt.Fprintln(out, "Dry run: no files were copied and no state was saved.")
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Result", "Count"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))
}
