package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sagarc03/tinyweb"
	"github.com/sagarc03/tinyweb/config"
	"github.com/sagarc03/tinyweb/database"
)

var seedCmd = &cobra.Command{
	Use:   "seed [flags] <path> [path] ...",
	Short: "Copy local files into device storage",
	Long: `Copy local files into the configured storage so the engine can serve
them. A directory argument seeds every regular file directly inside it.

Names are the lower-cased base names and must use [0-9a-z.] with at most one
dot. Files are write-once: a name that already holds data is skipped.

Examples:
  # Seed a built web UI
  tinyweb seed ./dist

  # Seed into a SQLite store
  tinyweb seed --storage-type sqlite --storage-dsn device.db index.html app.js`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSeed,
}

var seedQuiet bool

func init() {
	seedCmd.Flags().BoolVarP(&seedQuiet, "quiet", "q", false, "suppress per-file output")
	rootCmd.AddCommand(seedCmd)
}

// seedEntry is a local file and the storage name it is seeded under.
type seedEntry struct {
	sourcePath string
	name       string
}

type seedResult struct {
	added   int
	skipped int
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	storage, closeStorage, err := database.Open(ctx, cfg.Storage.DatabaseConfig())
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer closeStorage()

	var entries []seedEntry
	for _, arg := range args {
		collected, collectErr := collectSeedFiles(arg)
		if collectErr != nil {
			return fmt.Errorf("collect files from %s: %w", arg, collectErr)
		}
		entries = append(entries, collected...)
	}

	if len(entries) == 0 {
		slog.Info("no files to seed")
		return nil
	}

	logger := slog.Default()
	if seedQuiet {
		logger = slog.New(slog.DiscardHandler)
	}

	result, err := seedFiles(ctx, storage, entries, logger)
	if err != nil {
		return err
	}

	slog.Info("seed complete", "added", result.added, "skipped", result.skipped)
	return nil
}

// collectSeedFiles returns path itself, or the regular files directly inside
// it when path is a directory.
func collectSeedFiles(path string) ([]seedEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []seedEntry{{sourcePath: path, name: seedName(path)}}, nil
	}

	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var entries []seedEntry
	for _, d := range dirEntries {
		if !d.Type().IsRegular() {
			continue
		}
		source := filepath.Join(path, d.Name())
		entries = append(entries, seedEntry{sourcePath: source, name: seedName(source)})
	}
	return entries, nil
}

func seedName(path string) string {
	return strings.ToLower(filepath.Base(path))
}

// seedFiles writes every entry into storage. Illegal names and names that
// already hold data are skipped; any storage failure aborts.
func seedFiles(ctx context.Context, storage tinyweb.Storage, entries []seedEntry, logger *slog.Logger) (seedResult, error) {
	var result seedResult

	for _, entry := range entries {
		if !tinyweb.IsLegalFileName(entry.name) {
			result.skipped++
			logger.Warn("skipped (illegal name)", "path", entry.sourcePath, "name", entry.name)
			continue
		}

		added, err := seedFile(ctx, storage, entry)
		if err != nil {
			return result, fmt.Errorf("seed %s: %w", entry.name, err)
		}
		if !added {
			result.skipped++
			logger.Info("skipped (exists)", "name", entry.name)
			continue
		}

		result.added++
		logger.Info("added", "name", entry.name, "content_type", tinyweb.ContentTypeFor(entry.name))
	}

	return result, nil
}

func seedFile(ctx context.Context, storage tinyweb.Storage, entry seedEntry) (bool, error) {
	src, err := os.Open(entry.sourcePath) //#nosec G304 -- sourcePath is user-provided input
	if err != nil {
		return false, fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = src.Close() }()

	dst, err := storage.Create(ctx, entry.name)
	if err != nil {
		return false, err
	}

	if dst.Size() != 0 {
		return false, dst.Close()
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return false, fmt.Errorf("copy: %w", err)
	}

	if err := dst.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}
