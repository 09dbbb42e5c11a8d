package main

import (
	"context"
	"flag"
	"layer-comparator/internal/catalog"
	"layer-comparator/internal/env"
	"layer-comparator/internal/export"
	"layer-comparator/internal/logging"
	"layer-comparator/internal/session"
	"layer-comparator/internal/storage"
	"layer-comparator/internal/tui"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/xerrors"
)

func main() {
	if err := env.Load(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	var root string
	var storageKind string
	var bucket string
	var prefix string
	var policyName string
	var contextName string
	var variant string
	var outputDirectory string
	var logFile string
	var debug bool
	flag.StringVar(&root, "root", env.OrDefault("ROOT", "."), "Directory holding context/version/variant folders")
	flag.StringVar(&storageKind, "storage", env.OrDefault("STORAGE", "file"), "Storage backend (file or s3)")
	flag.StringVar(&bucket, "s3-bucket", env.OrDefault("S3_BUCKET", ""), "Bucket used when storage is s3")
	flag.StringVar(&prefix, "s3-prefix", env.OrDefault("S3_PREFIX", ""), "Key prefix inside the bucket when storage is s3")
	flag.StringVar(&policyName, "policy", env.OrDefault("POLICY", "manual"), "Difference recompute policy (manual or automatic)")
	flag.StringVar(&contextName, "context", env.OrDefault("CONTEXT", "Example"), "Context selected at start-up")
	flag.StringVar(&variant, "default-variant", env.OrDefault("DEFAULT_VARIANT", "Layer Comp 1.png"), "Variant selected at start-up")
	flag.StringVar(&outputDirectory, "output-directory", env.OrDefault("OUTPUT_DIRECTORY", ""), "Directory saved views are written to (defaults to root)")
	flag.StringVar(&logFile, "log-file", env.OrDefault("LOG_FILE", ""), "File to write logs to (discarded when empty)")
	flag.BoolVar(&debug, "debug", env.OrDefault("DEBUG", false), "Write human readable logs")
	flag.Parse()

	if err := run(context.Background(), options{
		storage:         storage.Config{Kind: storageKind, Directory: root, Bucket: bucket, Prefix: prefix},
		policy:          policyName,
		context:         contextName,
		variant:         variant,
		outputDirectory: outputDirectory,
		logFile:         logFile,
		debug:           debug,
	}); err != nil {
		log.Fatalf("%v", err)
	}
}

type options struct {
	storage         storage.Config
	policy          string
	context         string
	variant         string
	outputDirectory string
	logFile         string
	debug           bool
}

// run owns every resource it opens, so they are released before main exits.
func run(ctx context.Context, o options) error {
	w, err := logging.Open(o.logFile)
	if err != nil {
		return xerrors.Errorf("failed to open log file: %w", err)
	}
	defer w.Close()
	logger, err := logging.New(w, o.debug)
	if err != nil {
		return xerrors.Errorf("failed to create logger: %w", err)
	}

	policy, err := session.ParsePolicy(o.policy)
	if err != nil {
		return xerrors.Errorf("invalid policy: %w", err)
	}

	s, err := storage.New(ctx, o.storage)
	if err != nil {
		return xerrors.Errorf("failed to create storage backend: %w", err)
	}

	out := s
	if o.storage.Kind != "s3" && o.outputDirectory != "" {
		out, err = storage.NewFileStorage(ctx, storage.FileConfig{Directory: o.outputDirectory})
		if err != nil {
			return xerrors.Errorf("failed to create output storage: %w", err)
		}
	}

	app := tui.NewApp(ctx,
		session.New(s, session.Config{Policy: policy, Logger: logger}),
		catalog.New(s, logger),
		export.New(out),
		logger,
		tui.Config{Context: o.context, Variant: o.variant},
	)

	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return xerrors.Errorf("failed to run: %w", err)
	}
	return nil
}
