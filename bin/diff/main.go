package main

import (
	"context"
	"encoding/json"
	"flag"
	diffimage "layer-comparator/internal/diff/image"
	"layer-comparator/internal/env"
	"layer-comparator/internal/export"
	"layer-comparator/internal/logging"
	"layer-comparator/internal/session"
	"layer-comparator/internal/storage"
	"log"
	"os"
)

type DiffOutput struct {
	DiffPath   string                `json:"diffPath"`
	DiffAmount float64               `json:"diffAmount"`
	Regions    []diffimage.Rectangle `json:"regions"`
}

func main() {
	if err := env.Load(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	var root string
	var storageKind string
	var bucket string
	var prefix string
	var directory string
	var debug bool
	flag.StringVar(&root, "root", env.OrDefault("ROOT", "."), "Directory relative image paths are resolved against")
	flag.StringVar(&storageKind, "storage", env.OrDefault("STORAGE", "file"), "Storage backend (file or s3)")
	flag.StringVar(&bucket, "s3-bucket", env.OrDefault("S3_BUCKET", ""), "Bucket used when storage is s3")
	flag.StringVar(&prefix, "s3-prefix", env.OrDefault("S3_PREFIX", ""), "Key prefix inside the bucket when storage is s3")
	flag.StringVar(&directory, "directory", env.OrDefault("OUTPUT_DIRECTORY", "/tmp"), "Output directory")
	flag.BoolVar(&debug, "debug", env.OrDefault("DEBUG", false), "Write human readable logs")

	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		log.Fatalf("previous, next not specified")
	}

	ctx := context.Background()

	logger, err := logging.New(os.Stderr, debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	s, err := storage.New(ctx, storage.Config{Kind: storageKind, Directory: root, Bucket: bucket, Prefix: prefix})
	if err != nil {
		log.Fatalf("Failed to create storage backend: %v", err)
	}
	out := s
	if storageKind != "s3" {
		out, err = storage.NewFileStorage(ctx, storage.FileConfig{
			Directory: directory,
		})
		if err != nil {
			log.Fatalf("Failed to create output storage: %v", err)
		}
	}

	previousPath := args[0]
	nextPath := args[1]

	sess := session.New(s, session.Config{Logger: logger})
	if _, err := sess.LoadPrevious(ctx, previousPath); err != nil {
		log.Fatalf("Failed to load previous image: %v", err)
	}
	if _, err := sess.LoadNext(ctx, nextPath); err != nil {
		log.Fatalf("Failed to load next image: %v", err)
	}

	diff, err := sess.RecomputeDifference()
	if err != nil {
		log.Fatalf("Failed to calculate difference: %v", err)
	}

	diffPath, err := export.New(out).Save(ctx, session.SelectorDifference.String(), diff, previousPath, nextPath)
	if err != nil {
		log.Fatalf("Failed to save diff image: %v", err)
	}

	result := sess.DiffResult()
	if err := json.NewEncoder(os.Stdout).Encode(DiffOutput{
		DiffPath:   diffPath,
		DiffAmount: result.DiffAmount,
		Regions:    result.Regions,
	}); err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
}
