package main

import (
	"context"
	"encoding/json"
	"flag"
	"layer-comparator/internal/env"
	"layer-comparator/internal/extract"
	"layer-comparator/internal/logging"
	"layer-comparator/internal/storage"
	"log"
	"os"
	"time"
)

type ExtractOutput struct {
	Folder string   `json:"folder"`
	URLs   []string `json:"urls"`
}

func main() {
	if err := env.Load(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	var root string
	var storageKind string
	var bucket string
	var prefix string
	var contextName string
	var debug bool
	flag.StringVar(&root, "root", env.OrDefault("ROOT", "."), "Directory holding context/version/variant folders")
	flag.StringVar(&storageKind, "storage", env.OrDefault("STORAGE", "file"), "Storage backend (file or s3)")
	flag.StringVar(&bucket, "s3-bucket", env.OrDefault("S3_BUCKET", ""), "Bucket used when storage is s3")
	flag.StringVar(&prefix, "s3-prefix", env.OrDefault("S3_PREFIX", ""), "Key prefix inside the bucket when storage is s3")
	flag.StringVar(&contextName, "context", env.OrDefault("CONTEXT", "Example"), "Context the new version folder is created in")
	flag.BoolVar(&debug, "debug", env.OrDefault("DEBUG", false), "Write human readable logs")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		log.Fatalf("document not specified")
	}
	source := args[0]

	ctx := context.Background()

	logger, err := logging.New(os.Stderr, debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	s, err := storage.New(ctx, storage.Config{Kind: storageKind, Directory: root, Bucket: bucket, Prefix: prefix})
	if err != nil {
		log.Fatalf("Failed to create storage backend: %v", err)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		log.Fatalf("Failed to read document: %v", err)
	}

	result, err := extract.Run(ctx, s, extract.GIFFrames{}, logger, contextName, source, data, time.Now())
	if err != nil {
		log.Fatalf("Failed to extract: %v", err)
	}

	if err := json.NewEncoder(os.Stdout).Encode(ExtractOutput{
		Folder: result.Folder,
		URLs:   result.URLs,
	}); err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
}
