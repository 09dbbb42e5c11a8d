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
	"layer-comparator/internal/viewer"
	"log"
	"os"
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
	flag.StringVar(&root, "root", env.OrDefault("ROOT", "."), "Directory holding context/version/variant folders")
	flag.StringVar(&storageKind, "storage", env.OrDefault("STORAGE", "file"), "Storage backend (file or s3)")
	flag.StringVar(&bucket, "s3-bucket", env.OrDefault("S3_BUCKET", ""), "Bucket used when storage is s3")
	flag.StringVar(&prefix, "s3-prefix", env.OrDefault("S3_PREFIX", ""), "Key prefix inside the bucket when storage is s3")
	flag.StringVar(&policyName, "policy", env.OrDefault("POLICY", "manual"), "Difference recompute policy (manual or automatic)")
	flag.StringVar(&contextName, "context", env.OrDefault("CONTEXT", "Example"), "Context loaded at start-up")
	flag.StringVar(&variant, "default-variant", env.OrDefault("DEFAULT_VARIANT", "Layer Comp 1.png"), "Variant loaded at start-up")
	flag.StringVar(&outputDirectory, "output-directory", env.OrDefault("OUTPUT_DIRECTORY", ""), "Directory exported views are written to (defaults to root)")
	flag.BoolVar(&viewer.Debug, "debug", env.OrDefault("DEBUG", false), "Enable text logs and pprof endpoints")
	flag.Parse()

	ctx := context.Background()

	logger, err := logging.New(os.Stderr, viewer.Debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	policy, err := session.ParsePolicy(policyName)
	if err != nil {
		log.Fatalf("Invalid policy: %v", err)
	}

	s, err := storage.New(ctx, storage.Config{Kind: storageKind, Directory: root, Bucket: bucket, Prefix: prefix})
	if err != nil {
		log.Fatalf("Failed to create storage backend: %v", err)
	}
	out := s
	if storageKind != "s3" && outputDirectory != "" {
		out, err = storage.NewFileStorage(ctx, storage.FileConfig{Directory: outputDirectory})
		if err != nil {
			log.Fatalf("Failed to create output storage: %v", err)
		}
	}

	c := catalog.New(s, logger)
	sess := session.New(s, session.Config{Policy: policy, Logger: logger})

	if previous, next, ok := c.Defaults(ctx, contextName, variant); ok {
		// A failed default load leaves the slot empty; clients can select another.
		_, _ = sess.SelectByHierarchy(ctx, session.SelectorPrevious, previous)
		_, _ = sess.SelectByHierarchy(ctx, session.SelectorNext, next)
	} else {
		logger.Warn("no default selection", "context", contextName)
	}

	server := viewer.NewServer(sess, c, export.New(out), logger)
	if err := server.Start(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
