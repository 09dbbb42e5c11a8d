package main

import (
	"context"
	"layer-comparator/internal/storage"
	"os"
	"path/filepath"
	"testing"
)

func TestRun_ConfigErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		o    options
	}{
		{"invalid policy", options{policy: "sometimes", storage: storage.Config{Kind: "file"}}},
		{"unknown storage", options{policy: "manual", storage: storage.Config{Kind: "ftp"}}},
		{"s3 without bucket", options{policy: "manual", storage: storage.Config{Kind: "s3"}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tc.o.storage.Directory = t.TempDir()
			tc.o.logFile = filepath.Join(t.TempDir(), "comparator.log")

			if err := run(context.Background(), tc.o); err == nil {
				t.Fatalf("Expected an error")
			}
			if _, err := os.Stat(tc.o.logFile); err != nil {
				t.Errorf("Expected the log file to have been opened, got %v", err)
			}
		})
	}
}
