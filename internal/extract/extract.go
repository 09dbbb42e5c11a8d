package extract

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"layer-comparator/internal/storage"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/xerrors"
)

// Variant is one named rendering pulled out of a source document.
type Variant struct {
	Name  string
	Image image.Image
}

type Extractor interface {
	Extract(ctx context.Context, data []byte) ([]Variant, error)
}

type Result struct {
	Folder string
	URLs   []string
}

// FolderName is the version folder a document is extracted into:
// <document name without extension>_<YYYY-mm-dd_HH-MM-SS>.
func FolderName(source string, at time.Time) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "_" + at.Format("2006-01-02_15-04-05")
}

// Run extracts every variant of data into a new version folder under
// contextName. Variants already written stay in place when a later one fails.
func Run(ctx context.Context, s storage.Storage, ex Extractor, logger *slog.Logger, contextName string, source string, data []byte, at time.Time) (*Result, error) {
	variants, err := ex.Extract(ctx, data)
	if err != nil {
		return nil, xerrors.Errorf("failed to extract %s: %w", source, err)
	}
	if len(variants) == 0 {
		return nil, xerrors.Errorf("no variants found in %s", source)
	}

	folder := path.Join(contextName, FolderName(source, at))
	logger.Info("start extracting", "source", source, "folder", folder, "variants", len(variants))

	result := &Result{Folder: folder}
	for _, v := range variants {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		var buffer bytes.Buffer
		if err := png.Encode(&buffer, v.Image); err != nil {
			return result, xerrors.Errorf("failed to encode %s: %w", v.Name, err)
		}

		url, err := s.Put(ctx, path.Join(folder, v.Name+".png"), buffer.Bytes())
		if err != nil {
			return result, xerrors.Errorf("failed to save %s: %w", v.Name, err)
		}
		logger.Info("extracted", "variant", v.Name, "url", url)
		result.URLs = append(result.URLs, url)
	}

	logger.Info("finished extracting", "folder", folder)
	return result, nil
}
