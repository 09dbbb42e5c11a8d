package export

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"image/png"
	"layer-comparator/internal/raster"
	"layer-comparator/internal/storage"
	"time"

	"golang.org/x/xerrors"
)

type Exporter struct {
	storage storage.Storage
	now     func() time.Time
}

func New(s storage.Storage) *Exporter {
	return &Exporter{
		storage: s,
		now:     time.Now,
	}
}

// Key names an exported view after the pair it was produced from, so
// repeated saves of one comparison land in the same folder.
func Key(name string, previousKey string, nextKey string, at time.Time) string {
	h := sha256.New()
	h.Write([]byte(previousKey + "\x00" + nextKey))
	hash := fmt.Sprintf("%x", h.Sum(nil))[:16]

	return fmt.Sprintf("Comparison/%s/%s/%s.png", name, hash, at.Format("20060102150405"))
}

func EncodePNG(buf *raster.Buffer) ([]byte, error) {
	var buffer bytes.Buffer
	if err := png.Encode(&buffer, buf); err != nil {
		return nil, xerrors.Errorf("failed to encode image: %w", err)
	}
	return buffer.Bytes(), nil
}

// Save writes buf as PNG and returns the storage URL.
func (e *Exporter) Save(ctx context.Context, name string, buf *raster.Buffer, previousKey string, nextKey string) (string, error) {
	if buf.Empty() {
		return "", xerrors.Errorf("nothing to export for %s", name)
	}

	data, err := EncodePNG(buf)
	if err != nil {
		return "", err
	}

	url, err := e.storage.Put(ctx, Key(name, previousKey, nextKey, e.now()), data)
	if err != nil {
		return "", xerrors.Errorf("failed to save %s image: %w", name, err)
	}

	return url, nil
}
