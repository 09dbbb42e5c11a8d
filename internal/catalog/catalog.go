package catalog

import (
	"context"
	"layer-comparator/internal/raster"
	"layer-comparator/internal/session"
	"layer-comparator/internal/storage"
	"log/slog"
	"path"
	"sort"
	"strings"
)

// Catalog enumerates the context/version/variant hierarchy under a storage
// root. Enumeration failures yield an empty list rather than an error.
type Catalog struct {
	storage storage.Storage
	logger  *slog.Logger
}

func New(s storage.Storage, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		storage: s,
		logger:  logger,
	}
}

func (c *Catalog) Contexts(ctx context.Context) []string {
	return c.list(ctx, "", isDir)
}

func (c *Catalog) Versions(ctx context.Context, contextName string) []string {
	if !c.valid(contextName) {
		return nil
	}
	return c.list(ctx, contextName, isDir)
}

func (c *Catalog) Variants(ctx context.Context, contextName string, version string) []string {
	if !c.valid(contextName, version) {
		return nil
	}
	return c.list(ctx, path.Join(contextName, version), isRaster)
}

// valid rejects segments that would resolve outside their parent folder.
func (c *Catalog) valid(segments ...string) bool {
	for _, s := range segments {
		if err := session.ValidateSegment(s); err != nil {
			if s != "" {
				c.logger.Warn("rejected catalog segment", "segment", s, "error", err)
			}
			return false
		}
	}
	return true
}

func isDir(e storage.Entry) bool {
	return e.Dir
}

func isRaster(e storage.Entry) bool {
	return !e.Dir && raster.IsRasterFile(e.Name)
}

func (c *Catalog) list(ctx context.Context, prefix string, keep func(storage.Entry) bool) []string {
	entries, err := c.storage.List(ctx, prefix)
	if err != nil {
		c.logger.Warn("failed to list entries", "prefix", prefix, "error", err)
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name, ".") || !keep(e) {
			continue
		}
		names = append(names, e.Name)
	}
	sort.Strings(names)

	return names
}

// Defaults picks the start-up pair inside contextName: the first version
// folder for previous and the second (or the only one) for next. The
// variant is preferred when both folders hold it, otherwise the first
// variant they share, otherwise the first of each.
func (c *Catalog) Defaults(ctx context.Context, contextName string, variant string) (session.SelectionPath, session.SelectionPath, bool) {
	versions := c.Versions(ctx, contextName)
	if len(versions) == 0 {
		return session.SelectionPath{}, session.SelectionPath{}, false
	}

	previousVersion := versions[0]
	nextVersion := versions[0]
	if len(versions) > 1 {
		nextVersion = versions[1]
	}

	previousVariants := c.Variants(ctx, contextName, previousVersion)
	nextVariants := c.Variants(ctx, contextName, nextVersion)
	if len(previousVariants) == 0 || len(nextVariants) == 0 {
		return session.SelectionPath{}, session.SelectionPath{}, false
	}

	previousVariant, nextVariant := previousVariants[0], nextVariants[0]
	if shared := intersect(previousVariants, nextVariants); len(shared) > 0 {
		previousVariant, nextVariant = shared[0], shared[0]
		for _, v := range shared {
			if v == variant {
				previousVariant, nextVariant = v, v
			}
		}
	}

	return session.SelectionPath{Context: contextName, Version: previousVersion, Variant: previousVariant},
		session.SelectionPath{Context: contextName, Version: nextVersion, Variant: nextVariant},
		true
}

func intersect(l []string, r []string) []string {
	set := make(map[string]struct{}, len(r))
	for _, v := range r {
		set[v] = struct{}{}
	}
	var shared []string
	for _, v := range l {
		if _, ok := set[v]; ok {
			shared = append(shared, v)
		}
	}
	return shared
}
