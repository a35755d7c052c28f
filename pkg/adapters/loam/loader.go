package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/graft/pkg/codec"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
)

// Prefix marks references served by a vault.
const Prefix = "vault:"

// ContentKey holds the document body when it is not empty.
const ContentKey = "content"

// Host adapts a Loam repository to ports.Host.
//
// A reference "vault:<id>" loads the document <id>: its metadata (frontmatter,
// or the whole object for JSON/YAML documents) becomes a mapping and a
// non-empty body is added under "content".
type Host struct {
	Repo  core.Repository
	typed *loam.TypedRepository[DocumentHeader]
}

// New creates a new Loam adapter.
func New(repo core.Repository) *Host {
	return &Host{
		Repo:  repo,
		typed: loam.NewTypedRepository[DocumentHeader](repo),
	}
}

// Open initializes a read-only vault at dir.
// Strict mode keeps numbers as json.Number so integers survive intact.
func Open(dir string) (*Host, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(repo), nil
}

// Resolve implements ports.Host. Only names carrying Prefix are considered.
func (h *Host) Resolve(name, _ string) (string, error) {
	id, ok := strings.CutPrefix(name, Prefix)
	if !ok || id == "" {
		return "", fmt.Errorf("%w: %s is not a vault reference", domain.ErrModuleNotFound, name)
	}
	if _, err := h.Repo.Get(context.Background(), id); err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrModuleNotFound, name, err)
	}
	return Prefix + id, nil
}

// Load implements ports.Host.
func (h *Host) Load(ctx context.Context, location string) (any, error) {
	id, ok := strings.CutPrefix(location, Prefix)
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: %s is not a vault location", domain.ErrModuleNotFound, location)
	}

	// Loam Normalized Retrieval: "db" finds db.md or db.json.
	doc, err := h.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: loam get failed for %s: %v", domain.ErrModuleNotFound, id, err)
	}

	out := make(map[string]any, len(doc.Metadata)+1)
	for k, v := range doc.Metadata {
		out[k] = v
	}
	if body := strings.TrimSpace(doc.Content); body != "" {
		if _, exists := out[ContentKey]; !exists {
			out[ContentKey] = body
		}
	}
	return codec.Normalize(out), nil
}

// List returns the vault references of every document, extensions stripped.
func (h *Host) List(ctx context.Context) ([]string, error) {
	docs, err := h.typed.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		// Use the ID from metadata if available, otherwise filename ID
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		names = append(names, Prefix+id)
	}
	sort.Strings(names)
	return names, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
