// Package file implements the snapshot store as one JSON document per source.
// The document maps flattened identity keys to field maps, indented with
// sorted keys, so snapshots diff cleanly in version control
package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"modelwatch/internal/core/record"
	perr "modelwatch/internal/platform/errors"
	"modelwatch/internal/platform/fs"
	"modelwatch/internal/platform/logger"
	"modelwatch/internal/services/snapshot/domain"
)

// Store keeps snapshots under a single directory, <dir>/<source>.json
type Store struct {
	dir string
	log logger.Logger
}

var _ domain.Store = (*Store)(nil)

// New returns a file-backed snapshot store rooted at dir
func New(dir string) *Store {
	return &Store{dir: dir, log: *logger.Named("snapshot.file")}
}

// Load reads the prior snapshot for a source. A missing document is a first
// run; an unreadable or corrupt document degrades to an empty prior with a
// warning rather than failing the source, the next save rewrites it whole
func (s *Store) Load(ctx context.Context, source string, scheme record.Scheme) (*record.Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.path(source)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return record.NewSet(), nil
		}
		s.log.Warn().Err(err).Str("source", source).Str("path", path).
			Msg("snapshot unreadable, starting from empty")
		return record.NewSet(), nil
	}

	var flat map[string]map[string]string
	if err := json.Unmarshal(raw, &flat); err != nil {
		s.log.Warn().Err(err).Str("source", source).Str("path", path).
			Msg("snapshot corrupt, starting from empty")
		return record.NewSet(), nil
	}

	set, dropped := domain.Build(flat, scheme)
	if dropped > 0 {
		s.log.Warn().Str("source", source).Int("dropped", dropped).
			Msg("snapshot entries no longer match the identity scheme")
	}
	return set, nil
}

// Save replaces the source's snapshot document crash atomically
func (s *Store) Save(ctx context.Context, source string, set *record.Set) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b, err := json.MarshalIndent(domain.Flatten(set), "", "  ")
	if err != nil {
		return perr.Internalf("snapshot: marshal %s: %v", source, err)
	}
	b = append(b, '\n')
	return fs.WriteAtomic(s.path(source), b, 0o644)
}

func (s *Store) path(source string) string {
	return filepath.Join(s.dir, source+".json")
}
