// Package snapshot reads the baseline dataset extract that seeds entity
// stores which have no mirror file yet.
package snapshot

import (
	"errors"
	"io/fs"
	"maps"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"alumni-connect-backend/internal/logger"
)

// Loader reads one baseline YAML document, keyed by entity kind, at most once
// per process. A missing or unparseable document yields empty collections.
type Loader struct {
	path string

	once     sync.Once
	sections map[string]yaml.Node
}

// NewLoader returns a loader for the YAML extract at path. An empty path is
// valid and behaves like a missing file.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

func (l *Loader) read() {
	l.once.Do(func() {
		if l.path == "" {
			return
		}
		data, err := os.ReadFile(l.path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Warn("Baseline snapshot missing, stores start empty", "path", l.path)
			} else {
				logger.Error("Failed to read baseline snapshot, stores start empty", "path", l.path, "error", err)
			}
			return
		}

		var doc map[string]yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			logger.Error("Baseline snapshot is corrupt, stores start empty", "path", l.path, "error", err)
			return
		}
		l.sections = doc
		logger.Info("Baseline snapshot read", "path", l.path, "kinds", len(doc))
	})
}

// Kinds lists the sections present in the baseline document, sorted.
func (l *Loader) Kinds() []string {
	if l == nil {
		return nil
	}
	l.read()
	return slices.Sorted(maps.Keys(l.sections))
}

// Load decodes the section named kind into records, preserving file order.
// A missing section or a section that fails to decode yields an empty slice.
func Load[T any](l *Loader, kind string) []T {
	if l == nil {
		return nil
	}
	l.read()

	node, ok := l.sections[kind]
	if !ok {
		return nil
	}
	var out []T
	if err := node.Decode(&out); err != nil {
		logger.Error("Baseline section is corrupt, store starts empty", "kind", kind, "error", err)
		return nil
	}
	return out
}
