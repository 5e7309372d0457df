package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/creditbench/creditbench/internal/storage"
)

// Source resolves dataset drop files by name. Open returns
// storage.ErrObjectNotFound when the drop does not exist.
type Source interface {
	Open(ctx context.Context, dataset, fileName string) (io.ReadCloser, error)
}

type discoverer interface {
	Discover(ctx context.Context) ([]string, error)
}

// DirSource reads drops from a flat local directory.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) (*DirSource, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return &DirSource{dir: dir}, nil
}

func (s *DirSource) Open(_ context.Context, _, fileName string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(s.dir, fileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storage.ErrObjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (s *DirSource) Discover(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read data directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	seen := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if _, ok := ByName(stem); !ok || seen[stem] {
			continue
		}
		seen[stem] = true
		names = append(names, stem)
	}
	return names, nil
}

// ObjectSource reads drops from an object store bucket laid out as
// drops/<dataset>/<file>.
type ObjectSource struct {
	store storage.ObjectStore
}

func NewObjectSource(store storage.ObjectStore) *ObjectSource {
	return &ObjectSource{store: store}
}

func (s *ObjectSource) Open(ctx context.Context, dataset, fileName string) (io.ReadCloser, error) {
	key, err := storage.BuildDropPath(dataset, fileName)
	if err != nil {
		return nil, err
	}
	return s.store.Get(ctx, key)
}

func (s *ObjectSource) Discover(ctx context.Context) ([]string, error) {
	infos, err := s.store.List(ctx, storage.DropPrefix())
	if err != nil {
		return nil, fmt.Errorf("list drops: %w", err)
	}
	names := make([]string, 0, len(infos))
	seen := make(map[string]bool)
	for _, info := range infos {
		dataset, _, err := storage.ParseDropPath(info.Key)
		if err != nil {
			continue
		}
		if _, ok := ByName(dataset); !ok || seen[dataset] {
			continue
		}
		seen[dataset] = true
		names = append(names, dataset)
	}
	return names, nil
}
