package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/creditbench/creditbench/internal/storage"
)

// PushDrops uploads the drop files found in dir for the named datasets
// (every discovered dataset when names is empty) to the object store
// under drops/<dataset>/<file>.
func PushDrops(ctx context.Context, store storage.ObjectStore, dir string, names []string) ([]storage.ObjectInfo, error) {
	source, err := NewDirSource(dir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		names, err = source.Discover(ctx)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("no drop files found in %s", dir)
		}
	}

	pushed := make([]storage.ObjectInfo, 0, len(names))
	for _, name := range names {
		ds, ok := ByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown dataset %q", name)
		}
		found := false
		for _, fileName := range ds.fileNames() {
			info, err := pushFile(ctx, store, ds, filepath.Join(dir, fileName), fileName)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, err
			}
			pushed = append(pushed, info)
			found = true
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrNoDrop, ds.Name)
		}
	}
	return pushed, nil
}

func pushFile(ctx context.Context, store storage.ObjectStore, ds Dataset, path, fileName string) (storage.ObjectInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("open drop %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	stat, err := file.Stat()
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("stat drop %s: %w", path, err)
	}
	key, err := storage.BuildDropPath(ds.Name, fileName)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	info, err := store.Put(ctx, key, file, stat.Size(), storage.PutOptions{ContentType: contentTypeFor(fileName)})
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("push drop %s: %w", key, err)
	}
	return info, nil
}

func contentTypeFor(fileName string) string {
	if filepath.Ext(fileName) == ".csv" {
		return "text/csv"
	}
	return "application/octet-stream"
}
