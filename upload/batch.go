package upload

import (
	"context"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/notecall/core"
)

// BatchResult reports the outcome of one file in a batch upload.
type BatchResult struct {
	Path    string
	Sources []*core.Source
	Err     error
}

// BatchUpload uploads several local files concurrently through a bounded
// worker pool. workers <= 0 selects a default based on the CPU count.
// Failures are isolated per file: the returned slice has one entry per input
// path, in input order, and only that entry's Err is set when an upload fails.
func (u *Uploader) BatchUpload(ctx context.Context, paths []string, workers int, opts ...RequestOption) ([]BatchResult, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}

	if workers <= 0 {
		workers = runtime.NumCPU() / 2
		if workers < 1 {
			workers = 1
		}
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	u.logger.Info("starting batch upload", "files", len(paths), "workers", workers)

	results := make([]BatchResult, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			sources, uploadErr := u.Upload(ctx, path, opts...)
			results[i] = BatchResult{Path: path, Sources: sources, Err: uploadErr}
			if uploadErr != nil {
				u.logger.Warn("batch upload item failed", "path", path, "err", uploadErr)
			}
		})
		if submitErr != nil {
			results[i] = BatchResult{Path: path, Err: submitErr}
			wg.Done()
		}
	}

	wg.Wait()
	return results, nil
}
