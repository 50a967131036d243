// MIT License
//
// Copyright (c) 2023 Lack
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package mindmap

import (
	"context"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	log "github.com/vine-io/vine/lib/logger"
	"go.uber.org/atomic"
)

// FileResult is the outcome of loading one file of a batch.
type FileResult struct {
	Path   string
	Result *LoadResult
	Err    error
}

type BatchStats struct {
	Loaded     int64
	Failed     int64
	Unresolved int64
}

// LoadFiles loads every path with reader on a pool of size workers. Results
// keep the order of paths. Files not started when ctx is done fail with the
// context error.
func LoadFiles(ctx context.Context, reader *Reader, paths []string, size int) ([]*FileResult, BatchStats, error) {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, BatchStats{}, err
	}
	defer pool.Release()

	var (
		wg         sync.WaitGroup
		loaded     atomic.Int64
		failed     atomic.Int64
		unresolved atomic.Int64
	)
	results := make([]*FileResult, len(paths))

	for i := range paths {
		i := i
		path := paths[i]
		wg.Add(1)
		e := pool.Submit(func() {
			defer wg.Done()

			fr := &FileResult{Path: path}
			results[i] = fr
			if fr.Err = ctx.Err(); fr.Err != nil {
				failed.Inc()
				return
			}

			fr.Result, fr.Err = reader.LoadFile(path)
			if fr.Err != nil {
				failed.Inc()
				log.Debugf("load %s: %v", path, fr.Err)
				return
			}
			loaded.Inc()
			unresolved.Add(int64(len(fr.Result.Unresolved)))
		})
		if e != nil {
			wg.Done()
			results[i] = &FileResult{Path: path, Err: e}
			failed.Inc()
		}
	}
	wg.Wait()

	stats := BatchStats{
		Loaded:     loaded.Load(),
		Failed:     failed.Load(),
		Unresolved: unresolved.Load(),
	}
	return results, stats, nil
}
