package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/simonhull/tlgen/internal/logger"
	"github.com/simonhull/tlgen/internal/schema"
)

// parseResult holds the result of parsing one schema file
type parseResult struct {
	index int
	file  *schema.File
	err   error
}

// parseJob is a schema file to be parsed
type parseJob struct {
	index int
	path  string
	name  string
}

// ParseFiles parses schema files with a bounded worker pool. The result keeps
// the order of paths, and when several files fail the error of the first one
// is returned, so the outcome never depends on scheduling.
func ParseFiles(ctx context.Context, dir string, paths []string, opts schema.Options, numWorkers int, log logger.Logger) ([]*schema.File, error) {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(paths) {
		numWorkers = len(paths)
	}
	log.Debug("Parsing schema files",
		logger.F("files", len(paths)),
		logger.F("workers", numWorkers))

	jobs := make(chan parseJob, len(paths))
	results := make(chan parseResult, len(paths))
	var wg sync.WaitGroup

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go parseWorker(ctx, jobs, results, opts, &wg)
	}

	for i, path := range paths {
		jobs <- parseJob{index: i, path: path, name: displayName(dir, path)}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	files := make([]*schema.File, len(paths))
	errs := make([]error, len(paths))
	for result := range results {
		if result.err != nil {
			errs[result.index] = result.err
			continue
		}
		files[result.index] = result.file
		log.Debug("Parsed schema file", logger.F("file", result.file.Name))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// parseWorker reads and parses files until jobs is drained
func parseWorker(ctx context.Context, jobs <-chan parseJob, results chan<- parseResult, opts schema.Options, wg *sync.WaitGroup) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			return
		}

		text, err := os.ReadFile(job.path)
		if err != nil {
			results <- parseResult{index: job.index, err: fmt.Errorf("failed to read schema: %w", err)}
			continue
		}
		f, err := schema.ParseFile(schema.Source{Name: job.name, Text: text}, opts)
		results <- parseResult{index: job.index, file: f, err: err}
	}
}

// displayName is the path used in diagnostics: relative to the manifest
// when possible.
func displayName(dir, path string) string {
	if dir == "" {
		return path
	}
	if rel, err := filepath.Rel(dir, path); err == nil && !filepath.IsAbs(rel) {
		return filepath.ToSlash(rel)
	}
	return path
}
