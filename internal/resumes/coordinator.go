package resumes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"

	"resume-parser-backend/internal/artifacts"
	"resume-parser-backend/internal/llm"
	"resume-parser-backend/internal/shared/telemetry"
)

// ErrNoValidFiles is returned when a batch contains no named file.
var ErrNoValidFiles = errors.New("no valid files provided")

// Upload is one incoming file in a batch.
type Upload struct {
	Name    string
	Content io.Reader
}

// Coordinator persists uploads and fans a batch out over a bounded worker
// pool. Each worker creates its own LLM client lazily so no handle is shared
// across goroutines.
type Coordinator struct {
	Store    *artifacts.Store
	Pipeline *Pipeline
	Factory  llm.Factory
	Workers  int
}

type task struct {
	index  int
	path   string
	stored string
	source string
}

// ProcessBatch saves every named upload and processes them concurrently.
// The result slice always has one record per valid upload; panics inside a
// task become error records keyed to the stored filename.
func (c *Coordinator) ProcessBatch(ctx context.Context, uploads []Upload) ([]StructuredResume, error) {
	var valid []Upload
	for _, up := range uploads {
		if up.Name != "" {
			valid = append(valid, up)
		}
	}
	if len(valid) == 0 {
		return nil, ErrNoValidFiles
	}

	results := make([]StructuredResume, len(valid))
	tasks := make([]task, 0, len(valid))
	for i, up := range valid {
		path, stored, err := c.Store.SaveUpload(up.Name, up.Content)
		if err != nil {
			results[i] = ErrorRecord(up.Name, err.Error())
			continue
		}
		tasks = append(tasks, task{index: i, path: path, stored: stored, source: up.Name})
	}

	c.run(ctx, tasks, results)
	return results, nil
}

func (c *Coordinator) run(ctx context.Context, tasks []task, results []StructuredResume) {
	if len(tasks) == 0 {
		return
	}

	workers := c.Workers
	if workers <= 0 {
		workers = min(4, runtime.NumCPU())
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	jobs := make(chan task)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.worker(ctx, jobs, results)
		}()
	}
	for _, t := range tasks {
		jobs <- t
	}
	close(jobs)
	wg.Wait()
}

func (c *Coordinator) worker(ctx context.Context, jobs <-chan task, results []StructuredResume) {
	var client llm.Client
	var clientErr error

	for t := range jobs {
		if client == nil && clientErr == nil {
			client, clientErr = c.Factory(ctx)
			if clientErr != nil {
				telemetry.Error("resume.batch.client_init_failed", map[string]any{
					"error": clientErr.Error(),
				})
			}
		}
		if clientErr != nil {
			results[t.index] = ErrorRecord(t.source, clientErr.Error())
			continue
		}
		results[t.index] = c.runTask(ctx, client, t)
	}

	if closer, ok := client.(io.Closer); ok {
		closer.Close()
	}
}

func (c *Coordinator) runTask(ctx context.Context, client llm.Client, t task) (record StructuredResume) {
	defer func() {
		if r := recover(); r != nil {
			telemetry.Error("resume.batch.task_panic", map[string]any{
				"stored_file": t.stored,
				"panic":       fmt.Sprint(r),
			})
			record = ErrorRecord(t.stored, fmt.Sprint(r))
		}
	}()
	return c.Pipeline.Process(ctx, client, t.path, t.source)
}
