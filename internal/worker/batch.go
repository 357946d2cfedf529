package worker

import (
	"context"
	"time"
)

// SourceFunc does the work for one source and returns the path it produced
type SourceFunc func(ctx context.Context, source string) (string, error)

// SourceJob runs a SourceFunc for one source
type SourceJob struct {
	Source string
	Run    SourceFunc
}

// Execute executes the job
func (j *SourceJob) Execute(ctx context.Context) Result {
	start := time.Now()
	path, err := j.Run(ctx, j.Source)
	return &SourceResult{
		Source:   j.Source,
		Path:     path,
		Error:    err,
		Duration: time.Since(start),
	}
}

// SourceResult is the outcome for one source
type SourceResult struct {
	Source   string
	Path     string
	Error    error
	Duration time.Duration
}

// GetError returns the error from the source result
func (r *SourceResult) GetError() error {
	return r.Error
}

// RunSources runs fn for every source concurrently. A failing source does not
// stop the others. Results come back in the order of sources.
func RunSources(ctx context.Context, sources []string, concurrency int, fn SourceFunc) []*SourceResult {
	if len(sources) == 0 {
		return []*SourceResult{}
	}
	if concurrency <= 0 || concurrency > len(sources) {
		concurrency = len(sources)
	}

	pool := NewPool(ctx, concurrency)
	pool.Start()

	for _, source := range sources {
		if !pool.Submit(&SourceJob{Source: source, Run: fn}) {
			break
		}
	}

	bySource := make(map[string]*SourceResult, len(sources))
	for _, r := range pool.Wait() {
		sr := r.(*SourceResult)
		bySource[sr.Source] = sr
	}

	ordered := make([]*SourceResult, 0, len(sources))
	for _, source := range sources {
		if r, ok := bySource[source]; ok {
			ordered = append(ordered, r)
			continue
		}
		// Never ran: the context ended before the job was picked up.
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		ordered = append(ordered, &SourceResult{Source: source, Error: err})
	}
	return ordered
}
