package hotsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/keycool/hotsearch/internal/model"
	"github.com/keycool/hotsearch/internal/paths"
	"github.com/keycool/hotsearch/internal/util"
	"github.com/keycool/hotsearch/internal/worker"
)

// Save writes file to its raw-topics path under the data directory and
// returns that path.
func Save(layout *paths.Layout, file *model.TopicsFile, indent int) (string, error) {
	if err := layout.EnsureDataDir(); err != nil {
		return "", fmt.Errorf("save topics: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", indent))
	if err := enc.Encode(file); err != nil {
		return "", fmt.Errorf("encode topics: %w", err)
	}

	path := layout.RawFile(file.Source, file.Timestamp)
	if err := util.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("save topics: %w", err)
	}
	return path, nil
}

// FetchAndSave fetches one source, processes it and writes the artifact.
func (c *Client) FetchAndSave(ctx context.Context, source string, layout *paths.Layout, indent int) (string, error) {
	resp, err := c.Fetch(ctx, source)
	if err != nil {
		return "", err
	}

	file, err := Process(source, resp, c.now())
	if err != nil {
		return "", err
	}
	c.logger.Debug("%s: %d topics", source, file.TotalCount)

	return Save(layout, file, indent)
}

// FetchAll runs FetchAndSave for every source concurrently. One failing
// source does not affect the others; results keep the order of sources.
func (c *Client) FetchAll(ctx context.Context, sources []string, layout *paths.Layout, indent int) []*worker.SourceResult {
	return worker.RunSources(ctx, sources, len(sources), func(ctx context.Context, source string) (string, error) {
		return c.FetchAndSave(ctx, source, layout, indent)
	})
}
