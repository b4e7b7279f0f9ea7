package api

import (
	"context"

	"github.com/matzehuels/chronoline/pkg/dataset"
	"github.com/matzehuels/chronoline/pkg/pipeline"
)

// FileSource reads a dataset file through a pipeline Runner, so that an
// unchanged file is served from the dataset cache on reload.
type FileSource struct {
	Runner *pipeline.Runner
	Path   string
}

// Dataset implements DatasetSource.
func (s FileSource) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	return s.Runner.Load(ctx, pipeline.Options{Source: s.Path})
}

// StaticSource serves a dataset that is already in memory.
type StaticSource struct {
	D *dataset.Dataset
}

// Dataset implements DatasetSource.
func (s StaticSource) Dataset(context.Context) (*dataset.Dataset, error) {
	return s.D, nil
}
