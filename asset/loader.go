package asset

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// The modelReader interface is implemented by all model readers.
type modelReader interface {
	Read(*Resource) (*Model, error)
}

// ModelResult is delivered by LoadModelAsync.
type ModelResult struct {
	Model *Model
	Err   error
}

// Load a model from a local path or an http(s) URL. Supported formats are
// wavefront .obj files and .zip archives containing one.
func LoadModel(pathToModel string) (*Model, error) {
	return LoadModelContext(context.Background(), pathToModel)
}

// LoadModelContext behaves like LoadModel; remote fetches and parsing are
// aborted when ctx is cancelled.
func LoadModelContext(ctx context.Context, pathToModel string) (*Model, error) {
	var reader modelReader
	switch strings.ToLower(path.Ext(pathToModel)) {
	case ".obj":
		reader = newWavefrontReader(ctx)
	case ".zip":
		reader = newZipModelReader(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path.Ext(pathToModel))
	}

	res, err := NewResourceContext(ctx, pathToModel, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return reader.Read(res)
}

// Load a model in a background goroutine. The returned channel receives
// exactly one result and is then closed.
func LoadModelAsync(ctx context.Context, pathToModel string) <-chan ModelResult {
	out := make(chan ModelResult, 1)
	go func() {
		defer close(out)
		model, err := LoadModelContext(ctx, pathToModel)
		out <- ModelResult{Model: model, Err: err}
	}()
	return out
}
