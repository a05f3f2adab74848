package asset

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/achilleasa/embers/log"
)

// Reads a model packaged as a zip archive holding one .obj file together
// with the material libraries it references.
type zipModelReader struct {
	logger log.Logger
	ctx    context.Context
}

func newZipModelReader(ctx context.Context) *zipModelReader {
	return &zipModelReader{
		logger: log.New("zip reader"),
		ctx:    ctx,
	}
}

// Read model from a zip archive.
func (p *zipModelReader) Read(res *Resource) (*Model, error) {
	p.logger.Noticef(`reading model archive "%s"`, res.Path())
	start := time.Now()

	// zip.NewReader requires an io.ReaderAt so the whole archive is read
	// into memory first.
	data, err := io.ReadAll(res)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("zip reader: %w", err)
	}

	entries := make(map[string]*zip.File, len(zr.File))
	var objFile *zip.File
	for _, f := range zr.File {
		name := path.Clean(f.Name)
		entries[name] = f
		if strings.HasSuffix(strings.ToLower(name), ".obj") {
			if objFile != nil {
				p.logger.Warningf("ignoring additional model file %s in archive", f.Name)
				continue
			}
			objFile = f
		}
	}
	if objFile == nil {
		return nil, fmt.Errorf("zip reader: archive %s does not contain a .obj file", res.Path())
	}

	wf := newWavefrontReader(p.ctx)
	wf.open = func(_ context.Context, name string, relTo *Resource) (*Resource, error) {
		name = path.Join(path.Dir(relTo.Path()), strings.Replace(name, `\`, `/`, -1))
		f, exists := entries[name]
		if !exists {
			return nil, fmt.Errorf("zip reader: file %s not found in archive", name)
		}
		return openZipEntry(f)
	}

	objRes, err := openZipEntry(objFile)
	if err != nil {
		return nil, err
	}
	defer objRes.Close()

	model, err := wf.Read(objRes)
	if err != nil {
		return nil, err
	}

	p.logger.Noticef("loaded model archive in %d ms", time.Since(start).Nanoseconds()/1e6)
	return model, nil
}

func openZipEntry(f *zip.File) (*Resource, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	res := NewResourceFromStream(path.Clean(f.Name), rc)
	res.ReadCloser = rc
	return res, nil
}
