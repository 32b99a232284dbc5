package gen

import (
	"bytes"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"
)

// WriterMetrics tracks generation output.
type WriterMetrics struct {
	FilesGenerated atomic.Int64
	TotalBytes     atomic.Int64
}

var metrics WriterMetrics

// Metrics returns the process-wide generation metrics.
func Metrics() *WriterMetrics { return &metrics }

// Format renders f and runs the result through goimports.
func Format(name string, f *jen.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, err
	}
	return imports.Process(name, buf.Bytes(), nil)
}

// writeFile renders, formats and writes one generated file.
func (g *JenniferGenerator) writeFile(f *jen.File, name, phase string) error {
	path := filepath.Join(g.outDir, name)
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return NewGenerationError(phase, name, "render", err)
	}
	formatted, err := imports.Process(path, buf.Bytes(), nil)
	if err != nil {
		// Keep the unformatted output next to the target for debugging.
		_ = os.WriteFile(path+".error", buf.Bytes(), 0o644)
		return NewGenerationError("format", name, "unformatted output written to "+path+".error", err)
	}
	if err := os.WriteFile(path, formatted, 0o644); err != nil {
		return NewGenerationError("write", name, "", err)
	}
	metrics.FilesGenerated.Add(1)
	metrics.TotalBytes.Add(int64(len(formatted)))
	return nil
}
