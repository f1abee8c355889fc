package serialize

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/ajmazurie/spate/internal/spateerr"
	"github.com/ajmazurie/spate/internal/workflow"
)

// Save writes w to path. Compression is transparent: a ".gz" suffix on
// path gzips the YAML payload, any other suffix writes it plain.
func Save(w *workflow.Workflow, path string) error {
	doc, err := BuildDocument(w)
	if err != nil {
		return err
	}
	raw, err := Marshal(doc)
	if err != nil {
		return err
	}

	if strings.HasSuffix(path, ".gz") {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write(raw); err != nil {
			return spateerr.New(spateerr.FilesystemError, "compressing workflow document").WithPath(path).WithCause(err)
		}
		if err := gz.Close(); err != nil {
			return spateerr.New(spateerr.FilesystemError, "closing gzip writer").WithPath(path).WithCause(err)
		}
		raw = buf.Bytes()
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return spateerr.New(spateerr.FilesystemError, "writing workflow document").WithPath(path).WithCause(err)
	}
	return nil
}

// Load reads a workflow document from path, transparently decompressing a
// ".gz" suffix, validating it against the document schema, and
// reconstructing a *workflow.Workflow.
func Load(path string) (*workflow.Workflow, error) {
	return LoadWithObserver(path, nil)
}

// LoadWithObserver behaves like Load but installs observer on the
// reconstructed workflow before replaying its jobs, so every job present in
// the file on disk also fires an Observer notification as it is re-added
// (e.g. cmd/spate wires this to its telemetry provider). Passing nil is
// equivalent to Load.
func LoadWithObserver(path string, observer workflow.Observer) (*workflow.Workflow, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, spateerr.New(spateerr.FilesystemError, "reading workflow document").WithPath(path).WithCause(err)
	}

	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, spateerr.New(spateerr.SerializationError, "document is not valid gzip").WithPath(path).WithCause(err)
		}
		defer gz.Close()
		decompressed, err := io.ReadAll(gz)
		if err != nil {
			return nil, spateerr.New(spateerr.SerializationError, "decompressing workflow document").WithPath(path).WithCause(err)
		}
		raw = decompressed
	}

	doc, err := Unmarshal(raw)
	if err != nil {
		return nil, err
	}
	return RebuildWithObserver(doc, observer)
}
