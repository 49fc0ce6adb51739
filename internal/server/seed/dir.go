package seed

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// DirSource reads seed files from a local directory.
type DirSource struct {
	Dir string
}

func (s DirSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.Dir, name))
}
