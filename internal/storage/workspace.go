package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	// WorkspacePrefix marks directories created by NewWorkspace.
	WorkspacePrefix = "render-"
	// OutputName is the file the rendered video is written to.
	OutputName = "output.mp4"

	inputDirName = "media"
)

// ErrInvalidFilename is returned when a staged file name is empty or
// contains a path separator.
var ErrInvalidFilename = errors.New("invalid filename")

// Workspace is a private directory holding one request's uploads and its
// rendered output. Uploads live in a subdirectory so a file named like the
// output can never collide with it.
type Workspace struct {
	id  string
	dir string

	releaseOnce sync.Once
	releaseErr  error
}

func newWorkspace(baseDir string) (*Workspace, error) {
	id := uuid.NewString()
	dir := filepath.Join(baseDir, WorkspacePrefix+id)

	if err := os.Mkdir(dir, 0700); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	if err := os.Mkdir(filepath.Join(dir, inputDirName), 0700); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("create workspace input dir: %w", err)
	}

	return &Workspace{id: id, dir: dir}, nil
}

// ID returns the workspace identifier.
func (w *Workspace) ID() string { return w.id }

// Dir returns the workspace root directory.
func (w *Workspace) Dir() string { return w.dir }

// InputDir returns the directory uploads are staged in.
func (w *Workspace) InputDir() string { return filepath.Join(w.dir, inputDirName) }

// OutputPath returns where the rendered video is written.
func (w *Workspace) OutputPath() string { return filepath.Join(w.dir, OutputName) }

// Save writes data to name inside the input directory and returns the path.
func (w *Workspace) Save(ctx context.Context, name string, data io.Reader) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}

	path := filepath.Join(w.InputDir(), name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) // #nosec G304 - name is checked above
	if err != nil {
		return "", fmt.Errorf("create staged file: %w", err)
	}

	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write staged file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close staged file: %w", err)
	}

	return path, nil
}

// Release removes the workspace and everything in it. It is safe to call
// more than once; later calls return the first result.
func (w *Workspace) Release() error {
	w.releaseOnce.Do(func() {
		if err := os.RemoveAll(w.dir); err != nil {
			w.releaseErr = fmt.Errorf("remove workspace: %w", err)
		}
	})
	return w.releaseErr
}
