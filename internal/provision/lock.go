package provision

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const lockFilename = ".edgekit-setup.lock"

// RunLock guards against two setup sessions mutating the same project at
// once. It is a plain exclusive-create file, released by Release.
type RunLock struct {
	path string
}

func AcquireRunLock(projectDir string) (*RunLock, error) {
	path := filepath.Join(projectDir, lockFilename)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("another setup appears to be running (remove %s if not)", path)
		}
		return nil, fmt.Errorf("acquire setup lock: %w", err)
	}
	fmt.Fprintf(f, "pid %d\n", os.Getpid())
	f.Close()
	return &RunLock{path: path}, nil
}

func (l *RunLock) Release() {
	if l == nil {
		return
	}
	os.Remove(l.path)
}
