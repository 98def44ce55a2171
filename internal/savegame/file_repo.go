package savegame

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

// FileRepo persists the save blob to disk using the export encoding, so a
// save file and an exported string are interchangeable.
type FileRepo struct {
	mu   sync.Mutex
	path string
}

// NewFileRepo creates the data directory if needed.
func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &FileRepo{path: filepath.Join(dataDir, "save.rcs")}, nil
}

// Save writes the blob atomically via a temp file rename.
func (r *FileRepo) Save(ctx context.Context, b Blob) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	encoded, err := Encode(b)
	if err != nil {
		return err
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(encoded), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}

// Load reads the save if one exists. The second return is false when no save
// file has been written yet.
func (r *FileRepo) Load(ctx context.Context) (Blob, bool, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Blob{}, false, nil
		}
		return Blob{}, false, err
	}

	b, err := Decode(string(data))
	if err != nil {
		return Blob{}, false, err
	}
	return b, true, nil
}
