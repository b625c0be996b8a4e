package enrollment

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"verivote/pkg/domain"
	"verivote/pkg/platform/sentinel"
)

// FileStore persists one binary vector file per (identity, modality) plus one
// metadata JSON per identity:
//
//	<root>/embeddings/face_<identity>.vec
//	<root>/embeddings/iris_<identity>.vec
//	<root>/enrolled/<identity>.json
//
// Vector files are a little-endian uint32 element count followed by IEEE 754
// float64 values. Writes go through a temp file and rename so a crashed
// enrollment never leaves a half-written template behind.
type FileStore struct {
	root string
}

const (
	embeddingsDir = "embeddings"
	enrolledDir   = "enrolled"
)

func NewFileStore(root string) (*FileStore, error) {
	for _, dir := range []string{embeddingsDir, enrolledDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create template dir: %w", err)
		}
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) Enroll(_ context.Context, template Template) error {
	id := template.Identity
	if err := writeVectorFile(s.vectorPath("face", id), template.Face); err != nil {
		return fmt.Errorf("write face template: %w", err)
	}
	if err := writeVectorFile(s.vectorPath("iris", id), template.Iris); err != nil {
		return fmt.Errorf("write iris template: %w", err)
	}

	raw, err := json.MarshalIndent(template.Metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := atomicWrite(s.metadataPath(id), raw); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

func (s *FileStore) Lookup(_ context.Context, identity domain.Identity) (Template, error) {
	raw, err := os.ReadFile(s.metadataPath(identity))
	if os.IsNotExist(err) {
		return Template{}, ErrNotEnrolled
	}
	if err != nil {
		return Template{}, fmt.Errorf("read metadata: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return Template{}, fmt.Errorf("metadata for %s: %w", identity, sentinel.ErrCorrupted)
	}

	face, err := readVectorFile(s.vectorPath("face", identity))
	if err != nil {
		return Template{}, fmt.Errorf("face template for %s: %w", identity, err)
	}
	iris, err := readVectorFile(s.vectorPath("iris", identity))
	if err != nil {
		return Template{}, fmt.Errorf("iris template for %s: %w", identity, err)
	}

	return Template{Identity: identity, Face: face, Iris: iris, Metadata: meta}, nil
}

func (s *FileStore) ClearAll(_ context.Context) error {
	for _, dir := range []string{embeddingsDir, enrolledDir} {
		path := filepath.Join(s.root, dir)
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("clear %s: %w", dir, err)
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("recreate %s: %w", dir, err)
		}
	}
	return nil
}

func (s *FileStore) vectorPath(modality string, identity domain.Identity) string {
	return filepath.Join(s.root, embeddingsDir, fmt.Sprintf("%s_%s.vec", modality, identity))
}

func (s *FileStore) metadataPath(identity domain.Identity) string {
	return filepath.Join(s.root, enrolledDir, identity.String()+".json")
}

func writeVectorFile(path string, vector []float64) error {
	buf := make([]byte, 4+8*len(vector))
	binary.LittleEndian.PutUint32(buf, uint32(len(vector)))
	for i, v := range vector {
		binary.LittleEndian.PutUint64(buf[4+8*i:], math.Float64bits(v))
	}
	return atomicWrite(path, buf)
}

func readVectorFile(path string) ([]float64, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotEnrolled
	}
	if err != nil {
		return nil, err
	}
	if len(raw) < 4 {
		return nil, sentinel.ErrCorrupted
	}
	count := binary.LittleEndian.Uint32(raw)
	if len(raw) != 4+8*int(count) {
		return nil, sentinel.ErrCorrupted
	}
	vector := make([]float64, count)
	for i := range vector {
		vector[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[4+8*i:]))
	}
	return vector, nil
}

func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
