package driver

import (
	"encoding/binary"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// Key addresses a cached mission result.
type Key uint64

func (k Key) String() string {
	return fmt.Sprintf("%016x", uint64(k))
}

// MissionKey hashes every file under dir together with salt. Files are
// visited in lexical order, so the key only depends on names and contents.
func MissionKey(dir string, salt uint64) (Key, error) {
	h := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], salt)
	_, _ = h.Write(buf[:])

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		_, _ = h.WriteString(filepath.ToSlash(rel))
		binary.LittleEndian.PutUint64(buf[:], uint64(len(content)))
		_, _ = h.Write(buf[:])
		_, _ = h.Write(content)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to hash %s: %w", dir, err)
	}
	return Key(h.Sum64()), nil
}
