package project

import (
	"bytes"

	"github.com/BurntSushi/toml"
	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the effective configuration together with the tool
// version. Cached reviews are only valid for an identical fingerprint.
func (c Config) Fingerprint(toolVersion string) (uint64, error) {
	var buf bytes.Buffer
	buf.WriteString(toolVersion)
	buf.WriteByte(0)
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return 0, err
	}
	return xxhash.Sum64(buf.Bytes()), nil
}
