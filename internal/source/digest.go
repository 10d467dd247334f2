package source

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"os"
)

// digester hashes everything written to it and counts the bytes.
type digester struct {
	h hash.Hash
	n int64
}

func newDigester() *digester {
	return &digester{h: sha256.New()}
}

func (d *digester) Write(p []byte) (int, error) {
	d.n += int64(len(p))
	return d.h.Write(p)
}

func (d *digester) sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}

// PrefixDigest returns the SHA-256 of the first n bytes of path, in the form
// ParseFile reports. It fails if the file is shorter than n.
func PrefixDigest(path string, n int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	d := newDigester()
	if _, err := io.CopyN(d, f, n); err != nil {
		return "", err
	}
	return d.sum(), nil
}
