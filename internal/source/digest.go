package source

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// ContentHash computes the xxHash64 of data and returns a hex string
// truncated to hexLen characters. It identifies the exact source bytes a
// perceptual hash was computed from; it says nothing about similarity.
func ContentHash(data []byte, hexLen int) string {
	return truncHex(xxhash.Sum64(data), hexLen)
}

func truncHex(v uint64, hexLen int) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	full := hex.EncodeToString(b[:])
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
