package object

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// HashBytes returns the lowercase hex SHA-256 digest of data.
func HashBytes(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// HashObject digests the storage envelope "<type> <len>\x00<content>".
// Including the type and length means two objects share a hash exactly
// when their type and content both match.
func HashObject(objType ObjectType, data []byte) Hash {
	h := sha256.New()
	fmt.Fprintf(h, "%s %d\x00", objType, len(data))
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}
