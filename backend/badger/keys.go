package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/relevance/core"
)

// Key prefixes for different data types
const (
	documentPrefix = "doc"
	statsPrefix    = "docstat"
)

// makeDocumentKey generates a key for a document by kind and ID.
// The ID is written in BigEndian order so prefix iteration visits
// documents in ascending ID order.
func makeDocumentKey(kind core.EntityKind, id core.ID) []byte {
	prefixBytes := makeDocumentPrefix(kind)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeDocumentPrefix generates the iteration prefix for one entity kind.
func makeDocumentPrefix(kind core.EntityKind) []byte {
	return []byte(fmt.Sprintf("%s:%s:", documentPrefix, kind))
}

// makeStatsKey generates the key holding corpus statistics for one kind.
func makeStatsKey(kind core.EntityKind) []byte {
	return []byte(fmt.Sprintf("%s:%s", statsPrefix, kind))
}
