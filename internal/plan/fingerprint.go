package plan

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Fingerprint computes a content-derived identifier of an action list.
//
// The fingerprint changes iff the sequence of (kind, from, to, target, app)
// tuples changes. Risk and Reason are deliberately excluded: the gate's
// annotations must not invalidate the preview they belong to. Fields are
// length-prefixed so concatenation cannot be ambiguous.
func Fingerprint(actions []Action) string {
	h := sha256.New()

	writeField := func(s string) {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.Write([]byte(s))
	}

	var count [8]byte
	binary.BigEndian.PutUint64(count[:], uint64(len(actions)))
	h.Write(count[:])

	for _, a := range actions {
		writeField(string(a.Kind))
		writeField(a.From)
		writeField(a.To)
		writeField(a.Target)
		writeField(a.App)
	}

	return hex.EncodeToString(h.Sum(nil))
}
