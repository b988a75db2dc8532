package search

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strconv"
	"strings"

	"github.com/jonwraymond/navrank/entry"
)

// computeFingerprint generates a stable hash of the entry slice. It changes
// whenever an indexed field, a tree ref or the entry order changes, so the
// BM25 index is rebuilt only when needed.
func computeFingerprint(entries []entry.Entry) string {
	h := sha256.New()

	for _, e := range entries {
		h.Write([]byte(strconv.Itoa(e.ID)))
		h.Write([]byte{0})
		h.Write([]byte(e.Label))
		h.Write([]byte{0})
		h.Write([]byte(e.Description))
		h.Write([]byte{0})
		h.Write([]byte(e.Detail))
		h.Write([]byte{0})
		h.Write([]byte(e.Target))
		h.Write([]byte{0})
		h.Write([]byte(e.Kind))
		h.Write([]byte{0})
		h.Write([]byte(e.Category))
		h.Write([]byte{0})
		h.Write([]byte(e.Ref.String()))
		h.Write([]byte{0})

		// Tags are matched as a bag of words, so order does not matter.
		sortedTags := slices.Clone(e.Tags)
		slices.Sort(sortedTags)
		h.Write([]byte(strings.Join(sortedTags, "\x01")))
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}
