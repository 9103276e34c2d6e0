// Package dedup decides which classified entries have not been seen before.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"DocketWatch/internal/domain"
)

const dateLayout = "2006-01-02"

// Key is the stable identity of an entry across runs: docket, action type and
// date when a docket is known, otherwise a digest of the normalized text.
func Key(e domain.Entry) string {
	if e.HasDocket() {
		return e.Docket + "|" + e.ActionType + "|" + e.Date.Format(dateLayout)
	}
	normalized := strings.Join(strings.Fields(norm.NFKC.String(e.Text)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return "sha256:" + hex.EncodeToString(sum[:])
}

// FilterNew returns the entries whose keys are absent from seen, in input
// order, together with the snapshot extended by those keys. A key repeated
// within entries is kept once, at its first occurrence. seen is not modified.
func FilterNew(entries []domain.ClassifiedEntry, seen SeenSet, now time.Time) ([]domain.ClassifiedEntry, SeenSet) {
	next := seen.clone()
	fresh := make([]domain.ClassifiedEntry, 0, len(entries))

	for _, e := range entries {
		key := Key(e.Entry)
		if next.Has(key) {
			continue
		}
		next.put(Mark{Key: key, FirstSeen: now.UTC()})
		fresh = append(fresh, e)
	}
	return fresh, next
}
