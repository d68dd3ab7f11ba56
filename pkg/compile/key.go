package compile

import (
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/vireodb/vireo/pkg/expr"
)

// cacheKey identifies one compiled row artifact. Identity is structural
// over the filter and the ordered projections, and Go equality over the
// discriminator: two keys are equal iff all three parts are equal.
type cacheKey struct {
	sig  string
	disc any
}

// newCacheKey builds a key from the canonical encodings of the filter and
// projections. Canonical encodings are injective, so structurally distinct
// expression sets never produce the same sig.
func newCacheKey(filter expr.Expression, projections []expr.Expression, discriminator any) cacheKey {
	var sb strings.Builder
	sb.WriteString("filter=")
	sb.WriteString(expr.Canonical(filter))
	sb.WriteString(";projections=")
	for i, p := range projections {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(expr.Canonical(p))
	}
	return cacheKey{sig: sb.String(), disc: discriminator}
}

// fingerprint returns a stable hash of the structural part of the key, for
// logging. It is not an identity: equality is defined by the key itself.
func (k cacheKey) fingerprint() uint64 {
	return xxhash.Sum64String(k.sig)
}
