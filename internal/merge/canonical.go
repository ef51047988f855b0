package merge

import "github.com/1homsi/depscope/internal/pathutil"

// canonicalKey is the merge-time lookup key for any node/edge-endpoint/
// finding-location id (spec §4.6). It is never shown to the user; the
// first-seen original id string is preserved on the node for display.
func canonicalKey(id string) string {
	return pathutil.Canonicalize(id)
}
