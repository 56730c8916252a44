package patch

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffText renders a compact patch-format diff between the original and
// edited document, for display alongside applied edits.
func diffText(before, after string) string {
	dmp := diffmatchpatch.New()
	patches := dmp.PatchMake(before, after)
	return dmp.PatchToText(patches)
}
