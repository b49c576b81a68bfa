package naming

import (
	"path/filepath"
	"strings"
)

// SuggestedOutputName derives the output file name for a watermarked clip:
// the original name without its extension, a "_watermarked" suffix, and the
// negotiated container extension.
func SuggestedOutputName(original, container string) string {
	base := filepath.Base(original)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "_watermarked." + container
}
