package domain

import (
	"strings"

	m "jetdeps.dev/pkg/jetdeps/internal/model"
)

// SweepUnused lists the directive lines of cached files that no diagnostic
// consumed. Only lines that also mention vendorMarker are reported.
func SweepUnused(cache *LineCache, marker string, vendorMarker string) []m.UnusedDirective {
	if marker == "" {
		return nil
	}

	var unused []m.UnusedDirective

	for _, path := range cache.Paths() {
		for index, text := range cache.Unused(path) {
			if strings.Contains(text, marker) && strings.Contains(text, vendorMarker) {
				unused = append(unused, m.UnusedDirective{Path: path, Line: index + 1})
			}
		}
	}

	return unused
}
