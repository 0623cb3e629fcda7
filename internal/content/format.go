package content

import (
	"fmt"
	"net/url"
	"strings"
)

// FormatDuration renders minutes in Thai hours and minutes, e.g. 65 -> "1 ชม. 5 นาที".
// Negative input is treated as zero.
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%d นาที", m)
	case m == 0:
		return fmt.Sprintf("%d ชม.", h)
	default:
		return fmt.Sprintf("%d ชม. %d นาที", h, m)
	}
}

// ValidateSlug cleans a slug taken from a URL path. Empty, blank or undecodable
// input is ErrNotFound.
func ValidateSlug(raw string) (string, error) {
	slug, err := url.PathUnescape(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrNotFound
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", ErrNotFound
	}
	return slug, nil
}
