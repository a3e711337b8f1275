package enums

import "strings"

// SortKey orders gallery listings. Both keys sort descending; ties are broken
// by created_at and then id so pagination stays stable across pages.
type SortKey string

const (
	SortRecency   SortKey = "recency"
	SortLikeCount SortKey = "like_count"
)

func ParseSortKey(raw string) (SortKey, bool) {
	switch SortKey(strings.ToLower(strings.TrimSpace(raw))) {
	case SortRecency:
		return SortRecency, true
	case SortLikeCount:
		return SortLikeCount, true
	}
	return "", false
}
