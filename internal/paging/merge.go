package paging

// Item is anything a Collection can hold. Key is the identity used for
// de-duplication; IsMore marks the pagination sentinel.
type Item interface {
	Key() string
	IsMore() bool
}

// Merge reconciles a freshly fetched page against the cached items.
//
// The trailing sentinel of cached is dropped, the page is appended from the
// first item whose key is not cached yet, and a fresh sentinel from more is
// appended when hasNext is set. Pages are assumed to possibly overlap with
// the previously seen page, so only the unseen tail is kept.
func Merge[T Item](cached, page []T, hasNext bool, more func() T) []T {
	out := make([]T, 0, len(cached)+len(page)+1)
	for _, it := range cached {
		if it.IsMore() {
			continue
		}
		out = append(out, it)
	}

	boundary := 0
	if len(out) > 0 {
		seen := make(map[string]struct{}, len(out))
		for _, it := range out {
			seen[it.Key()] = struct{}{}
		}
		boundary = len(page)
		for i, it := range page {
			if _, ok := seen[it.Key()]; !ok {
				boundary = i
				break
			}
		}
	}
	for _, it := range page[boundary:] {
		if it.IsMore() {
			continue
		}
		out = append(out, it)
	}

	if hasNext && more != nil {
		out = append(out, more())
	}
	return out
}

// IsSame reports whether two snapshots look like the same result set: equal
// length, same identity at the first element and at len-2 (the last real
// item before a sentinel).
//
// This is an O(1) approximation, not an equality check. Two collections that
// differ only in a middle element are reported as the same.
func IsSame[T Item](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	if a[0].Key() != b[0].Key() {
		return false
	}
	if n := len(a); n >= 2 && a[n-2].Key() != b[n-2].Key() {
		return false
	}
	return true
}
