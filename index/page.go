package index

import (
	"fmt"
	"strconv"
)

// Paginate slices items into one page starting at cursor. It returns the
// page and the cursor of the following page, or "" when the page is the
// last one. limit <= 0 returns everything from cursor onwards.
func Paginate[T any](items []T, limit int, cursor string) ([]T, string, error) {
	offset, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}
	if offset >= len(items) {
		return []T{}, "", nil
	}
	end := len(items)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	page := items[offset:end]
	if end < len(items) {
		return page, strconv.Itoa(end), nil
	}
	return page, "", nil
}

func decodeCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(cursor)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}
	return n, nil
}
