package previews

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParsePageRange expands a page expression into sorted, unique page numbers.
// Accepted forms: "1", "1-5", "1,3,5", "1-5,10", "-3" (from page 1) and
// "5-" (through maxPage).
func ParsePageRange(expr string, maxPage int) ([]int, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("%w: empty page range", ErrInvalidPageRange)
	}

	seen := make(map[int]bool)

	for part := range strings.SplitSeq(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if strings.Contains(part, "-") {
			start, end, err := parseRange(part, maxPage)
			if err != nil {
				return nil, err
			}
			for i := start; i <= end; i++ {
				seen[i] = true
			}
			continue
		}

		page, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid page %q", ErrInvalidPageRange, part)
		}
		if page < 1 || page > maxPage {
			return nil, fmt.Errorf("%w: page %d outside 1-%d", ErrPageOutOfRange, page, maxPage)
		}
		seen[page] = true
	}

	if len(seen) == 0 {
		return nil, fmt.Errorf("%w: no pages selected", ErrInvalidPageRange)
	}

	pages := make([]int, 0, len(seen))
	for page := range seen {
		pages = append(pages, page)
	}
	sort.Ints(pages)

	return pages, nil
}

func parseRange(part string, maxPage int) (int, int, error) {
	startStr, endStr, _ := strings.Cut(part, "-")
	startStr = strings.TrimSpace(startStr)
	endStr = strings.TrimSpace(endStr)

	start, end := 1, maxPage
	var err error

	if startStr != "" {
		if start, err = strconv.Atoi(startStr); err != nil {
			return 0, 0, fmt.Errorf("%w: invalid start %q", ErrInvalidPageRange, startStr)
		}
	}
	if endStr != "" {
		if end, err = strconv.Atoi(endStr); err != nil {
			return 0, 0, fmt.Errorf("%w: invalid end %q", ErrInvalidPageRange, endStr)
		}
	}

	switch {
	case start < 1:
		return 0, 0, fmt.Errorf("%w: start page must be >= 1", ErrInvalidPageRange)
	case end > maxPage:
		return 0, 0, fmt.Errorf("%w: end page %d exceeds document pages (%d)", ErrPageOutOfRange, end, maxPage)
	case start > end:
		return 0, 0, fmt.Errorf("%w: start > end in %q", ErrInvalidPageRange, part)
	}

	return start, end, nil
}
