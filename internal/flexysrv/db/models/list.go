package models

import "strconv"

// ListOptions selects one page of a listing. PageToken is the stringified
// offset handed back by a previous page; "" starts from the beginning.
type ListOptions struct {
	PageSize  int
	PageToken string
}

// Offset decodes the page token. Empty or malformed tokens start at zero.
func (o ListOptions) Offset() int {
	if o.PageToken == "" {
		return 0
	}
	n, err := strconv.Atoi(o.PageToken)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Limit returns the effective page size.
func (o ListOptions) Limit() int {
	if o.PageSize <= 0 {
		return 50
	}
	return o.PageSize
}

// ListResult describes the page that was returned. NextPageToken is ""
// once the listing is exhausted.
type ListResult struct {
	NextPageToken string `json:"next_page_token"`
	TotalCount    int    `json:"total_count"`
}

// PageResult computes the result envelope for a page of n items starting
// at the options' offset against a total of totalCount rows.
func PageResult(opts ListOptions, n, totalCount int) ListResult {
	next := ""
	if opts.Offset()+n < totalCount {
		next = strconv.Itoa(opts.Offset() + n)
	}
	return ListResult{
		NextPageToken: next,
		TotalCount:    totalCount,
	}
}
