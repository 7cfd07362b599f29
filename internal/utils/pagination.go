package utils

// Pagination bounds for the catalog listing.
const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// Pagination is the derived paging state for one result page. It is computed
// from the count query and never persisted.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	TotalCount  int64 `json:"total_count"`
	TotalPages  int   `json:"total_pages"`
	StartIndex  int64 `json:"start_index"`
	EndIndex    int64 `json:"end_index"`
}

// NewPagination derives the full paging state. TotalPages is
// ceil(totalCount/pageSize); Start/EndIndex are the 1-based positions shown
// as "Showing X-Y of Z results", both 0 when the result set is empty.
func NewPagination(currentPage, pageSize int, totalCount int64) Pagination {
	if currentPage < 1 {
		currentPage = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	totalPages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))

	start := int64(currentPage-1)*int64(pageSize) + 1
	end := int64(currentPage) * int64(pageSize)
	if end > totalCount {
		end = totalCount
	}
	if start > totalCount {
		start = totalCount
	}
	if totalCount == 0 {
		start, end = 0, 0
	}

	return Pagination{
		CurrentPage: currentPage,
		PageSize:    pageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
		StartIndex:  start,
		EndIndex:    end,
	}
}

// Offset is the row offset for the page's repository query.
func (p Pagination) Offset() int {
	return (p.CurrentPage - 1) * p.PageSize
}
