package dto

import (
	"math"
	"time"
)

// APIResponse is the envelope of every successful JSON response
type APIResponse struct {
	Success   bool        `json:"success" example:"true"`
	Message   string      `json:"message,omitempty" example:"Operation completed successfully"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewSuccessResponse wraps data in a successful APIResponse
func NewSuccessResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// PaginationInfo describes one page of a listing
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage" example:"1"`
	TotalPages  int   `json:"totalPages" example:"3"`
	PageSize    int   `json:"pageSize" example:"10"`
	TotalItems  int64 `json:"totalItems" example:"25"`
	HasPrev     bool  `json:"hasPrev" example:"false"`
	HasNext     bool  `json:"hasNext" example:"true"`
	PrevPage    int   `json:"prevPage,omitempty" example:"0"`
	NextPage    int   `json:"nextPage,omitempty" example:"2"`
}

// PageNumbers returns the page links to render, with 0 marking an elided gap
func (p PaginationInfo) PageNumbers() []int {
	const edge, around = 1, 2
	var pages []int
	last := 0
	for i := 1; i <= p.TotalPages; i++ {
		if i <= edge || i > p.TotalPages-edge || int(math.Abs(float64(i-p.CurrentPage))) <= around {
			if last != 0 && i-last > 1 {
				pages = append(pages, 0)
			}
			pages = append(pages, i)
			last = i
		}
	}
	return pages
}

// PaginatedResponse represents a paginated list with metadata
type PaginatedResponse struct {
	Items      interface{}    `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}

// MessageResponse is returned by endpoints that only report an outcome
type MessageResponse struct {
	Message string `json:"message" example:"Story featured successfully!"`
}
