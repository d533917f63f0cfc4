package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnihub/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1

	DirectoryPageSize = 20
)

// CalculateOffsetLimit calculates the offset and limit for SQL queries based on 1-based page index.
func CalculateOffsetLimit(page, size int) (offset uint64, limit uint64) {
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}
	// pages past the largest representable offset read as that offset, which is empty
	if page-1 > math.MaxInt/size {
		page = math.MaxInt/size + 1
	}
	return uint64(page-1) * uint64(size), uint64(size)
}

// NewPaginationInfo creates a standard PaginationInfo DTO.
// page should be the 1-based page number.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	totalPages := 0
	if totalItems > 0 {
		totalPages = int((totalItems + int64(size) - 1) / int64(size))
	}

	info := dto.PaginationInfo{
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
		HasPrev:     page > 1,
		HasNext:     page < totalPages,
	}
	if info.HasPrev {
		info.PrevPage = page - 1
	}
	if info.HasNext {
		info.NextPage = page + 1
	}
	return info
}

// ParsePaginationParams extracts and validates pagination parameters from the request
func ParsePaginationParams(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(DefaultPageSize)))
	if err != nil || size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}

	return page, size
}

// ParseIDParam reads a positive integer path parameter
func ParseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
