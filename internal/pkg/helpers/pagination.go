package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
	DefaultPage     = 0 // Feed pages are 0-based
)

// CalculateOffsetLimit calculates the offset and limit for SQL queries
// based on a 0-based page index.
func CalculateOffsetLimit(page, size int) (offset uint64, limit int) {
	if size <= 0 || size > MaxPageSize {
		limit = DefaultPageSize
	} else {
		limit = size
	}

	if page < 0 {
		page = DefaultPage
	}

	offset = uint64(page * limit)
	return offset, limit
}

// ParsePaginationParams extracts and validates pagination parameters from the request.
func ParsePaginationParams(c *gin.Context) (page, size int) {
	pageStr := c.DefaultQuery("page", "0")
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 0 {
		page = DefaultPage
	}

	sizeStr := c.DefaultQuery("size", strconv.Itoa(DefaultPageSize))
	size, err = strconv.Atoi(sizeStr)
	if err != nil || size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}

	return page, size
}

// HasMore infers whether another page exists from the size of the page just
// returned. A short page is the sole end-of-list signal; no count query is made.
func HasMore(returned, pageSize int) bool {
	return returned == pageSize
}
