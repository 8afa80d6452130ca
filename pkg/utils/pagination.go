package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Pagination is a clamped page request.
type Pagination struct {
	Page  int
	Limit int
}

type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPagination clamps page and limit into range instead of rejecting them.
func NewPagination(page, limit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Pagination{Page: page, Limit: limit}
}

// ParsePagination reads ?page= and ?limit= (pageSize is accepted as an alias).
func ParsePagination(c *gin.Context) Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	limitStr := c.Query("limit")
	if limitStr == "" {
		limitStr = c.Query("pageSize")
	}
	limit, _ := strconv.Atoi(limitStr)

	return NewPagination(page, limit)
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

func NewPageMeta(p Pagination, total int64) PageMeta {
	pages := 0
	if total > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return PageMeta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: pages,
	}
}
