package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNewPagination_Clamps(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        Pagination
	}{
		{"defaults", 0, 0, Pagination{Page: 1, Limit: DefaultPageLimit}},
		{"negative page", -4, 10, Pagination{Page: 1, Limit: 10}},
		{"limit above max", 2, 1000, Pagination{Page: 2, Limit: MaxPageLimit}},
		{"limit at max", 3, MaxPageLimit, Pagination{Page: 3, Limit: MaxPageLimit}},
		{"negative limit", 1, -1, Pagination{Page: 1, Limit: DefaultPageLimit}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewPagination(tt.page, tt.limit); got != tt.want {
				t.Errorf("NewPagination(%d, %d) = %+v, want %+v", tt.page, tt.limit, got, tt.want)
			}
		})
	}
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query string
		want  Pagination
	}{
		{"", Pagination{Page: 1, Limit: DefaultPageLimit}},
		{"?page=3&limit=5", Pagination{Page: 3, Limit: 5}},
		{"?page=2&pageSize=7", Pagination{Page: 2, Limit: 7}},
		{"?page=abc&limit=999", Pagination{Page: 1, Limit: MaxPageLimit}},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/events"+tt.query, nil)
		if got := ParsePagination(c); got != tt.want {
			t.Errorf("ParsePagination(%q) = %+v, want %+v", tt.query, got, tt.want)
		}
	}
}

func TestPageMeta(t *testing.T) {
	p := Pagination{Page: 2, Limit: 10}
	if p.Offset() != 10 {
		t.Errorf("Offset() = %d, want 10", p.Offset())
	}

	tests := []struct {
		total int64
		pages int
	}{
		{0, 0},
		{1, 1},
		{10, 1},
		{11, 2},
		{95, 10},
	}
	for _, tt := range tests {
		meta := NewPageMeta(p, tt.total)
		if meta.TotalPages != tt.pages {
			t.Errorf("total %d: TotalPages = %d, want %d", tt.total, meta.TotalPages, tt.pages)
		}
		if meta.Page != 2 || meta.Limit != 10 || meta.Total != tt.total {
			t.Errorf("unexpected meta %+v", meta)
		}
	}
}
