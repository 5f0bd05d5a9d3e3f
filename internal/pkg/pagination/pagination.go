package pagination

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	maxPageSize     = 100
)

type Params struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// FromQuery reads page/pageSize/sortBy/sortOrder from the request query.
// Unknown sort fields fall back to defaultSort so user input never reaches
// the ORDER BY clause unchecked.
func FromQuery(c *gin.Context, validSortFields []string, defaultSort string) Params {
	p := Params{
		Page:      intQuery(c, "page", DefaultPage),
		PageSize:  intQuery(c, "pageSize", DefaultPageSize),
		SortBy:    defaultSort,
		SortOrder: "desc",
	}
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 || p.PageSize > maxPageSize {
		p.PageSize = DefaultPageSize
	}

	if sortBy := c.Query("sortBy"); sortBy != "" {
		for _, f := range validSortFields {
			if f == sortBy {
				p.SortBy = sortBy
				break
			}
		}
	}
	if order := strings.ToLower(c.Query("sortOrder")); order == "asc" || order == "desc" {
		p.SortOrder = order
	}
	return p
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func (p Params) Order() string {
	return p.SortBy + " " + strings.ToUpper(p.SortOrder)
}

func NewMeta(total int64, p Params) Meta {
	totalPages := int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	return Meta{
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: totalPages,
	}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
