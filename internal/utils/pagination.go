package utils

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/folder-tasks/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse represents the pagination metadata in responses
type PaginationResponse struct {
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Total      int64  `json:"total"`
	TotalPages int    `json:"total_pages"`
	PrevURL    string `json:"prev_url,omitempty"`
	NextURL    string `json:"next_url,omitempty"`
}

// GetPaginationParams reads ?page= from the request; the page size is fixed by configuration
func GetPaginationParams(c *gin.Context, pageSize int) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPageSize)))

	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if page > constants.MaxPage {
		page = constants.MaxPage
	}
	if pageSize < constants.MinPageSize || pageSize > constants.MaxPageSize {
		pageSize = constants.DefaultPageSize
	}

	return PaginationParams{
		Page:   page,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
}

// NewPaginationResponse builds pagination metadata whose links keep every
// query-string parameter of base except page
func NewPaginationResponse(base *url.URL, params PaginationParams, total int64) PaginationResponse {
	totalPages := int(total) / params.Limit
	if int(total)%params.Limit > 0 {
		totalPages++
	}

	resp := PaginationResponse{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
	}

	if params.Page > 1 {
		resp.PrevURL = PageURL(base, params.Page-1)
	}
	if params.Page < totalPages {
		resp.NextURL = PageURL(base, params.Page+1)
	}

	return resp
}

// PageURL returns base with its page parameter replaced
func PageURL(base *url.URL, page int) string {
	query := base.Query()
	query.Set("page", strconv.Itoa(page))

	u := url.URL{Path: base.Path, RawQuery: query.Encode()}
	return u.String()
}
