package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data    any   `json:"data"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: string(domainerrors.CodeValidation)})
}

// respondNotFound sends a 404 Not Found response with the given message.
func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: message, Code: string(domainerrors.CodeNotFound)})
}

// respondError maps a service error to its HTTP status.
// Causes of storage and internal failures are logged but not exposed to the client.
func respondError(c *gin.Context, err error, context string) {
	var domainErr *domainerrors.Error
	if !domainerrors.As(err, &domainErr) {
		log.Printf("Internal error (%s): %v", context, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "internal server error",
			Code:  string(domainerrors.CodeInternal),
		})
		return
	}

	status := domainErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Printf("Request failed (%s): %v", context, err)
	}

	c.JSON(status, ErrorResponse{
		Error:   domainErr.Message,
		Code:    string(domainErr.Code),
		Details: domainErr.Details,
	})
}

// --- Parameter Parsing ---

// parsePagination reads limit and offset query parameters.
// Missing values fall back to defaults; malformed values respond with 400.
func parsePagination(c *gin.Context) (limit, offset int, ok bool) {
	limit = defaultPageLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondBadRequest(c, "invalid limit")
			return 0, 0, false
		}
		limit = min(parsed, maxPageLimit)
	}

	if raw := c.Query("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondBadRequest(c, "invalid offset")
			return 0, 0, false
		}
		offset = parsed
	}

	return limit, offset, true
}

func newPaginatedResponse(data any, total int64, limit, offset int) PaginatedResponse {
	return PaginatedResponse{
		Data:    data,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+limit) < total,
	}
}
