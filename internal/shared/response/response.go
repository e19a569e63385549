package response

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
)

type PaginationMeta struct {
	Total      int64 `json:"total,omitempty"`
	TotalPages int   `json:"totalPages,omitempty"`
	Page       int   `json:"page,omitempty"`
	PageSize   int   `json:"pageSize,omitempty"`
}

func NewPaginationMeta(total int64, page, limit int) PaginationMeta {
	totalPages := 0
	if limit > 0 {
		// round up: (total + limit - 1) / limit
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return PaginationMeta{
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   limit,
	}
}

// Paginate slices an already filtered and sorted list in memory using the
// page and page_size query parameters.
func Paginate[T any](c *gin.Context, items []T) ([]T, *PaginationMeta) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 10)

	total := int64(len(items))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	meta := NewPaginationMeta(total, page, pageSize)
	return items[start:end], &meta
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

type ApiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  any             `json:"data,omitempty"`
	Meta  *PaginationMeta `json:"meta,omitempty"`
	Error any             `json:"error,omitempty"`
}

func Success(c *gin.Context, status int, data interface{}, meta *PaginationMeta) {
	c.JSON(status, ApiEnvelope{
		Ok:    true,
		Data:  data,
		Meta:  meta,
		Error: nil,
	})
}

func Error(c *gin.Context, status int, errorCode string, message string, details interface{}) {
	c.JSON(status, ApiEnvelope{
		Ok:   false,
		Data: nil,
		Meta: nil,
		Error: map[string]interface{}{
			"code":    errorCode,
			"message": message,
			"details": details,
		},
	})
}

// File writes a binary document. Inline documents open in the browser,
// otherwise the client is asked to download them.
func File(c *gin.Context, contentType, filename string, content []byte, inline bool) {
	disposition := "attachment"
	if inline {
		disposition = "inline"
	}
	c.Header("Content-Disposition", contentDisposition(disposition, filename))
	c.Data(http.StatusOK, contentType, content)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// contentDisposition quotes ASCII names and falls back to the RFC 5987
// form otherwise, as gin's FileAttachment does.
func contentDisposition(disposition, filename string) string {
	for _, r := range filename {
		if r > unicode.MaxASCII || r < 0x20 {
			return fmt.Sprintf("%s; filename*=UTF-8''%s", disposition, url.PathEscape(filename))
		}
	}
	return fmt.Sprintf(`%s; filename="%s"`, disposition, quoteEscaper.Replace(filename))
}
