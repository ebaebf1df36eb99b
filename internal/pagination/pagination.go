// Package pagination provides limit/offset paging for list endpoints.
package pagination

import "gorm.io/gorm"

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// ListRequest holds paging parameters parsed from query strings.
type ListRequest struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// Normalize fills in the default limit and clamps out-of-range values.
func (r *ListRequest) Normalize() {
	if r.Limit <= 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
}

// ListResponse wraps one page of items with the total number of matching
// rows before paging.
type ListResponse[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
}

// NewListResponse creates a ListResponse, rendering a nil page as [].
func NewListResponse[T any](data []T, total int64) ListResponse[T] {
	if data == nil {
		data = []T{}
	}
	return ListResponse[T]{Data: data, Total: total}
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT for the given request.
func Paginate(req ListRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset).Limit(req.Limit)
	}
}
