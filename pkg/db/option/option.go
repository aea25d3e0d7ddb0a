// Package option carries composable query options for gorm statements.
package option

import (
	"github.com/smallbiznis/tollgate/pkg/db/pagination"
	"gorm.io/gorm"
)

// QueryOption mutates a gorm statement before execution.
type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type optionFunc func(*gorm.DB) *gorm.DB

func (f optionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

// ApplyPagination applies cursor pagination: rows strictly older than the
// cursor, newest first, limit+1 so callers can detect another page.
func ApplyPagination(page pagination.Pagination) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		pageSize := page.PageSize
		if pageSize <= 0 {
			pageSize = 50
		}
		if page.PageToken != "" {
			cursor, err := pagination.DecodeCursor(page.PageToken)
			if err == nil && cursor != nil && cursor.CreatedAt != "" {
				db = db.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
			}
		}
		return db.Limit(pageSize + 1)
	})
}

// WithSortBy orders results by the newest record first.
func WithSortBy() QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at desc, id desc")
	})
}
