package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page selects a window of a list; pages are 1-based.
type Page struct {
	Page     int
	PageSize int
}

func (p Page) normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Result is one page of rows plus the size of the whole filtered set.
type Result[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	TotalItems int64
}

// TotalPages is the number of pages needed for TotalItems.
func (r Result[T]) TotalPages() int {
	if r.TotalItems == 0 {
		return 0
	}
	return int((r.TotalItems + int64(r.PageSize) - 1) / int64(r.PageSize))
}

// list runs a filtered, id-ordered, paginated query over T's table.
func list[T any](ctx context.Context, s *Store, table string, page Page, filter func(*gorm.DB) *gorm.DB) (Result[T], error) {
	start := time.Now()
	page = page.normalize()
	out := Result[T]{Page: page.Page, PageSize: page.PageSize, Items: []T{}}

	q := s.db.WithContext(ctx).Model(new(T))
	if filter != nil {
		q = filter(q)
	}
	q = q.Session(&gorm.Session{})

	err := q.Count(&out.TotalItems).Error
	if err == nil {
		err = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).
			Limit(page.PageSize).
			Offset((page.Page - 1) * page.PageSize).
			Find(&out.Items).Error
	}
	if err != nil {
		err = fmt.Errorf("list %s: %w", table, err)
	}
	s.observe(table, "list", start, err)
	return out, err
}

func eq(column string, value any) clause.Expression {
	return clause.Eq{Column: clause.Column{Name: column}, Value: value}
}

// where adds column = value when set is true.
func where(q *gorm.DB, set bool, column string, value any) *gorm.DB {
	if !set {
		return q
	}
	return q.Where(eq(column, value))
}
