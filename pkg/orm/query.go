// Package orm is a thin chainable wrapper over GORM with an optional
// read-through cache. Repositories use it instead of touching *gorm.DB so
// cache wiring and pagination stay in one place.
package orm

import (
	"time"

	"github.com/daliaibrahim58/greenmart/pkg/database"
	"gorm.io/gorm"
)

// Cacher is the read-through cache port. pkg/app wires the Redis cache in at
// boot; leaving it nil simply disables caching.
type Cacher interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{}, ttl time.Duration) error
}

// CacheStore is the cache used by Query.Cache. Nil means no caching.
var CacheStore Cacher

// Pagination describes one page of a paginated listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type Query struct {
	db *gorm.DB
}

// DB starts a query chain on the shared connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// With starts a query chain on an explicit connection (transactions, tests).
func With(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Preload(association string) *Query {
	return &Query{db: q.db.Preload(association)}
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

func (q *Query) Count(n *int64) error {
	return q.db.Count(n).Error
}

func (q *Query) Create(v interface{}) error {
	return q.db.Create(v).Error
}

func (q *Query) Save(v interface{}) error {
	return q.db.Save(v).Error
}

// Updates applies a partial update. values may be a map or struct; map values
// may use gorm.Expr for atomic in-database arithmetic.
func (q *Query) Updates(values interface{}) (int64, error) {
	tx := q.db.Updates(values)
	return tx.RowsAffected, tx.Error
}

func (q *Query) Delete(v interface{}) error {
	return q.db.Delete(v).Error
}

// Unscoped drops the soft-delete clause (hard deletes, trashed lookups).
func (q *Query) Unscoped() *Query {
	return &Query{db: q.db.Unscoped()}
}

// GetWithPagination fills dest with one page of results and reports totals.
func (q *Query) GetWithPagination(dest interface{}, page, limit int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := q.db.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	offset := (page - 1) * limit
	if err := q.db.Offset(offset).Limit(limit).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}, nil
}

// Cache runs Get through CacheStore: on a hit dest is filled from cache, on a
// miss the query runs and the result is stored for ttl.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if CacheStore != nil && CacheStore.Get(key, dest) {
		return nil
	}

	if err := q.db.Find(dest).Error; err != nil {
		return err
	}

	if CacheStore != nil {
		CacheStore.Set(key, dest, ttl) //nolint:errcheck
	}
	return nil
}
