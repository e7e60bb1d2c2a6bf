// Package repository implements owner-scoped storage access for posts.
// Every method takes the owner identity explicitly; there is no way to read
// or mutate another account's rows through this interface, and "absent" is
// indistinguishable from "not yours".
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/Abhijit47/blog-api/internal/apperr"
	"github.com/Abhijit47/blog-api/internal/model"
)

// ListQuery selects a page of the owner's posts. Q is matched
// case-insensitively as a substring of the title; bounds are validated at
// the transport edge, not here.
type ListQuery struct {
	Page     int
	PageSize int
	Q        string
}

// PostPatch is a partial update; nil fields are left untouched.
type PostPatch struct {
	Title   *string
	Content *string
}

// PostRepository is the storage contract the service and the cache decorator
// share.
type PostRepository interface {
	List(ctx context.Context, ownerID string, q ListQuery) ([]model.Post, int, error)
	GetByID(ctx context.Context, ownerID, id string) (model.Post, error)
	Create(ctx context.Context, post model.Post) (model.Post, error)
	Update(ctx context.Context, ownerID, id string, patch PostPatch) error
	Delete(ctx context.Context, ownerID, id string) error
}

// BunPostRepository is the bun-backed implementation. It works unchanged on
// sqlite and postgres; the lower(...) LIKE filter keeps the title match
// case-insensitive on both.
type BunPostRepository struct {
	db *bun.DB
}

var _ PostRepository = (*BunPostRepository)(nil)

func NewBunPostRepository(db *bun.DB) *BunPostRepository {
	return &BunPostRepository{db: db}
}

// List returns one page of the owner's posts, newest created first, plus the
// total count of matches. Items and count come from the same query builder
// in a single round, so the pair stays mutually consistent. A page past the
// end yields an empty slice and the true count, not an error.
func (r *BunPostRepository) List(ctx context.Context, ownerID string, q ListQuery) ([]model.Post, int, error) {
	posts := make([]model.Post, 0, q.PageSize)

	total, err := r.db.NewSelect().
		Model(&posts).
		Where("author_id = ?", ownerID).
		Where("lower(title) LIKE lower(?)", "%"+q.Q+"%").
		OrderExpr("created_at DESC").
		Limit(q.PageSize).
		Offset((q.Page - 1) * q.PageSize).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.CodeStorage, "list posts", err)
	}
	return posts, total, nil
}

// GetByID fetches a single post scoped by (id, owner).
func (r *BunPostRepository) GetByID(ctx context.Context, ownerID, id string) (model.Post, error) {
	var post model.Post

	err := r.db.NewSelect().
		Model(&post).
		Where("id = ?", id).
		Where("author_id = ?", ownerID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, apperr.Newf(apperr.CodeNotFound, "post with id %s not found", id)
	}
	if err != nil {
		return model.Post{}, apperr.Wrap(apperr.CodeStorage, "get post", err)
	}
	return post, nil
}

// Create inserts the post as given; id and timestamps are the caller's
// responsibility.
func (r *BunPostRepository) Create(ctx context.Context, post model.Post) (model.Post, error) {
	if _, err := r.db.NewInsert().Model(&post).Exec(ctx); err != nil {
		return model.Post{}, apperr.Wrap(apperr.CodeStorage, "create post", err)
	}
	return post, nil
}

// Update applies the non-nil patch fields and refreshes updated_at, scoped
// by (id, owner). Zero rows affected is reported as not found rather than
// silent success.
func (r *BunPostRepository) Update(ctx context.Context, ownerID, id string, patch PostPatch) error {
	upd := r.db.NewUpdate().
		Model((*model.Post)(nil)).
		Set("updated_at = ?", time.Now().UTC())
	if patch.Title != nil {
		upd = upd.Set("title = ?", *patch.Title)
	}
	if patch.Content != nil {
		upd = upd.Set("content = ?", *patch.Content)
	}

	res, err := upd.
		Where("id = ?", id).
		Where("author_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return apperr.Wrap(apperr.CodeStorage, "update post", err)
	}
	return checkAffected(res, id)
}

// Delete removes the post scoped by (id, owner). Hard delete, no tombstone.
func (r *BunPostRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.NewDelete().
		Model((*model.Post)(nil)).
		Where("id = ?", id).
		Where("author_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return apperr.Wrap(apperr.CodeStorage, "delete post", err)
	}
	return checkAffected(res, id)
}

func checkAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Wrap(apperr.CodeStorage, "rows affected", err)
	}
	if n == 0 {
		return apperr.Newf(apperr.CodeNotFound, "post with id %s not found", id)
	}
	return nil
}
