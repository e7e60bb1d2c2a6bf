package model

import (
	"time"

	"github.com/uptrace/bun"
)

// Post is a dashboard post. AuthorID is set once at creation and every
// repository operation is scoped by it; UpdatedAt is refreshed on every
// successful mutation.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p" json:"-"`

	ID        string    `bun:"id,pk" json:"id"`
	Title     string    `bun:"title,notnull" json:"title"`
	Content   string    `bun:"content,notnull" json:"content"`
	AuthorID  string    `bun:"author_id,notnull" json:"authorId"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}
