// Package posts holds the procedure semantics: pagination metadata, the
// placeholder-content create, partial updates, and mutation events. The
// transport layer stays thin and the repository stays dumb; the behavior
// lives here.
package posts

import (
	"context"
	"math"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/Abhijit47/blog-api/internal/logger"
	"github.com/Abhijit47/blog-api/internal/model"
	"github.com/Abhijit47/blog-api/internal/repository"
)

// Publisher receives mutation-completed events. Implementations must be
// fire-and-forget safe: a publish failure never fails the user's request.
type Publisher interface {
	PostCreated(ctx context.Context, post model.Post) error
	PostUpdated(ctx context.Context, ownerID, id string) error
	PostDeleted(ctx context.Context, ownerID, id string) error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PostCreated(context.Context, model.Post) error { return nil }
func (NoopPublisher) PostUpdated(context.Context, string, string) error { return nil }
func (NoopPublisher) PostDeleted(context.Context, string, string) error { return nil }

// Page is the getAll result shape, mirrored field-for-field from the
// dashboard client contract.
type Page struct {
	Items       []model.Post `json:"items"`
	Page        int          `json:"page"`
	TotalCount  int          `json:"totalCount"`
	TotalPages  int          `json:"totalPages"`
	HasNextPage bool         `json:"hasNextPage"`
	HasPrevPage bool         `json:"hasPrevPage"`
}

// CreateInput carries the optional caller-supplied fields; when both are
// empty the service fabricates placeholder content.
type CreateInput struct {
	Title   string
	Content string
}

// CreateResult is what posts.create returns to the caller.
type CreateResult struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// UpdateInput is a partial update; nil fields are not touched.
type UpdateInput struct {
	PostID  string
	Title   *string
	Content *string
}

// Service implements the posts procedures on top of a (usually cached)
// repository.
type Service struct {
	repo   repository.PostRepository
	events Publisher
	log    *logger.Logger
}

func NewService(repo repository.PostRepository, events Publisher, log *logger.Logger) *Service {
	return &Service{repo: repo, events: events, log: log}
}

// GetAll returns one page of the caller's posts with pagination metadata.
// A page past the end returns empty items and the correct metadata.
func (s *Service) GetAll(ctx context.Context, ownerID string, q repository.ListQuery) (Page, error) {
	items, total, err := s.repo.List(ctx, ownerID, q)
	if err != nil {
		return Page{}, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(q.PageSize)))
	return Page{
		Items:       items,
		Page:        q.Page,
		TotalCount:  total,
		TotalPages:  totalPages,
		HasNextPage: q.Page < totalPages,
		HasPrevPage: q.Page > 1,
	}, nil
}

// GetOne returns the caller's post or NOT_FOUND; a post owned by someone
// else produces the identical error.
func (s *Service) GetOne(ctx context.Context, ownerID, id string) (model.Post, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

// Create inserts a new post owned by the caller. Empty title/content are
// filled with generated placeholders so the dashboard's one-click create
// always produces a presentable post.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (CreateResult, error) {
	title := in.Title
	if title == "" {
		title = gofakeit.BookTitle()
	}
	content := in.Content
	if content == "" {
		content = gofakeit.Paragraph(5, 4, 12, "\n\n")
	}

	now := time.Now().UTC()
	post := model.Post{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		AuthorID:  ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, post)
	if err != nil {
		return CreateResult{}, err
	}

	if err := s.events.PostCreated(ctx, created); err != nil {
		s.log.Error("posts", "failed to publish post.created", err)
	}
	return CreateResult{ID: created.ID, Title: created.Title}, nil
}

// Update applies a partial update scoped to the caller. Zero rows matched
// surfaces as NOT_FOUND instead of silent success.
func (s *Service) Update(ctx context.Context, ownerID string, in UpdateInput) error {
	patch := repository.PostPatch{Title: in.Title, Content: in.Content}
	if err := s.repo.Update(ctx, ownerID, in.PostID, patch); err != nil {
		return err
	}

	if err := s.events.PostUpdated(ctx, ownerID, in.PostID); err != nil {
		s.log.Error("posts", "failed to publish post.updated", err)
	}
	return nil
}

// Remove hard-deletes the caller's post, NOT_FOUND on zero rows matched.
func (s *Service) Remove(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.events.PostDeleted(ctx, ownerID, id); err != nil {
		s.log.Error("posts", "failed to publish post.deleted", err)
	}
	return nil
}
