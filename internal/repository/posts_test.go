package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/Abhijit47/blog-api/internal/apperr"
	"github.com/Abhijit47/blog-api/internal/model"
	"github.com/Abhijit47/blog-api/internal/store"
	"github.com/Abhijit47/blog-api/pkg/testsupport"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := store.Open("sqlite3", "file::memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.NewCreateTable().Model((*model.Post)(nil)).IfNotExists().Exec(context.Background()); err != nil {
		t.Fatalf("failed to create posts table: %v", err)
	}
	return db
}

// seededRepo loads the fixture posts: five for owner-a (created one day
// apart) and one for owner-b.
func seededRepo(t *testing.T) *BunPostRepository {
	t.Helper()

	db := newTestDB(t)
	repo := NewBunPostRepository(db)

	var posts []model.Post
	testsupport.LoadFixtureJSON(t, testsupport.FixturePath("posts.json"), &posts)
	for _, p := range posts {
		if _, err := repo.Create(context.Background(), p); err != nil {
			t.Fatalf("failed to seed post %s: %v", p.ID, err)
		}
	}
	return repo
}

func TestList_OrderAndScope(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	items, total, err := repo.List(ctx, "owner-a", ListQuery{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 5 {
		t.Errorf("expected 5 posts for owner-a, got %d", total)
	}
	for i := 1; i < len(items); i++ {
		if items[i].CreatedAt.After(items[i-1].CreatedAt) {
			t.Errorf("posts not ordered newest first: %v before %v", items[i-1].CreatedAt, items[i].CreatedAt)
		}
	}
	for _, p := range items {
		if p.AuthorID != "owner-a" {
			t.Errorf("list leaked post %s owned by %s", p.ID, p.AuthorID)
		}
	}
}

func TestList_PagesAreDisjointAndOrdered(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	full, _, err := repo.List(ctx, "owner-a", ListQuery{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	page1, _, err := repo.List(ctx, "owner-a", ListQuery{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("List page 1 failed: %v", err)
	}
	page2, _, err := repo.List(ctx, "owner-a", ListQuery{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("List page 2 failed: %v", err)
	}

	combined := append(append([]model.Post{}, page1...), page2...)
	if len(combined) != 4 {
		t.Fatalf("expected 4 posts across two pages, got %d", len(combined))
	}
	for i, p := range combined {
		if p.ID != full[i].ID {
			t.Errorf("page union mismatch at %d: got %s, want %s", i, p.ID, full[i].ID)
		}
	}
}

func TestList_TitleFilterCaseInsensitive(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	items, total, err := repo.List(ctx, "owner-a", ListQuery{Page: 1, PageSize: 10, Q: "wInTeR"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected exactly one match, got total=%d len=%d", total, len(items))
	}
	if items[0].Title != "A Winter Apart" {
		t.Errorf("unexpected match: %q", items[0].Title)
	}
}

func TestList_PageBeyondEnd(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	items, total, err := repo.List(ctx, "owner-a", ListQuery{Page: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty page, got %d items", len(items))
	}
	if items == nil {
		t.Error("expected empty slice, got nil")
	}
	if total != 5 {
		t.Errorf("expected total 5, got %d", total)
	}
}

func TestGetByID_OwnershipIndistinguishableFromAbsence(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	ownedByB := "b2e8d6c3-0001-4a8f-8c4b-666666666666"

	_, errForeign := repo.GetByID(ctx, "owner-a", ownedByB)
	_, errMissing := repo.GetByID(ctx, "owner-a", uuid.NewString())

	if !apperr.IsNotFound(errForeign) {
		t.Errorf("cross-owner get should be NOT_FOUND, got %v", errForeign)
	}
	if !apperr.IsNotFound(errMissing) {
		t.Errorf("missing id should be NOT_FOUND, got %v", errMissing)
	}

	var e1, e2 *apperr.Error
	if errors.As(errForeign, &e1) && errors.As(errMissing, &e2) && e1.Code != e2.Code {
		t.Error("cross-owner and missing must be indistinguishable")
	}
}

func TestCreateThenGet(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	post := model.Post{
		ID:        uuid.NewString(),
		Title:     "Fresh Post",
		Content:   "Body.",
		AuthorID:  "owner-a",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := repo.Create(ctx, post); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "owner-a", post.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Fresh Post" || got.AuthorID != "owner-a" {
		t.Errorf("unexpected post: %+v", got)
	}

	_, total, err := repo.List(ctx, "owner-a", ListQuery{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 6 {
		t.Errorf("expected total to grow to 6, got %d", total)
	}
}

func TestUpdate_PartialAndRefreshesTimestamp(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	id := "a1d9c7b2-0001-4f7e-9b3a-111111111111"
	before, err := repo.GetByID(ctx, "owner-a", id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	title := "Retitled"
	if err := repo.Update(ctx, "owner-a", id, PostPatch{Title: &title}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	after, err := repo.GetByID(ctx, "owner-a", id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if after.Title != "Retitled" {
		t.Errorf("title not updated: %q", after.Title)
	}
	if after.Content != before.Content {
		t.Errorf("content should be untouched: %q vs %q", after.Content, before.Content)
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Errorf("updatedAt should advance: %v -> %v", before.UpdatedAt, after.UpdatedAt)
	}
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Errorf("createdAt must be immutable: %v -> %v", before.CreatedAt, after.CreatedAt)
	}
}

func TestUpdate_WrongOwnerOrMissingIsNotFound(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	title := "Hijacked"
	err := repo.Update(ctx, "owner-a", "b2e8d6c3-0001-4a8f-8c4b-666666666666", PostPatch{Title: &title})
	if !apperr.IsNotFound(err) {
		t.Errorf("cross-owner update should be NOT_FOUND, got %v", err)
	}

	err = repo.Update(ctx, "owner-a", uuid.NewString(), PostPatch{Title: &title})
	if !apperr.IsNotFound(err) {
		t.Errorf("missing-id update should be NOT_FOUND, got %v", err)
	}

	// The foreign post is untouched.
	got, err := repo.GetByID(ctx, "owner-b", "b2e8d6c3-0001-4a8f-8c4b-666666666666")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title == "Hijacked" {
		t.Error("cross-owner update modified a foreign post")
	}
}

func TestDelete_ScopedAndTerminal(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	id := "a1d9c7b2-0002-4f7e-9b3a-222222222222"
	if err := repo.Delete(ctx, "owner-a", id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := repo.GetByID(ctx, "owner-a", id); !apperr.IsNotFound(err) {
		t.Errorf("deleted post should be NOT_FOUND, got %v", err)
	}
	if err := repo.Delete(ctx, "owner-a", id); !apperr.IsNotFound(err) {
		t.Errorf("double delete should be NOT_FOUND, got %v", err)
	}
	if err := repo.Delete(ctx, "owner-a", "b2e8d6c3-0001-4a8f-8c4b-666666666666"); !apperr.IsNotFound(err) {
		t.Errorf("cross-owner delete should be NOT_FOUND, got %v", err)
	}
}
