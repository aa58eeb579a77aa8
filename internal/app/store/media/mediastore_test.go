package mediastore

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/reelsite/internal/domain/models"
	"github.com/dalemusser/reelsite/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestStore_Create_NormalizesDriveURL(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, models.MediaPortfolio)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	item, err := store.Create(ctx, CreateInput{
		Title:    "Neon City",
		Category: "Cinematic",
		VideoURL: "https://drive.google.com/file/d/ABC123/view?usp=sharing",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.VideoURL != "https://drive.google.com/file/d/ABC123/preview" {
		t.Errorf("stored VideoURL = %q", got.VideoURL)
	}
	if !got.Published {
		t.Error("Published should default to true")
	}
}

func TestStore_Create_UnpublishedStaysHidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, models.MediaVideos)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store.Create(ctx, CreateInput{Title: "Live", Category: "Reels", VideoURL: "https://youtu.be/a"})
	time.Sleep(5 * time.Millisecond)
	store.Create(ctx, CreateInput{Title: "Draft", Category: "Reels", VideoURL: "https://youtu.be/b", Published: boolPtr(false)})

	pub, err := store.ListPublished(ctx, 0)
	if err != nil {
		t.Fatalf("ListPublished() error = %v", err)
	}
	if len(pub) != 1 || pub[0].Title != "Live" {
		t.Errorf("ListPublished() = %+v, want only Live", pub)
	}

	all, err := store.ListAll(ctx, 0)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != 2 || all[0].Title != "Draft" {
		t.Errorf("ListAll() should return both, newest first")
	}
}

func TestStore_ListLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, models.MediaPortfolio)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	titles := []string{"One", "Two", "Three", "Four", "Five"}
	for i, title := range titles {
		_, err := store.Create(ctx, CreateInput{
			Title:     title,
			Category:  "Cinematic",
			VideoURL:  "https://youtu.be/x",
			Published: boolPtr(i != 3),
		})
		if err != nil {
			t.Fatalf("Create(%s) error = %v", title, err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	tests := []struct {
		name string
		list func() ([]models.MediaItem, error)
		want []string
	}{
		{"published capped", func() ([]models.MediaItem, error) { return store.ListPublished(ctx, 2) }, []string{"Five", "Three"}},
		{"all capped", func() ([]models.MediaItem, error) { return store.ListAll(ctx, 3) }, []string{"Five", "Four", "Three"}},
		{"zero uses default", func() ([]models.MediaItem, error) { return store.ListAll(ctx, 0) }, []string{"Five", "Four", "Three", "Two", "One"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := tt.list()
			if err != nil {
				t.Fatalf("list error = %v", err)
			}
			if len(items) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(items), len(tt.want))
			}
			for i, want := range tt.want {
				if items[i].Title != want {
					t.Errorf("items[%d].Title = %q, want %q", i, items[i].Title, want)
				}
			}
		})
	}
}

func TestStore_CollectionsAreSeparate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	portfolio := New(db, models.MediaPortfolio)
	videos := New(db, models.MediaVideos)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	item, _ := portfolio.Create(ctx, CreateInput{Title: "P", Category: "Cinematic", VideoURL: "https://youtu.be/p"})

	if _, err := videos.GetByID(ctx, item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("videos.GetByID(portfolio id) error = %v, want ErrNotFound", err)
	}
	n, _ := db.Collection("portfolio").CountDocuments(ctx, bson.M{})
	if n != 1 {
		t.Errorf("portfolio count = %d, want 1", n)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, models.MediaPortfolio)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	item, _ := store.Create(ctx, CreateInput{
		Title:     "Before",
		Category:  "Cinematic",
		VideoURL:  "https://youtu.be/x",
		Published: boolPtr(false),
	})

	updated, err := store.Update(ctx, item.ID, UpdateInput{
		Title:    strPtr(" After "),
		VideoURL: strPtr("https://drive.google.com/open?id=NEW1"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "After" {
		t.Errorf("Title = %q, want After", updated.Title)
	}
	if updated.VideoURL != "https://drive.google.com/file/d/NEW1/preview" {
		t.Errorf("VideoURL = %q, want normalized", updated.VideoURL)
	}
	if updated.Published {
		t.Error("Published should keep stored value when omitted")
	}
	if updated.Category != "Cinematic" {
		t.Errorf("Category = %q, want unchanged", updated.Category)
	}

	updated, _ = store.Update(ctx, item.ID, UpdateInput{Published: boolPtr(true)})
	if !updated.Published {
		t.Error("Published should be set when provided")
	}

	if _, err := store.Update(ctx, primitive.NewObjectID(), UpdateInput{Title: strPtr("x")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, models.MediaVideos)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	item, _ := store.Create(ctx, CreateInput{Title: "T", Category: "Reels", VideoURL: "https://youtu.be/t"})
	if err := store.Delete(ctx, item.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestStore_Renormalize(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, models.MediaPortfolio)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Simulate a legacy record written without normalization.
	legacyID := primitive.NewObjectID()
	_, err := db.Collection("portfolio").InsertOne(ctx, bson.M{
		"_id":        legacyID,
		"title":      "Legacy",
		"category":   "Cinematic",
		"video_url":  "https://drive.google.com/file/d/OLD9/view",
		"published":  true,
		"created_at": time.Now(),
		"updated_at": time.Now(),
	})
	if err != nil {
		t.Fatalf("insert legacy: %v", err)
	}
	store.Create(ctx, CreateInput{Title: "Fresh", Category: "Cinematic", VideoURL: "https://youtu.be/f"})

	n, err := store.Renormalize(ctx)
	if err != nil {
		t.Fatalf("Renormalize() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Renormalize() changed %d, want 1", n)
	}
	got, _ := store.GetByID(ctx, legacyID)
	if got.VideoURL != "https://drive.google.com/file/d/OLD9/preview" {
		t.Errorf("VideoURL = %q", got.VideoURL)
	}
}

func TestStore_SearchAndCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, models.MediaVideos)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store.Create(ctx, CreateInput{Title: "Beach Wedding Highlights", Category: "Wedding", VideoURL: "https://youtu.be/a"})
	store.Create(ctx, CreateInput{Title: "Gym Promo", Category: "Reels", Description: "wedding season special", VideoURL: "https://youtu.be/b"})
	store.Create(ctx, CreateInput{Title: "Draft", Category: "Reels", VideoURL: "https://youtu.be/c", Published: boolPtr(false)})

	got, err := store.Search(ctx, "wedding", 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Search(wedding) returned %d items, want 2", len(got))
	}

	all, err := store.Search(ctx, "  ", 0)
	if err != nil || len(all) != 3 {
		t.Errorf("Search(blank) = %d items, %v; want 3", len(all), err)
	}

	total, published, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts() error = %v", err)
	}
	if total != 3 || published != 2 {
		t.Errorf("Counts() = %d, %d; want 3, 2", total, published)
	}
}
