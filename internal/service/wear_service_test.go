package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/acadwear/faculty-wear-api/internal/imagestore"
	"github.com/acadwear/faculty-wear-api/internal/model"
	"gorm.io/gorm"
)

type fakeRepo struct {
	wears      map[uint64]model.FacultyWear
	nextID     uint64
	creates    int
	updates    int
	deleteRows int64
	forceZero  bool

	lastSearch string
	lastLimit  int
	lastOffset int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{wears: map[uint64]model.FacultyWear{}, nextID: 1}
}

func (f *fakeRepo) List(ctx context.Context, search string, limit, offset int) ([]model.FacultyWear, int64, error) {
	f.lastSearch, f.lastLimit, f.lastOffset = search, limit, offset
	return nil, int64(len(f.wears)), nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uint64) (*model.FacultyWear, error) {
	w, ok := f.wears[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &w, nil
}

func (f *fakeRepo) Create(ctx context.Context, wear *model.FacultyWear) error {
	f.creates++
	wear.ID = f.nextID
	f.nextID++
	f.wears[wear.ID] = *wear
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, wear *model.FacultyWear) error {
	f.updates++
	f.wears[wear.ID] = *wear
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uint64) (int64, error) {
	if f.forceZero {
		return 0, nil
	}
	if _, ok := f.wears[id]; !ok {
		return 0, nil
	}
	delete(f.wears, id)
	return 1, nil
}

type fakeStore struct {
	uploads   []string // filenames
	deletes   []string // urls
	uploadErr error
	deleteErr error
	urlSeq    int
}

func (f *fakeStore) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if !hasImageExt(filename) {
		return "", imagestore.ErrUnsupportedType
	}
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads = append(f.uploads, filename)
	f.urlSeq++
	return fmt.Sprintf("https://img.example.com/faculty_wears/u%d.png", f.urlSeq), nil
}

func (f *fakeStore) Delete(ctx context.Context, imageURL string) error {
	f.deletes = append(f.deletes, imageURL)
	return f.deleteErr
}

func hasImageExt(filename string) bool {
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".webp"} {
		if len(filename) > len(ext) && filename[len(filename)-len(ext):] == ext {
			return true
		}
	}
	return false
}

func newTestService(repo *fakeRepo, store *fakeStore, now time.Time) *wearService {
	return &wearService{repo: repo, images: store, now: func() time.Time { return now }}
}

func pngUpload() *ImageUpload {
	return &ImageUpload{Data: []byte("fake png bytes"), Filename: "gown.png"}
}

func TestCreateStoresItemWithImage(t *testing.T) {
	repo := newFakeRepo()
	store := &fakeStore{}
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	svc := newTestService(repo, store, now)

	wear, err := svc.Create(context.Background(), validForm(), pngUpload())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if wear.ID == 0 {
		t.Error("id not assigned")
	}
	if wear.ImageURL == "" {
		t.Error("image url empty")
	}
	if !wear.CreatedAt.Equal(wear.UpdatedAt) {
		t.Errorf("created_at %v != updated_at %v", wear.CreatedAt, wear.UpdatedAt)
	}
	if len(store.uploads) != 1 {
		t.Errorf("uploads=%d", len(store.uploads))
	}
}

func TestCreateValidationFailureTouchesNothing(t *testing.T) {
	repo := newFakeRepo()
	store := &fakeStore{}
	svc := newTestService(repo, store, time.Now())

	form := validForm()
	form.Title = ""
	_, err := svc.Create(context.Background(), form, pngUpload())

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if len(verr.Details) != 1 || verr.Details[0] != "Title is required" {
		t.Errorf("details=%v", verr.Details)
	}
	if repo.creates != 0 || len(store.uploads) != 0 || len(store.deletes) != 0 {
		t.Error("side effects on invalid payload")
	}
}

func TestCreateRequiresImage(t *testing.T) {
	repo := newFakeRepo()
	store := &fakeStore{}
	svc := newTestService(repo, store, time.Now())

	for _, image := range []*ImageUpload{nil, {Filename: "gown.png"}} {
		if _, err := svc.Create(context.Background(), validForm(), image); !errors.Is(err, ErrImageRequired) {
			t.Errorf("image=%v: want ErrImageRequired, got %v", image, err)
		}
	}
	if len(store.uploads) != 0 || repo.creates != 0 {
		t.Error("side effects without an image")
	}
}

func TestCreateRejectsUnsupportedExtension(t *testing.T) {
	repo := newFakeRepo()
	store := &fakeStore{}
	svc := newTestService(repo, store, time.Now())

	_, err := svc.Create(context.Background(), validForm(), &ImageUpload{Data: []byte("x"), Filename: "malware.exe"})
	if !errors.Is(err, ErrImageUpload) {
		t.Fatalf("want ErrImageUpload, got %v", err)
	}
	if repo.creates != 0 {
		t.Error("record created despite failed upload")
	}
}

func TestUpdateWithoutFileKeepsImage(t *testing.T) {
	repo := newFakeRepo()
	store := &fakeStore{}
	created := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	repo.wears[1] = model.FacultyWear{
		ID: 1, Title: "Old Gown", Description: "old", ImageURL: "https://img.example.com/faculty_wears/old.png",
		StandardPrice: 10, DisplayOrder: 2, CreatedAt: created, UpdatedAt: created,
	}
	repo.nextID = 2

	now := created.Add(48 * time.Hour)
	svc := newTestService(repo, store, now)

	form := validForm()
	res, err := svc.Update(context.Background(), 1, form, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if res.Wear.ImageURL != "https://img.example.com/faculty_wears/old.png" {
		t.Errorf("image url changed: %s", res.Wear.ImageURL)
	}
	if len(store.deletes) != 0 || len(store.uploads) != 0 {
		t.Error("image store touched without a new file")
	}
	if res.Wear.Title != form.Title {
		t.Errorf("title not replaced: %q", res.Wear.Title)
	}
	if !res.Wear.CreatedAt.Equal(created) {
		t.Error("created_at mutated")
	}
	if !res.Wear.UpdatedAt.Equal(now) {
		t.Errorf("updated_at=%v want=%v", res.Wear.UpdatedAt, now)
	}
}

func TestUpdateWithFileReplacesAndDeletesOld(t *testing.T) {
	tests := []struct {
		name      string
		deleteErr error
	}{
		{"delete succeeds", nil},
		{"delete fails", errors.New("remote says no")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			store := &fakeStore{deleteErr: tt.deleteErr}
			oldURL := "https://img.example.com/faculty_wears/old.png"
			repo.wears[1] = model.FacultyWear{ID: 1, Title: "x", Description: "y", ImageURL: oldURL, StandardPrice: 1, DisplayOrder: 1}
			repo.nextID = 2
			svc := newTestService(repo, store, time.Now())

			res, err := svc.Update(context.Background(), 1, validForm(), pngUpload())
			if err != nil {
				t.Fatalf("update: %v", err)
			}
			if res.Wear.ImageURL == oldURL || res.Wear.ImageURL == "" {
				t.Errorf("image url not replaced: %s", res.Wear.ImageURL)
			}
			if len(store.deletes) != 1 || store.deletes[0] != oldURL {
				t.Errorf("deletes=%v, want exactly one for old url", store.deletes)
			}
			if (res.CleanupErr != nil) != (tt.deleteErr != nil) {
				t.Errorf("CleanupErr=%v deleteErr=%v", res.CleanupErr, tt.deleteErr)
			}
		})
	}
}

func TestUpdateUploadFailureLeavesEverythingAlone(t *testing.T) {
	repo := newFakeRepo()
	store := &fakeStore{uploadErr: errors.New("remote down")}
	oldURL := "https://img.example.com/faculty_wears/old.png"
	repo.wears[1] = model.FacultyWear{ID: 1, Title: "x", Description: "y", ImageURL: oldURL, StandardPrice: 1, DisplayOrder: 1}
	repo.nextID = 2
	svc := newTestService(repo, store, time.Now())

	_, err := svc.Update(context.Background(), 1, validForm(), pngUpload())
	if !errors.Is(err, ErrImageUpload) {
		t.Fatalf("want ErrImageUpload, got %v", err)
	}
	if len(store.deletes) != 0 {
		t.Error("old image deleted despite failed upload")
	}
	if repo.updates != 0 {
		t.Error("record mutated despite failed upload")
	}
	if repo.wears[1].ImageURL != oldURL {
		t.Error("stored image url changed")
	}
}

func TestUpdateNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeStore{}, time.Now())
	if _, err := svc.Update(context.Background(), 99, validForm(), nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDeleteReleasesImage(t *testing.T) {
	repo := newFakeRepo()
	store := &fakeStore{}
	url := "https://img.example.com/faculty_wears/old.png"
	repo.wears[1] = model.FacultyWear{ID: 1, ImageURL: url}
	repo.nextID = 2
	svc := newTestService(repo, store, time.Now())

	res, err := svc.Delete(context.Background(), 1)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if res.CleanupErr != nil {
		t.Errorf("CleanupErr=%v", res.CleanupErr)
	}
	if len(store.deletes) != 1 || store.deletes[0] != url {
		t.Errorf("deletes=%v", store.deletes)
	}
	if _, ok := repo.wears[1]; ok {
		t.Error("row still present")
	}
}

func TestDeleteNotFoundSkipsImageStore(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(newFakeRepo(), store, time.Now())

	if _, err := svc.Delete(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if len(store.deletes) != 0 {
		t.Error("image delete issued for missing row")
	}
}

func TestDeleteZeroRowsIsDistinctFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.wears[1] = model.FacultyWear{ID: 1, ImageURL: "https://img.example.com/f/x.png"}
	repo.forceZero = true
	svc := newTestService(repo, &fakeStore{}, time.Now())

	_, err := svc.Delete(context.Background(), 1)
	if !errors.Is(err, ErrDeleteFailed) {
		t.Fatalf("want ErrDeleteFailed, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("delete failure must stay distinct from not-found")
	}
}

func TestListDefaultsAndPaging(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", 0, 0, 5, 0},
		{"page two", 2, 5, 5, 5},
		{"custom limit", 3, 10, 10, 20},
		{"limit capped", 1, 1000, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			svc := newTestService(repo, &fakeStore{}, time.Now())
			if _, _, err := svc.List(context.Background(), tt.page, tt.limit, "red"); err != nil {
				t.Fatal(err)
			}
			if repo.lastLimit != tt.wantLimit || repo.lastOffset != tt.wantOffset {
				t.Errorf("limit=%d offset=%d want %d/%d", repo.lastLimit, repo.lastOffset, tt.wantLimit, tt.wantOffset)
			}
			if repo.lastSearch != "red" {
				t.Errorf("search=%q", repo.lastSearch)
			}
		})
	}
}
