package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/acadwear/faculty-wear-api/internal/imagestore"
	"github.com/acadwear/faculty-wear-api/internal/model"
	"github.com/acadwear/faculty-wear-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrImageRequired = errors.New("image is required")
	ErrImageUpload   = errors.New("image upload failed")
	ErrDeleteFailed  = errors.New("delete failed")
)

const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 100
)

// ImageUpload is a submitted image file, already read off the request.
type ImageUpload struct {
	Data     []byte
	Filename string
}

// MutationResult is the outcome of an update or delete. CleanupErr records
// a failed best-effort delete of the released image; it never fails the
// operation, it is carried so callers can log it.
type MutationResult struct {
	Wear       *model.FacultyWear
	CleanupErr error
}

type WearService interface {
	List(ctx context.Context, page, limit int, search string) ([]model.FacultyWear, int64, error)
	Get(ctx context.Context, id uint64) (*model.FacultyWear, error)
	Create(ctx context.Context, form WearForm, image *ImageUpload) (*model.FacultyWear, error)
	Update(ctx context.Context, id uint64, form WearForm, image *ImageUpload) (*MutationResult, error)
	Delete(ctx context.Context, id uint64) (*MutationResult, error)
}

type wearService struct {
	repo   repository.WearRepository
	images imagestore.Store
	now    func() time.Time
}

func NewWearService(repo repository.WearRepository, images imagestore.Store) WearService {
	return &wearService{repo: repo, images: images, now: time.Now}
}

func (s *wearService) List(ctx context.Context, page, limit int, search string) ([]model.FacultyWear, int64, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return s.repo.List(ctx, search, limit, (page-1)*limit)
}

func (s *wearService) Get(ctx context.Context, id uint64) (*model.FacultyWear, error) {
	wear, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return wear, nil
}

func (s *wearService) Create(ctx context.Context, form WearForm, image *ImageUpload) (*model.FacultyWear, error) {
	payload, details, err := parseWearForm(form)
	if err != nil {
		return nil, err
	}
	if len(details) > 0 {
		return nil, &ValidationError{Details: details}
	}
	if image == nil || len(image.Data) == 0 {
		return nil, ErrImageRequired
	}

	imageURL, err := s.images.Upload(ctx, image.Data, image.Filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageUpload, err)
	}

	wear := &model.FacultyWear{ImageURL: imageURL}
	payload.apply(wear)
	now := s.now()
	wear.CreatedAt = now
	wear.UpdatedAt = now

	if err := s.repo.Create(ctx, wear); err != nil {
		return nil, err
	}
	return wear, nil
}

func (s *wearService) Update(ctx context.Context, id uint64, form WearForm, image *ImageUpload) (*MutationResult, error) {
	wear, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	payload, details, err := parseWearForm(form)
	if err != nil {
		return nil, err
	}
	if len(details) > 0 {
		return nil, &ValidationError{Details: details}
	}

	res := &MutationResult{}
	if image != nil && len(image.Data) > 0 {
		// Upload the replacement before touching the old image, so a
		// failed upload leaves the record and its image intact.
		newURL, err := s.images.Upload(ctx, image.Data, image.Filename)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrImageUpload, err)
		}
		if wear.ImageURL != "" {
			if derr := s.images.Delete(ctx, wear.ImageURL); derr != nil {
				res.CleanupErr = fmt.Errorf("delete replaced image: %w", derr)
			}
		}
		wear.ImageURL = newURL
	}

	payload.apply(wear)
	wear.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, wear); err != nil {
		return nil, err
	}
	res.Wear = wear
	return res, nil
}

func (s *wearService) Delete(ctx context.Context, id uint64) (*MutationResult, error) {
	wear, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	res := &MutationResult{Wear: wear}
	if wear.ImageURL != "" {
		if derr := s.images.Delete(ctx, wear.ImageURL); derr != nil {
			res.CleanupErr = fmt.Errorf("delete image: %w", derr)
		}
	}

	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrDeleteFailed
	}
	return res, nil
}
