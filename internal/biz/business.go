package biz

import (
	"context"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

var (
	ErrBusinessNotFound = errors.NotFound("BUSINESS_NOT_FOUND", "business not found")
	ErrAuthRequired     = errors.Unauthorized("AUTH_REQUIRED", "sign in required")
)

func validationError(msg string) error {
	return errors.BadRequest("VALIDATION_FAILED", msg)
}

// Session is proof of an authenticated operator, produced by the auth
// package and threaded explicitly into every mutating call.
type Session struct {
	Subject string
}

type Business struct {
	ID              int64
	BusinessName    string
	Slug            string
	LogoURL         string
	Niche           string
	GoogleReviewURL string
	MoodImages      []string
	MoodCount       int
	CreatedAt       time.Time
}

// BusinessInput carries the mutable fields for create/update.
type BusinessInput struct {
	BusinessName    string
	LogoURL         string
	Niche           string
	GoogleReviewURL string
	MoodImages      []string
	MoodCount       int
}

type BusinessQuery struct {
	Page     int32
	PageSize int32
	Q        string
}

type BusinessRepo interface {
	Create(context.Context, *Business) (int64, error)
	Update(context.Context, *Business) error
	Delete(context.Context, int64) error
	GetByID(context.Context, int64) (*Business, error)
	GetBySlug(context.Context, string) (*Business, error)
	List(context.Context, *BusinessQuery) ([]*Business, int64, error)
}

type BusinessUsecase struct {
	repo BusinessRepo
	log  *log.Helper
}

func NewBusinessUsecase(repo BusinessRepo, logger log.Logger) *BusinessUsecase {
	return &BusinessUsecase{repo: repo, log: log.NewHelper(logger)}
}

func (in *BusinessInput) validate() error {
	if strings.TrimSpace(in.BusinessName) == "" {
		return validationError("business name is required")
	}
	if strings.TrimSpace(in.Niche) == "" {
		return validationError("niche is required")
	}
	if strings.TrimSpace(in.GoogleReviewURL) == "" {
		return validationError("google review url is required")
	}
	if in.MoodCount < MinMoodCount || in.MoodCount > MaxMoodCount {
		return validationError("mood count must be between 2 and 5")
	}
	return nil
}

// normalizeMoodImages trims the image list to the mood count and drops
// blank entries, so only real URLs up to moodCount are ever stored.
func normalizeMoodImages(urls []string, count int) []string {
	if len(urls) > count {
		urls = urls[:count]
	}
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if s := strings.TrimSpace(u); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (in *BusinessInput) toBusiness() *Business {
	return &Business{
		BusinessName:    strings.TrimSpace(in.BusinessName),
		Slug:            Slugify(in.BusinessName),
		LogoURL:         strings.TrimSpace(in.LogoURL),
		Niche:           strings.TrimSpace(in.Niche),
		GoogleReviewURL: strings.TrimSpace(in.GoogleReviewURL),
		MoodImages:      normalizeMoodImages(in.MoodImages, in.MoodCount),
		MoodCount:       in.MoodCount,
	}
}

func (uc *BusinessUsecase) Create(ctx context.Context, sess *Session, in *BusinessInput) (*Business, error) {
	if sess == nil {
		return nil, ErrAuthRequired
	}
	if in.MoodCount == 0 {
		in.MoodCount = MaxMoodCount
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	b := in.toBusiness()
	id, err := uc.repo.Create(ctx, b)
	if err != nil {
		return nil, err
	}
	b.ID = id
	uc.log.WithContext(ctx).Infof("created business id=%d slug=%s", b.ID, b.Slug)
	return b, nil
}

// Update replaces all mutable fields. The slug is recomputed from the
// (possibly renamed) business name, so renaming changes the public URL.
func (uc *BusinessUsecase) Update(ctx context.Context, sess *Session, id int64, in *BusinessInput) (*Business, error) {
	if sess == nil {
		return nil, ErrAuthRequired
	}
	if in.MoodCount == 0 {
		in.MoodCount = MaxMoodCount
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	b := in.toBusiness()
	b.ID = id
	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	uc.log.WithContext(ctx).Infof("updated business id=%d slug=%s", b.ID, b.Slug)
	return b, nil
}

func (uc *BusinessUsecase) Delete(ctx context.Context, sess *Session, id int64) error {
	if sess == nil {
		return ErrAuthRequired
	}
	uc.log.WithContext(ctx).Infof("delete business id=%d", id)
	return uc.repo.Delete(ctx, id)
}

func (uc *BusinessUsecase) Get(ctx context.Context, id int64) (*Business, error) {
	return uc.repo.GetByID(ctx, id)
}

// GetBySlug resolves the public lookup key. A miss is a normal outcome,
// reported as ErrBusinessNotFound.
func (uc *BusinessUsecase) GetBySlug(ctx context.Context, slug string) (*Business, error) {
	return uc.repo.GetBySlug(ctx, slug)
}

func (uc *BusinessUsecase) List(ctx context.Context, in *BusinessQuery) ([]*Business, int64, error) {
	if in == nil {
		in = &BusinessQuery{}
	}
	if in.Page < 1 {
		in.Page = 1
	}
	if in.PageSize <= 0 || in.PageSize > 100 {
		in.PageSize = 20
	}
	return uc.repo.List(ctx, in)
}
