package service

import (
	"context"
	"time"

	"feedback-service/internal/biz"
)

type BusinessService struct {
	uc *biz.BusinessUsecase
}

func NewBusinessService(uc *biz.BusinessUsecase) *BusinessService {
	return &BusinessService{uc: uc}
}

// BusinessPayload is the admin-facing write shape.
type BusinessPayload struct {
	BusinessName    string   `json:"business_name"`
	LogoURL         string   `json:"logo_url"`
	Niche           string   `json:"niche"`
	GoogleReviewURL string   `json:"google_review_url"`
	MoodImages      []string `json:"mood_images"`
	MoodCount       int      `json:"mood_count"`
}

type BusinessRecord struct {
	ID              int64    `json:"id"`
	BusinessName    string   `json:"business_name"`
	Slug            string   `json:"slug"`
	LogoURL         string   `json:"logo_url,omitempty"`
	Niche           string   `json:"niche"`
	GoogleReviewURL string   `json:"google_review_url"`
	MoodImages      []string `json:"mood_images"`
	MoodCount       int      `json:"mood_count"`
	CreatedAt       string   `json:"created_at,omitempty"`
}

type ListBusinessesReply struct {
	Total      int64             `json:"total"`
	Businesses []*BusinessRecord `json:"businesses"`
}

func toBusinessRecord(b *biz.Business) *BusinessRecord {
	rec := &BusinessRecord{
		ID:              b.ID,
		BusinessName:    b.BusinessName,
		Slug:            b.Slug,
		LogoURL:         b.LogoURL,
		Niche:           b.Niche,
		GoogleReviewURL: b.GoogleReviewURL,
		MoodImages:      b.MoodImages,
		MoodCount:       b.MoodCount,
	}
	if rec.MoodImages == nil {
		rec.MoodImages = []string{}
	}
	if !b.CreatedAt.IsZero() {
		rec.CreatedAt = b.CreatedAt.Format(time.RFC3339)
	}
	return rec
}

func (p *BusinessPayload) toInput() *biz.BusinessInput {
	return &biz.BusinessInput{
		BusinessName:    p.BusinessName,
		LogoURL:         p.LogoURL,
		Niche:           p.Niche,
		GoogleReviewURL: p.GoogleReviewURL,
		MoodImages:      p.MoodImages,
		MoodCount:       p.MoodCount,
	}
}

func (s *BusinessService) Create(ctx context.Context, sess *biz.Session, req *BusinessPayload) (*BusinessRecord, error) {
	b, err := s.uc.Create(ctx, sess, req.toInput())
	if err != nil {
		return nil, err
	}
	return toBusinessRecord(b), nil
}

func (s *BusinessService) Update(ctx context.Context, sess *biz.Session, id int64, req *BusinessPayload) (*BusinessRecord, error) {
	b, err := s.uc.Update(ctx, sess, id, req.toInput())
	if err != nil {
		return nil, err
	}
	return toBusinessRecord(b), nil
}

func (s *BusinessService) Delete(ctx context.Context, sess *biz.Session, id int64) error {
	return s.uc.Delete(ctx, sess, id)
}

func (s *BusinessService) Get(ctx context.Context, id int64) (*BusinessRecord, error) {
	b, err := s.uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBusinessRecord(b), nil
}

func (s *BusinessService) List(ctx context.Context, page, pageSize int32, q string) (*ListBusinessesReply, error) {
	bs, total, err := s.uc.List(ctx, &biz.BusinessQuery{Page: page, PageSize: pageSize, Q: q})
	if err != nil {
		return nil, err
	}
	items := make([]*BusinessRecord, 0, len(bs))
	for _, b := range bs {
		items = append(items, toBusinessRecord(b))
	}
	return &ListBusinessesReply{Total: total, Businesses: items}, nil
}
