package service

import (
	"context"
	"time"

	"feedback-service/internal/biz"
)

type TemplateService struct {
	uc *biz.TemplateUsecase
}

func NewTemplateService(uc *biz.TemplateUsecase) *TemplateService {
	return &TemplateService{uc: uc}
}

// TemplatePayload carries operator input: each mood as one
// comma-separated string, exactly as authored in the edit form.
type TemplatePayload struct {
	Niche string            `json:"niche"`
	Moods map[string]string `json:"moods"`
}

type TemplateRecord struct {
	ID        int64               `json:"id"`
	Niche     string              `json:"niche"`
	Moods     map[string][]string `json:"moods"`
	RawMoods  map[string]string   `json:"raw_moods"`
	CreatedAt string              `json:"created_at,omitempty"`
}

func toTemplateRecord(t *biz.ReviewTemplate) *TemplateRecord {
	rec := &TemplateRecord{
		ID:       t.ID,
		Niche:    t.Niche,
		Moods:    biz.NormalizeMoods(t.Moods),
		RawMoods: t.RawMoods(),
	}
	if !t.CreatedAt.IsZero() {
		rec.CreatedAt = t.CreatedAt.Format(time.RFC3339)
	}
	return rec
}

func (s *TemplateService) Create(ctx context.Context, sess *biz.Session, req *TemplatePayload) (*TemplateRecord, error) {
	t, err := s.uc.Create(ctx, sess, req.Niche, req.Moods)
	if err != nil {
		return nil, err
	}
	return toTemplateRecord(t), nil
}

func (s *TemplateService) Update(ctx context.Context, sess *biz.Session, id int64, req *TemplatePayload) (*TemplateRecord, error) {
	t, err := s.uc.Update(ctx, sess, id, req.Niche, req.Moods)
	if err != nil {
		return nil, err
	}
	return toTemplateRecord(t), nil
}

func (s *TemplateService) Delete(ctx context.Context, sess *biz.Session, id int64) error {
	return s.uc.Delete(ctx, sess, id)
}

func (s *TemplateService) List(ctx context.Context) ([]*TemplateRecord, error) {
	ts, err := s.uc.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]*TemplateRecord, 0, len(ts))
	for _, t := range ts {
		items = append(items, toTemplateRecord(t))
	}
	return items, nil
}

func (s *TemplateService) ListNiches(ctx context.Context) ([]string, error) {
	return s.uc.ListNiches(ctx)
}
