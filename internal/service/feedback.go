package service

import (
	"context"

	"feedback-service/internal/biz"
)

type FeedbackService struct {
	uc *biz.FeedbackUsecase
}

func NewFeedbackService(uc *biz.FeedbackUsecase) *FeedbackService {
	return &FeedbackService{uc: uc}
}

// LandingReply is the public landing-page state for one slug.
type LandingReply struct {
	Business *BusinessRecord `json:"business"`
	Moods    []biz.MoodSlot  `json:"moods"`
}

// SuggestionReply is the review-ready state for (slug, mood).
type SuggestionReply struct {
	Business        *BusinessRecord `json:"business"`
	MoodKey         string          `json:"mood_key"`
	MoodLevel       int             `json:"mood_level"`
	Review          string          `json:"review,omitempty"`
	Available       bool            `json:"available"`
	GoogleReviewURL string          `json:"google_review_url"`
}

func (s *FeedbackService) Landing(ctx context.Context, slug string) (*LandingReply, error) {
	b, slots, err := s.uc.Landing(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &LandingReply{Business: toBusinessRecord(b), Moods: slots}, nil
}

// Suggest backs both the initial review view and the "get another
// suggestion" action; each call draws independently.
func (s *FeedbackService) Suggest(ctx context.Context, slug, mood string) (*SuggestionReply, error) {
	out, err := s.uc.Suggest(ctx, slug, mood)
	if err != nil {
		return nil, err
	}
	return &SuggestionReply{
		Business:        toBusinessRecord(out.Business),
		MoodKey:         out.MoodKey,
		MoodLevel:       out.MoodLevel,
		Review:          out.Review,
		Available:       out.Available,
		GoogleReviewURL: out.Business.GoogleReviewURL,
	}, nil
}
