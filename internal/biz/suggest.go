package biz

import (
	"context"
	"math/rand"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

var ErrNoReviewAvailable = errors.NotFound("REVIEW_NOT_AVAILABLE", "no review available for this mood")

// Rand is the selector's source of randomness, injectable for tests.
type Rand interface {
	IntN(n int) int
}

type sysRand struct{}

func (sysRand) IntN(n int) int { return rand.Intn(n) }

func NewRand() Rand { return sysRand{} }

// ReviewSelector draws one candidate phrase from a template's mood pool.
type ReviewSelector struct {
	rng Rand
}

func NewReviewSelector(rng Rand) *ReviewSelector {
	return &ReviewSelector{rng: rng}
}

// Select picks uniformly at random; repeated calls are independent,
// which is what backs the "get another suggestion" action. An empty
// pool yields ErrNoReviewAvailable, never a placeholder string.
func (s *ReviewSelector) Select(t *ReviewTemplate, moodKey string) (string, error) {
	pool := t.Moods[moodKey]
	if len(pool) == 0 {
		return "", ErrNoReviewAvailable
	}
	return pool[s.rng.IntN(len(pool))], nil
}

// Suggestion is the resolved review-ready state for one visit.
type Suggestion struct {
	Business  *Business
	MoodKey   string
	MoodLevel int
	Review    string
	Available bool
}

// FeedbackUsecase composes the public resolution flow:
// slug -> business -> mood key -> template pool -> one candidate review.
type FeedbackUsecase struct {
	businesses BusinessRepo
	templates  TemplateRepo
	selector   *ReviewSelector
	log        *log.Helper
}

func NewFeedbackUsecase(businesses BusinessRepo, templates TemplateRepo, selector *ReviewSelector, logger log.Logger) *FeedbackUsecase {
	return &FeedbackUsecase{
		businesses: businesses,
		templates:  templates,
		selector:   selector,
		log:        log.NewHelper(logger),
	}
}

// Landing resolves a slug into the business and its derived mood scale.
func (uc *FeedbackUsecase) Landing(ctx context.Context, slug string) (*Business, []MoodSlot, error) {
	b, err := uc.businesses.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	return b, MoodSlots(b), nil
}

// Suggest resolves (slug, mood signal) into a candidate review. A
// missing template or an empty pool is a normal outcome reported as an
// unavailable suggestion, not an error; only an unknown slug or a store
// failure fails the call.
func (uc *FeedbackUsecase) Suggest(ctx context.Context, slug, moodSignal string) (*Suggestion, error) {
	b, err := uc.businesses.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	key, level := ResolveMood(moodSignal)
	out := &Suggestion{Business: b, MoodKey: key, MoodLevel: level}

	t, err := uc.templates.GetByNiche(ctx, b.Niche)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			uc.log.WithContext(ctx).Warnf("no template for niche=%s (business=%s)", b.Niche, b.Slug)
			return out, nil
		}
		return nil, err
	}
	review, err := uc.selector.Select(t, key)
	if err != nil {
		if errors.Is(err, ErrNoReviewAvailable) {
			return out, nil
		}
		return nil, err
	}
	out.Review = review
	out.Available = true
	return out, nil
}
