package biz

import (
	"context"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

var ErrTemplateNotFound = errors.NotFound("TEMPLATE_NOT_FOUND", "review template not found")

// ReviewTemplate maps each of the five fixed mood keys to an ordered
// pool of candidate review phrases for one niche. Every key is always
// present, possibly with an empty pool.
type ReviewTemplate struct {
	ID        int64
	Niche     string
	Moods     map[string][]string
	CreatedAt time.Time
}

type TemplateRepo interface {
	Create(context.Context, *ReviewTemplate) (int64, error)
	Update(context.Context, *ReviewTemplate) error
	Delete(context.Context, int64) error
	GetByNiche(context.Context, string) (*ReviewTemplate, error)
	List(context.Context) ([]*ReviewTemplate, error)
	ListNiches(context.Context) ([]string, error)
}

// ParseMoods turns operator-authored comma-separated strings into the
// stored per-key pools: split on commas, trim, drop empties. Keys absent
// from the input still get an empty pool.
func ParseMoods(raw map[string]string) map[string][]string {
	moods := make(map[string][]string, len(MoodKeys))
	for _, k := range MoodKeys {
		moods[k] = splitReviews(raw[k])
	}
	return moods
}

func splitReviews(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeMoods fills in any missing mood keys so records read from
// the store always satisfy the five-key invariant.
func NormalizeMoods(m map[string][]string) map[string][]string {
	if m == nil {
		m = make(map[string][]string, len(MoodKeys))
	}
	for _, k := range MoodKeys {
		if m[k] == nil {
			m[k] = []string{}
		}
	}
	return m
}

// RawMoods is the exact inverse of ParseMoods for edit forms: each pool
// rejoined with ", " so an edit-without-change round-trips.
func (t *ReviewTemplate) RawMoods() map[string]string {
	raw := make(map[string]string, len(MoodKeys))
	for _, k := range MoodKeys {
		raw[k] = strings.Join(t.Moods[k], ", ")
	}
	return raw
}

type TemplateUsecase struct {
	repo TemplateRepo
	log  *log.Helper
}

func NewTemplateUsecase(repo TemplateRepo, logger log.Logger) *TemplateUsecase {
	return &TemplateUsecase{repo: repo, log: log.NewHelper(logger)}
}

func (uc *TemplateUsecase) Create(ctx context.Context, sess *Session, niche string, rawMoods map[string]string) (*ReviewTemplate, error) {
	if sess == nil {
		return nil, ErrAuthRequired
	}
	niche = strings.TrimSpace(niche)
	if niche == "" {
		return nil, validationError("niche is required")
	}
	t := &ReviewTemplate{Niche: niche, Moods: ParseMoods(rawMoods)}
	id, err := uc.repo.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	t.ID = id
	uc.log.WithContext(ctx).Infof("created template id=%d niche=%s", t.ID, t.Niche)
	return t, nil
}

// Update fully replaces the template's moods; there is no partial merge.
func (uc *TemplateUsecase) Update(ctx context.Context, sess *Session, id int64, niche string, rawMoods map[string]string) (*ReviewTemplate, error) {
	if sess == nil {
		return nil, ErrAuthRequired
	}
	niche = strings.TrimSpace(niche)
	if niche == "" {
		return nil, validationError("niche is required")
	}
	t := &ReviewTemplate{ID: id, Niche: niche, Moods: ParseMoods(rawMoods)}
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	uc.log.WithContext(ctx).Infof("updated template id=%d niche=%s", t.ID, t.Niche)
	return t, nil
}

// Delete removes the template by id. Businesses referencing the niche
// are left as-is and simply stop yielding suggestions.
func (uc *TemplateUsecase) Delete(ctx context.Context, sess *Session, id int64) error {
	if sess == nil {
		return ErrAuthRequired
	}
	uc.log.WithContext(ctx).Infof("delete template id=%d", id)
	return uc.repo.Delete(ctx, id)
}

func (uc *TemplateUsecase) Get(ctx context.Context, niche string) (*ReviewTemplate, error) {
	return uc.repo.GetByNiche(ctx, niche)
}

func (uc *TemplateUsecase) List(ctx context.Context) ([]*ReviewTemplate, error) {
	return uc.repo.List(ctx)
}

// ListNiches returns the distinct niche values ascending, used to
// populate the business niche selector.
func (uc *TemplateUsecase) ListNiches(ctx context.Context) ([]string, error) {
	return uc.repo.ListNiches(ctx)
}
