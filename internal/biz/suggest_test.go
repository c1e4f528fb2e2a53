package biz

import (
	"context"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTemplateRepo struct {
	nextID  int64
	byNiche map[string]*ReviewTemplate
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{byNiche: map[string]*ReviewTemplate{}}
}

func (r *fakeTemplateRepo) Create(_ context.Context, t *ReviewTemplate) (int64, error) {
	r.nextID++
	cp := *t
	cp.ID = r.nextID
	cp.Moods = NormalizeMoods(cp.Moods)
	r.byNiche[cp.Niche] = &cp
	return cp.ID, nil
}

func (r *fakeTemplateRepo) Update(_ context.Context, t *ReviewTemplate) error {
	for niche, existing := range r.byNiche {
		if existing.ID == t.ID {
			delete(r.byNiche, niche)
			cp := *t
			cp.Moods = NormalizeMoods(cp.Moods)
			r.byNiche[cp.Niche] = &cp
			return nil
		}
	}
	return ErrTemplateNotFound
}

func (r *fakeTemplateRepo) Delete(_ context.Context, id int64) error {
	for niche, existing := range r.byNiche {
		if existing.ID == id {
			delete(r.byNiche, niche)
			return nil
		}
	}
	return ErrTemplateNotFound
}

func (r *fakeTemplateRepo) GetByNiche(_ context.Context, niche string) (*ReviewTemplate, error) {
	if t, ok := r.byNiche[niche]; ok {
		return t, nil
	}
	return nil, ErrTemplateNotFound
}

func (r *fakeTemplateRepo) List(_ context.Context) ([]*ReviewTemplate, error) {
	out := make([]*ReviewTemplate, 0, len(r.byNiche))
	for _, t := range r.byNiche {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTemplateRepo) ListNiches(_ context.Context) ([]string, error) {
	out := make([]string, 0, len(r.byNiche))
	for niche := range r.byNiche {
		out = append(out, niche)
	}
	return out, nil
}

// fixedRand always returns the same index sequence.
type fixedRand struct {
	values []int
	i      int
}

func (r *fixedRand) IntN(n int) int {
	v := r.values[r.i%len(r.values)]
	r.i++
	return v % n
}

func TestSelectorEmptyPool(t *testing.T) {
	sel := NewReviewSelector(&fixedRand{values: []int{0}})
	tpl := &ReviewTemplate{Niche: "cafe", Moods: NormalizeMoods(nil)}

	for i := 0; i < 5; i++ {
		_, err := sel.Select(tpl, MoodExcited)
		assert.ErrorIs(t, err, ErrNoReviewAvailable)
	}
}

func TestSelectorDeterministicWithInjectedRand(t *testing.T) {
	sel := NewReviewSelector(&fixedRand{values: []int{2, 0, 1}})
	tpl := &ReviewTemplate{Niche: "cafe", Moods: NormalizeMoods(map[string][]string{
		MoodHappy: {"a", "b", "c"},
	})}

	got := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		s, err := sel.Select(tpl, MoodHappy)
		require.NoError(t, err)
		got = append(got, s)
	}
	assert.Equal(t, []string{"c", "a", "b"}, got)
}

func newFeedbackFixture(t *testing.T) (*FeedbackUsecase, *fakeBusinessRepo, *fakeTemplateRepo) {
	t.Helper()
	businesses := newFakeBusinessRepo()
	templates := newFakeTemplateRepo()
	sel := NewReviewSelector(&fixedRand{values: []int{0}})
	return NewFeedbackUsecase(businesses, templates, sel, log.DefaultLogger), businesses, templates
}

func TestSuggestEndToEnd(t *testing.T) {
	uc, businesses, templates := newFeedbackFixture(t)
	ctx := context.Background()

	_, err := businesses.Create(ctx, &Business{
		BusinessName:    "Sunset Cafe",
		Slug:            Slugify("Sunset Cafe"),
		Niche:           "cafe",
		GoogleReviewURL: "https://g.page/sunset-cafe/review",
		MoodCount:       5,
	})
	require.NoError(t, err)
	_, err = templates.Create(ctx, &ReviewTemplate{
		Niche: "cafe",
		Moods: map[string][]string{MoodExcited: {"Amazing coffee!"}},
	})
	require.NoError(t, err)

	out, err := uc.Suggest(ctx, "sunset-cafe", "5")
	require.NoError(t, err)
	assert.True(t, out.Available)
	assert.Equal(t, MoodExcited, out.MoodKey)
	assert.Equal(t, 5, out.MoodLevel)
	assert.Equal(t, "Amazing coffee!", out.Review)
	assert.Equal(t, "https://g.page/sunset-cafe/review", out.Business.GoogleReviewURL)
}

func TestSuggestUnknownSlug(t *testing.T) {
	uc, _, _ := newFeedbackFixture(t)
	_, err := uc.Suggest(context.Background(), "nope", "5")
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestSuggestDanglingNiche(t *testing.T) {
	uc, businesses, _ := newFeedbackFixture(t)
	ctx := context.Background()

	_, err := businesses.Create(ctx, &Business{
		BusinessName: "Sunset Cafe", Slug: "sunset-cafe", Niche: "cafe", MoodCount: 5,
	})
	require.NoError(t, err)

	// no template for the niche: a normal unavailable state, not an error
	out, err := uc.Suggest(ctx, "sunset-cafe", "5")
	require.NoError(t, err)
	assert.False(t, out.Available)
	assert.Empty(t, out.Review)
	assert.Equal(t, MoodExcited, out.MoodKey)
}

func TestSuggestEmptyMoodPool(t *testing.T) {
	uc, businesses, templates := newFeedbackFixture(t)
	ctx := context.Background()

	_, err := businesses.Create(ctx, &Business{
		BusinessName: "Sunset Cafe", Slug: "sunset-cafe", Niche: "cafe", MoodCount: 5,
	})
	require.NoError(t, err)
	_, err = templates.Create(ctx, &ReviewTemplate{
		Niche: "cafe",
		Moods: map[string][]string{MoodHappy: {"Nice place"}},
	})
	require.NoError(t, err)

	out, err := uc.Suggest(ctx, "sunset-cafe", "excited")
	require.NoError(t, err)
	assert.False(t, out.Available)
	assert.Empty(t, out.Review)
}

func TestSuggestMalformedMoodFallsBack(t *testing.T) {
	uc, businesses, templates := newFeedbackFixture(t)
	ctx := context.Background()

	_, err := businesses.Create(ctx, &Business{
		BusinessName: "Sunset Cafe", Slug: "sunset-cafe", Niche: "cafe", MoodCount: 5,
	})
	require.NoError(t, err)
	_, err = templates.Create(ctx, &ReviewTemplate{
		Niche: "cafe",
		Moods: map[string][]string{MoodNeutral: {"It was fine."}},
	})
	require.NoError(t, err)

	for _, signal := range []string{"0", "6", "bogus"} {
		out, err := uc.Suggest(ctx, "sunset-cafe", signal)
		require.NoError(t, err, "signal=%s", signal)
		assert.Equal(t, MoodNeutral, out.MoodKey, "signal=%s", signal)
		assert.Equal(t, 3, out.MoodLevel, "signal=%s", signal)
		assert.Equal(t, "It was fine.", out.Review, "signal=%s", signal)
	}
}

func TestLanding(t *testing.T) {
	uc, businesses, _ := newFeedbackFixture(t)
	ctx := context.Background()

	_, err := businesses.Create(ctx, &Business{
		BusinessName: "Gym One", Slug: "gym-one", Niche: "gym",
		MoodCount: 2, MoodImages: []string{"a.png", "b.png"},
	})
	require.NoError(t, err)

	b, slots, err := uc.Landing(ctx, "gym-one")
	require.NoError(t, err)
	assert.Equal(t, "Gym One", b.BusinessName)
	require.Len(t, slots, 2)
	assert.Equal(t, "a.png", slots[0].ImageURL)

	_, _, err = uc.Landing(ctx, "missing")
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}
