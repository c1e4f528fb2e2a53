package biz

import (
	"context"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoods(t *testing.T) {
	moods := ParseMoods(map[string]string{
		"happy": "Great! , Loved it,, Superb ",
		"sad":   "",
	})

	// every fixed key is present, even when absent from the input
	for _, k := range MoodKeys {
		require.NotNil(t, moods[k], "missing key %s", k)
	}
	assert.Equal(t, []string{"Great!", "Loved it", "Superb"}, moods["happy"])
	assert.Empty(t, moods["sad"])
	assert.Empty(t, moods["excited"])
}

func TestRawMoodsRoundTrip(t *testing.T) {
	parsed := ParseMoods(map[string]string{"happy": "Great! , Loved it,, Superb "})
	tpl := &ReviewTemplate{Niche: "cafe", Moods: parsed}

	raw := tpl.RawMoods()
	assert.Equal(t, "Great!, Loved it, Superb", raw["happy"])
	assert.Equal(t, "", raw["sad"])

	// an edit-without-change round-trips to the same stored lists
	assert.Equal(t, parsed, ParseMoods(raw))
}

func TestTemplateUsecase(t *testing.T) {
	repo := newFakeTemplateRepo()
	uc := NewTemplateUsecase(repo, log.DefaultLogger)
	ctx := context.Background()

	_, err := uc.Create(ctx, nil, "cafe", nil)
	assert.ErrorIs(t, err, ErrAuthRequired)

	_, err = uc.Create(ctx, testSession, "  ", nil)
	require.Error(t, err)

	tpl, err := uc.Create(ctx, testSession, "cafe", map[string]string{"excited": "Amazing coffee!, Best latte"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Amazing coffee!", "Best latte"}, tpl.Moods["excited"])

	got, err := uc.Get(ctx, "cafe")
	require.NoError(t, err)
	assert.Equal(t, tpl.ID, got.ID)

	// update fully replaces the moods, no partial merge
	tpl, err = uc.Update(ctx, testSession, tpl.ID, "cafe", map[string]string{"happy": "Nice"})
	require.NoError(t, err)
	assert.Empty(t, tpl.Moods["excited"])
	assert.Equal(t, []string{"Nice"}, tpl.Moods["happy"])

	require.NoError(t, uc.Delete(ctx, testSession, tpl.ID))
	_, err = uc.Get(ctx, "cafe")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestNormalizeMoods(t *testing.T) {
	m := NormalizeMoods(map[string][]string{"happy": {"Nice"}})
	for _, k := range MoodKeys {
		require.NotNil(t, m[k])
	}
	assert.Equal(t, []string{"Nice"}, m["happy"])
	assert.Empty(t, m["angry"])

	m = NormalizeMoods(nil)
	assert.Len(t, m, len(MoodKeys))
}
