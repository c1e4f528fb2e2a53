package biz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveMood(t *testing.T) {
	tests := []struct {
		name      string
		signal    string
		wantKey   string
		wantLevel int
	}{
		{"level 1", "1", MoodSad, 1},
		{"level 3", "3", MoodNeutral, 3},
		{"level 5", "5", MoodExcited, 5},
		{"level 0 falls back", "0", MoodNeutral, 3},
		{"level 6 falls back", "6", MoodNeutral, 3},
		{"negative falls back", "-2", MoodNeutral, 3},
		{"name", "happy", MoodHappy, 4},
		{"name mixed case", "Excited", MoodExcited, 5},
		{"unknown name falls back", "bogus", MoodNeutral, 3},
		{"empty falls back", "", MoodNeutral, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, level := ResolveMood(tt.signal)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantLevel, level)
		})
	}
}

func TestMoodSlots(t *testing.T) {
	b := &Business{
		MoodCount:  3,
		MoodImages: []string{"u1", "u2"},
	}
	slots := MoodSlots(b)
	assert.Len(t, slots, 3)
	assert.Equal(t, []string{MoodSad, MoodAngry, MoodNeutral}, []string{slots[0].Key, slots[1].Key, slots[2].Key})
	assert.Equal(t, 1, slots[0].Level)
	assert.Equal(t, "u1", slots[0].ImageURL)
	assert.Equal(t, "u2", slots[1].ImageURL)
	// third slot has no custom image, keeps the default face
	assert.Empty(t, slots[2].ImageURL)
	assert.NotEmpty(t, slots[2].Emoji)
	assert.NotEmpty(t, slots[2].Label)
}

func TestMoodSlotsDefaultsCount(t *testing.T) {
	// out-of-range counts render the full five-slot scale
	for _, count := range []int{0, 1, 6} {
		slots := MoodSlots(&Business{MoodCount: count})
		assert.Len(t, slots, MaxMoodCount, "count=%d", count)
	}
	assert.Equal(t, MoodExcited, MoodSlots(&Business{MoodCount: 5})[4].Key)
}
