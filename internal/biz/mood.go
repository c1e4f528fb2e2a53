package biz

import (
	"strconv"
	"strings"
)

// The five canonical mood keys, ordered by sentiment level 1..5.
const (
	MoodSad     = "sad"
	MoodAngry   = "angry"
	MoodNeutral = "neutral"
	MoodHappy   = "happy"
	MoodExcited = "excited"
)

// MoodKeys is the fixed ordered key list; index = level - 1.
var MoodKeys = []string{MoodSad, MoodAngry, MoodNeutral, MoodHappy, MoodExcited}

const (
	MinMoodCount = 2
	MaxMoodCount = 5

	defaultMoodLevel = 3 // neutral
)

// ResolveMood canonicalizes a mood signal (an integer level or a
// case-insensitive mood name) into a mood key and its level. Anything
// malformed or out of range falls back to neutral; resolution never fails.
func ResolveMood(signal string) (key string, level int) {
	s := strings.TrimSpace(signal)
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= len(MoodKeys) {
			return MoodKeys[n-1], n
		}
		return MoodNeutral, defaultMoodLevel
	}
	for i, k := range MoodKeys {
		if strings.EqualFold(s, k) {
			return k, i + 1
		}
	}
	return MoodNeutral, defaultMoodLevel
}

// MoodSlot is one position of a business's effective mood scale,
// derived per view and never persisted.
type MoodSlot struct {
	Level    int    `json:"level"`
	Key      string `json:"key"`
	Label    string `json:"label"`
	Emoji    string `json:"emoji"`
	ImageURL string `json:"image_url,omitempty"`
}

// Fallback label/emoji per level when the business has no custom image.
var defaultSlotFaces = [MaxMoodCount]struct {
	Label string
	Emoji string
}{
	{"Disappointing", "😡"},
	{"Average", "😕"},
	{"Neutral", "😐"},
	{"Loved it", "🙂"},
	{"Fantastic", "😍"},
}

// MoodSlots builds the ordered mood scale for a business from its
// moodCount and moodImages. Custom images map positionally onto slots
// 1..N; slots beyond the stored images keep the default face.
func MoodSlots(b *Business) []MoodSlot {
	count := b.MoodCount
	if count < MinMoodCount || count > MaxMoodCount {
		count = MaxMoodCount
	}
	slots := make([]MoodSlot, 0, count)
	for level := 1; level <= count; level++ {
		s := MoodSlot{
			Level: level,
			Key:   MoodKeys[level-1],
			Label: defaultSlotFaces[level-1].Label,
			Emoji: defaultSlotFaces[level-1].Emoji,
		}
		if level-1 < len(b.MoodImages) {
			s.ImageURL = b.MoodImages[level-1]
		}
		slots = append(slots, s)
	}
	return slots
}
