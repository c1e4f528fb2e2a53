package biz

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Sunset Cafe", "sunset-cafe"},
		{"punctuation and accents", "Joe's Café & Bar!", "joe-s-caf-bar"},
		{"leading trailing junk", "  --Gym++ ", "gym"},
		{"collapses runs", "a   b!!!c", "a-b-c"},
		{"already clean", "salon42", "salon42"},
		{"uppercase", "ACME", "acme"},
		{"no alphanumerics", "!!! ???", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := Slugify("Joe's Café & Bar!"); got != "joe-s-caf-bar" {
			t.Fatalf("unexpected slug %q", got)
		}
	}
}
