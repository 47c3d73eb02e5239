package taggable

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"simple word", "Go", "go"},
		{"spaces and punctuation", "  Hello, World!  ", "hello-world"},
		{"all symbols", "___", ""},
		{"empty input", "", ""},
		{"already slugged", "breaking-news", "breaking-news"},
		{"mixed case with hyphen", "Breaking-News", "breaking-news"},
		{"symbol runs collapse", "C++ & Go!", "c-go"},
		{"digits survive", "Top 10 Lists", "top-10-lists"},
		{"non-ascii replaced", "café culture", "caf-culture"},
		{"leading trailing symbols", "--what?!--", "what"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slugify(tc.input); got != tc.want {
				t.Errorf("Slugify(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
