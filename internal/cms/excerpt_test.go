package cms

import "testing"

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name  string
		story string
		max   int
		want  string
	}{
		{
			name:  "plain paragraph",
			story: "<p>Hello world</p>",
			max:   100,
			want:  "Hello world",
		},
		{
			name:  "nested markup",
			story: "<div><p>First <em>part</em>.</p><p>Second part.</p></div>",
			max:   100,
			want:  "First part . Second part.",
		},
		{
			name:  "script contents skipped",
			story: "<p>Visible</p><script>alert('no')</script>",
			max:   100,
			want:  "Visible",
		},
		{
			name:  "truncated on word boundary",
			story: "<p>one two three four five</p>",
			max:   13,
			want:  "one two…",
		},
		{
			name:  "unbroken token",
			story: "<p>abcdefghij</p>",
			max:   4,
			want:  "abcd…",
		},
		{
			name:  "empty story",
			story: "",
			max:   100,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Excerpt(tt.story, tt.max); got != tt.want {
				t.Errorf("Excerpt(%q, %d) = %q, want %q", tt.story, tt.max, got, tt.want)
			}
		})
	}
}
