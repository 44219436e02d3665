package chat

import (
	"reflect"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	cases := []struct {
		text string
		want []string
	}{
		{
			text: "I love hiking in the mountains",
			want: []string{"hiking", "love", "mountains"},
		},
		{
			// Stop-set words and short tokens drop out.
			text: "What do you think about that thing with cats",
			want: []string{"cats", "thing", "think"},
		},
		{
			// Dedup and case folding.
			text: "Mountains MOUNTAINS mountains",
			want: []string{"mountains"},
		},
		{
			text: "a an it to be",
			want: nil,
		},
		{
			text: "",
			want: nil,
		},
	}
	for _, tc := range cases {
		if got := ExtractKeywords(tc.text); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ExtractKeywords(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}
