package classify

import "testing"

func TestLexiconEmotion_Detect(t *testing.T) {
	e := NewLexiconEmotion()

	cases := []struct {
		text string
		want string
	}{
		{"I love this, it's amazing and wonderful", EmotionHappy},
		{"I am so sad and lonely and depressed", EmotionSad},
		{"what is the capital of France", EmotionNeutral},
		{"I love it but I also hate it", EmotionNeutral},
		{"", EmotionNeutral},
		{"GREAT! Awesome!!", EmotionHappy},
	}
	for _, tc := range cases {
		if got := e.Detect(tc.text); got != tc.want {
			t.Errorf("Detect(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestWordListProfanity(t *testing.T) {
	p := NewWordListProfanity("badword", "worse")

	cases := []struct {
		text string
		want bool
	}{
		{"this contains a badword here", true},
		{"BADWORD, shouted", true},
		{"a perfectly polite sentence", false},
		{"badwordish is a different token", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := p.Profane(tc.text); got != tc.want {
			t.Errorf("Profane(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestWordListProfanity_DefaultList(t *testing.T) {
	p := NewWordListProfanity()
	if !p.Profane("you absolute idiot") {
		t.Error("default list should flag a blocked word")
	}
	if p.Profane("have a lovely day") {
		t.Error("default list flagged a clean sentence")
	}
}
