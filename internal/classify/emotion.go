// Package classify holds the text classification collaborators: emotion
// labeling and profanity screening. Both sit behind small interfaces in the
// chat engine so hosted classifiers can replace the built-in lexicons.
package classify

import (
	"strings"
	"unicode"
)

// Emotion labels.
const (
	EmotionSad     = "sad"
	EmotionHappy   = "happy"
	EmotionNeutral = "neutral"
)

// LexiconEmotion scores text polarity against small positive/negative word
// lists. Polarity below -0.3 reads as sad, above 0.3 as happy, else neutral.
type LexiconEmotion struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

func NewLexiconEmotion() *LexiconEmotion {
	return &LexiconEmotion{
		positive: wordSet(
			"love", "like", "enjoy", "great", "good", "happy", "glad",
			"awesome", "amazing", "wonderful", "excited", "fantastic",
			"best", "nice", "fun", "beautiful", "thanks", "thank",
		),
		negative: wordSet(
			"hate", "sad", "angry", "terrible", "awful", "bad", "worst",
			"horrible", "upset", "depressed", "miserable", "lonely",
			"cry", "crying", "tired", "hurt", "annoyed", "disappointed",
		),
	}
}

// Detect returns one of the emotion labels for text.
func (e *LexiconEmotion) Detect(text string) string {
	var pos, neg int
	for _, token := range fields(text) {
		if _, ok := e.positive[token]; ok {
			pos++
		}
		if _, ok := e.negative[token]; ok {
			neg++
		}
	}
	if pos+neg == 0 {
		return EmotionNeutral
	}

	polarity := float64(pos-neg) / float64(pos+neg)
	switch {
	case polarity < -0.3:
		return EmotionSad
	case polarity > 0.3:
		return EmotionHappy
	default:
		return EmotionNeutral
	}
}

func fields(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
