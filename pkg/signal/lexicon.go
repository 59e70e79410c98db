package signal

import "strings"

var positiveWords = wordSet(
	"bullish", "profit", "up", "rally", "booming", "gain", "surge", "breakout",
	"buy", "long", "strong", "uptrend", "boom", "bull", "growth",
	// Hinglish
	"teji", "munafa", "badhat", "kharido",
	// Devanagari
	"तेजी", "मुनाफा", "बढ़त", "खरीदें",
)

var negativeWords = wordSet(
	"bearish", "loss", "down", "crash", "slump", "decline", "dip", "selloff",
	"sell", "short", "weak", "falling", "downtrend", "bear", "panic",
	"mandi", "giravat", "nuksan", "becho",
	"मंदी", "गिरावट", "नुकसान", "बेचें",
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Polarity counts lexicon hits in cleaned text: one point per positive word
// minus one per negative word. Only whole whitespace-separated tokens match.
func Polarity(cleaned string) int {
	score := 0
	for _, tok := range strings.Fields(cleaned) {
		if _, ok := positiveWords[tok]; ok {
			score++
		}
		if _, ok := negativeWords[tok]; ok {
			score--
		}
	}
	return score
}
