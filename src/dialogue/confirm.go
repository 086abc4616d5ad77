package dialogue

import (
	"strings"
	"unicode"
)

// confirmReply classifies a user's answer to a yes/no system question.
type confirmReply int

const (
	replyUnclear confirmReply = iota
	replyYes
	replyNo
)

var confirmWords = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "sure": true, "ok": true,
	"okay": true, "correct": true, "right": true, "confirm": true,
	"si": true, "sì": true, "affirmative": true, "absolutely": true,
	"definitely": true,
}

var denyWords = map[string]bool{
	"no": true, "nope": true, "nah": true, "wrong": true, "change": true,
	"cancel": true, "modify": true, "different": true, "incorrect": true,
	"not": true,
}

// normalizeConfirmation reduces a confirmation slot value, or failing that
// the raw utterance, to yes/no/unclear. A denial keyword wins over a
// confirmation keyword when both appear.
func normalizeConfirmation(slotValue, utterance string) confirmReply {
	text := strings.TrimSpace(slotValue)
	if text == "" {
		text = utterance
	}
	words := tokenize(text)
	for _, w := range words {
		if denyWords[w] {
			return replyNo
		}
	}
	for _, w := range words {
		if confirmWords[w] {
			return replyYes
		}
	}
	return replyUnclear
}

// tokenize lowercases and splits on anything that is not a letter or digit,
// so punctuation stuck to a keyword does not hide it.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
