package patterns

import "strings"

// UnicodeVersion is the version of the Unicode character database the
// character classes below were generated from.
const UnicodeVersion = "11.0.0"

// Characters whose names contain QUOT.
const QuoteChars = "\"«»‘’‚‛“”„‟" +
	"‹›❮❯⹂〝〞〟＂"

// Characters whose names contain EXCLAMATION.
const ExclamationChars = "!¡՜߹᥄‼⁈⁉︕﹗！" +
	"\U00016e9a\U0001e95e"

// Characters whose names contain FULL STOP, excluding digit and number forms.
const FullStopChars = ".։۔܁܂።᙮᠃᠉⳹⳾" +
	"⸼。꓿꘎꛳︒﹒．｡" +
	"\U00016af5\U00016e98\U0001bc9f\U0001da88"

// Characters whose names contain QUESTION, excluding ideographs, plus the
// glottal stop and the interrobang.
const QuestionChars = "?¿;՞؟፧᥅⁇⁈⁉" +
	"⳺⳻⸮꘏꛷︖﹖？\U00011143\U0001e95f" +
	"ʔ‽"

// Characters in general category Sc.
const CurrencyChars = "$¢£¤¥֏؋৲৳৻૱" +
	"௹฿៛" +
	"₠₡₢₣₤₥₦₧₨₩₪₫" +
	"€₭₮₯₰₱₲₳₴₵₶₷" +
	"₸₹₺₻₼₽₾₿" +
	"﷼﹩＄￠￡￥￦"

// Inverted marks that open a Spanish clause.
const (
	InvertedQuestion    = "¿"
	InvertedExclamation = "¡"
)

// SentenceEndChars is the union of exclamation, full stop and question marks.
const SentenceEndChars = ExclamationChars + FullStopChars + QuestionChars

// Class returns a regex character class matching any rune of chars.
// A '-' is always placed last so it is never read as a range operator.
func Class(chars string) string {
	return buildClass(chars, false)
}

// NegatedClass returns a regex character class matching any rune not in chars.
func NegatedClass(chars string) string {
	return buildClass(chars, true)
}

func buildClass(chars string, negate bool) string {
	var b strings.Builder
	b.WriteByte('[')
	if negate {
		b.WriteByte('^')
	}
	seen := make(map[rune]bool, len(chars))
	dash := false
	for _, r := range chars {
		if seen[r] {
			continue
		}
		seen[r] = true
		switch r {
		case '-':
			dash = true
			continue
		case '\\', ']', '[', '^':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	if dash {
		b.WriteByte('-')
	}
	b.WriteByte(']')
	return b.String()
}

// without returns chars with every rune of drop removed.
func without(chars, drop string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(drop, r) {
			return -1
		}
		return r
	}, chars)
}
