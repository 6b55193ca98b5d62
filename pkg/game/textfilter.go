package game

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Words that should never appear in classroom content, with gentler
// alternatives. Models rarely emit these, but lesson material is
// untrusted input and fragments of it flow back out through questions.
var blockedWords = []string{
	"damn", "hell", "crap", "ass", "bastard", "piss",
	"goddamn", "bullshit", "shit", "asshole", "dumbass", "jackass",
	"stupid", "idiot", "moron", "sucks",
}

var blockedWordReplacements = map[string]string{
	"damn":     "dang",
	"hell":     "heck",
	"crap":     "crud",
	"ass":      "donkey",
	"bastard":  "rascal",
	"piss":     "tick",
	"goddamn":  "gosh-dang",
	"bullshit": "baloney",
	"shit":     "shoot",
	"asshole":  "jerk",
	"dumbass":  "dummy",
	"jackass":  "jerk",
	"stupid":   "silly",
	"idiot":    "goof",
	"moron":    "goof",
	"sucks":    "stinks",
}

// TextFilter rewrites generated text to classroom-safe language.
type TextFilter struct {
	regexes map[string]*regexp.Regexp
}

// NewTextFilter creates a filter with pre-compiled word patterns.
func NewTextFilter() *TextFilter {
	tf := &TextFilter{
		regexes: make(map[string]*regexp.Regexp, len(blockedWords)),
	}
	for _, word := range blockedWords {
		pattern := `(?i)\b` + regexp.QuoteMeta(word) + `\b`
		tf.regexes[word] = regexp.MustCompile(pattern)
	}
	return tf
}

// Clean replaces blocked words in text with their alternatives,
// preserving the case of the original match.
func (tf *TextFilter) Clean(text string) string {
	result := text
	for _, word := range blockedWords {
		replacement := blockedWordReplacements[word]
		result = tf.regexes[word].ReplaceAllStringFunc(result, func(match string) string {
			return matchCase(match, replacement)
		})
	}
	return result
}

// CleanGame applies the filter to every text field of a game in place.
func (tf *TextFilter) CleanGame(g *GameData) {
	g.Title = tf.Clean(g.Title)
	g.Description = tf.Clean(g.Description)
	for i := range g.Questions {
		q := &g.Questions[i]
		q.Prompt = tf.Clean(q.Prompt)
		for j := range q.Options {
			q.Options[j] = tf.Clean(q.Options[j])
		}
		q.Explanation = tf.Clean(q.Explanation)
		q.Misconception = tf.Clean(q.Misconception)
	}
}

// matchCase applies the case pattern of the original word to the replacement.
func matchCase(original, replacement string) string {
	if original == "" {
		return replacement
	}
	if strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}
	if strings.ToLower(original) == original {
		return replacement
	}
	titleCaser := cases.Title(language.English)
	if titleCaser.String(strings.ToLower(original)) == original {
		return titleCaser.String(replacement)
	}
	// Mixed case, match it rune by rune as far as the original reaches.
	originalRunes := []rune(original)
	out := make([]rune, 0, len(replacement))
	for i, r := range replacement {
		if i < len(originalRunes) && unicode.IsUpper(originalRunes[i]) {
			out = append(out, unicode.ToUpper(r))
		} else {
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}
