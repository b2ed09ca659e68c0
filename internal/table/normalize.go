package table

import (
	"fmt"
	"strings"
	"unicode"
)

// NormalizeKey maps an arbitrary header value onto a canonical key:
// lowercase, non-alphanumeric runs collapsed to single underscores,
// leading/trailing underscores stripped. An empty result falls back to
// the literal "column". Idempotent: normalizing a canonical key
// returns it unchanged.
func NormalizeKey(header interface{}) string {
	text := strings.ToLower(strings.TrimSpace(stringify(header)))
	var b strings.Builder
	lastUnderscore := false
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
		} else if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	key := strings.Trim(b.String(), "_")
	if key == "" {
		return "column"
	}
	return key
}

// PrettyLabel renders a header as a display label: underscores become
// spaces and each word is title-cased. Empty input yields "Column".
func PrettyLabel(header string) string {
	cleaned := strings.TrimSpace(strings.ReplaceAll(header, "_", " "))
	if cleaned == "" {
		return "Column"
	}
	words := strings.Fields(cleaned)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
