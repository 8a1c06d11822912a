package gen

import (
	"strings"
	"unicode"
)

// acronyms are uppercased as a unit by pascal.
var acronyms = names("id", "api", "http", "json", "sql", "uid", "url", "uuid", "xml")

// snake converts a camel/pascal-case name to snake_case. Acronym runs are
// kept as one word ("UserIDs" becomes "user_ids").
func snake(s string) string {
	var b strings.Builder
	rs := []rune(s)
	for i, r := range rs {
		if i > 0 && unicode.IsUpper(r) && boundary(rs, i) {
			b.WriteRune('_')
		}
		switch {
		case r == '-' || r == ' ':
			b.WriteRune('_')
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// boundary reports if a word starts at position i (holding an upper rune).
// Either the previous rune ends a lowercase/digit word, or an acronym run
// ends here and a real word (at least two lowercase runes) follows.
func boundary(rs []rune, i int) bool {
	prev := rs[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	if !unicode.IsUpper(prev) {
		return false
	}
	var run int
	for j := i + 1; j < len(rs) && unicode.IsLower(rs[j]); j++ {
		run++
	}
	return run > 1
}

// pascal converts a name to PascalCase, uppercasing known acronyms.
func pascal(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	var b strings.Builder
	for _, w := range words {
		if acr := strings.ToUpper(w); len(w) > 1 {
			if _, ok := acronyms[strings.ToLower(w)]; ok {
				b.WriteString(acr)
				continue
			}
		}
		b.WriteString(upperFirst(w))
	}
	return b.String()
}

// camel lower-camels a Pascal-case name. A leading acronym is lowered as a
// unit, keeping the start of the following word intact ("HTTPLog" becomes
// "httpLog").
func camel(s string) string {
	rs := []rune(s)
	i := 0
	for i < len(rs) && unicode.IsUpper(rs[i]) {
		i++
	}
	switch {
	case i == 0:
		return s
	case i == len(rs):
		return strings.ToLower(s)
	case i > 1:
		// Leading acronym followed by a word; its last upper starts the
		// next word.
		i--
	}
	return strings.ToLower(string(rs[:i])) + string(rs[i:])
}

// lowerFirst lowers only the first rune of the name.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	rs := []rune(s)
	return string(unicode.ToLower(rs[0])) + string(rs[1:])
}

// upperFirst uppercases only the first rune of the name.
func upperFirst(s string) string {
	if s == "" {
		return s
	}
	rs := []rune(s)
	return string(unicode.ToUpper(rs[0])) + string(rs[1:])
}

// plural pluralizes a lower-camel name: consonant+"y" becomes "ies",
// sibilant endings (s, sh, ch, x, z) append "es", everything else appends
// "s". Irregular plurals are deliberately not handled; generated output
// depends on this exact heuristic.
func plural(s string) string {
	switch {
	case s == "":
		return s
	case strings.HasSuffix(s, "y") && len(s) > 1 && isConsonant(rune(s[len(s)-2])):
		return s[:len(s)-1] + "ies"
	case strings.HasSuffix(s, "s"), strings.HasSuffix(s, "sh"),
		strings.HasSuffix(s, "ch"), strings.HasSuffix(s, "x"),
		strings.HasSuffix(s, "z"):
		return s + "es"
	default:
		return s + "s"
	}
}

func isConsonant(r rune) bool {
	if !unicode.IsLetter(r) {
		return false
	}
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	}
	return true
}

// oneRelationName derives the relation name of a foreign-key field by
// stripping exactly one trailing "Id" suffix. No suffix means the field
// name is used verbatim; stripping never recurses and never produces an
// empty name.
func oneRelationName(field string) string {
	if len(field) > 2 && strings.HasSuffix(field, "Id") {
		return field[:len(field)-2]
	}
	return field
}

func names(ids ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for i := range ids {
		m[ids[i]] = struct{}{}
	}
	return m
}
