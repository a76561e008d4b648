package naming

import "strings"

// Singularize applies the spec's minimal English rule set exactly once:
//
//	-ies   -> -y      (categories -> category)
//	-sses  -> -ss      (addresses -> address; NOT -> addres)
//	-s     -> ""       (only when the preceding character is a consonant)
//
// Irregular plurals (children, people, ...) are not handled. Input that
// resists every rule (because it doesn't end in a recognized plural
// suffix) is returned unchanged — callers must not treat that as an error.
func Singularize(word string) string {
	lower := strings.ToLower(word)

	switch {
	case strings.HasSuffix(lower, "ies") && len(word) > 3:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(lower, "sses"):
		return word[:len(word)-2]
	case strings.HasSuffix(lower, "s") && len(word) > 1 && !isVowel(rune(lower[len(lower)-2])):
		return word[:len(word)-1]
	default:
		return word
	}
}

// Pluralize is the best-effort inverse of Singularize, used for bulk
// method names. It is not guaranteed to round-trip every Singularize
// output. Words ending in -ss, -us, -sh, -ch, -x or -z take -es
// (status -> statuses); any other word already ending in s is returned
// unchanged.
func Pluralize(word string) string {
	lower := strings.ToLower(word)

	switch {
	case strings.HasSuffix(lower, "y") && len(word) > 1 && !isVowel(rune(lower[len(lower)-2])):
		return word[:len(word)-1] + "ies"
	case strings.HasSuffix(lower, "ss") || strings.HasSuffix(lower, "us") || strings.HasSuffix(lower, "sh") ||
		strings.HasSuffix(lower, "ch") || strings.HasSuffix(lower, "x") || strings.HasSuffix(lower, "z"):
		return word + "es"
	case strings.HasSuffix(lower, "s"):
		return word
	default:
		return word + "s"
	}
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	default:
		return false
	}
}
