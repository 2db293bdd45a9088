package textutil

import "strings"

// Normalize collapses runs of whitespace into single spaces and trims the
// ends. Case is preserved; use Fold for comparison forms.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Fold returns the lower-cased, trimmed form used for all comparisons and
// lookups. Lower-casing is Unicode-aware.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Tokenize splits the folded form of s on whitespace, dropping empty tokens.
func Tokenize(s string) []string {
	return strings.Fields(Fold(s))
}

// SimilarityPercent scores how alike two strings are as a percentage of their
// combined length, counting matching characters found by repeatedly locating
// the longest common substring and recursing into the unmatched ends. Byte
// oriented; callers are expected to pass folded terms.
func SimilarityPercent(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	return float64(similarChars(a, b)*200) / float64(total)
}

func similarChars(a, b string) int {
	pos1, pos2, length := longestCommonSubstring(a, b)
	if length == 0 {
		return 0
	}
	sum := length
	sum += similarChars(a[:pos1], b[:pos2])
	sum += similarChars(a[pos1+length:], b[pos2+length:])
	return sum
}

func longestCommonSubstring(a, b string) (pos1, pos2, length int) {
	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			k := 0
			for i+k < len(a) && j+k < len(b) && a[i+k] == b[j+k] {
				k++
			}
			if k > length {
				pos1, pos2, length = i, j, k
			}
		}
	}
	return
}
