// Package roster resolves noisy play-by-play names against a canonical roster
// using token-based string similarity on a 0-100 scale.
package roster

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Scorer returns the similarity of two strings on a 0-100 scale.
type Scorer func(a, b string) int

// indel is Levenshtein with substitutions priced as a delete plus an insert,
// so its distance is len(a)+len(b)-2*LCS.
var indel = &metrics.Levenshtein{
	CaseSensitive: true,
	InsertCost:    1,
	DeleteCost:    1,
	ReplaceCost:   2,
}

// Process lowercases s, turns every non-alphanumeric rune into a space and trims.
func Process(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.TrimSpace(b.String())
}

// Ratio is the indel-normalised similarity 100*(1 - dist/(len(a)+len(b))) of
// the processed inputs. Either side empty scores 0.
func Ratio(a, b string) int {
	return ratio(Process(a), Process(b))
}

// TokenSortRatio compares the inputs after sorting their tokens, so word order
// ("SMITH,HEAVEN" vs "Heaven Smith") does not matter.
func TokenSortRatio(a, b string) int {
	return ratio(sortedTokens(a), sortedTokens(b))
}

// TokenSetRatio scores the shared tokens against each side's remainder. A name
// whose tokens are a subset of the other's scores 100.
func TokenSetRatio(a, b string) int {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var sect, onlyA, onlyB []string
	for _, t := range ta {
		if strutil.SliceContains(tb, t) {
			sect = append(sect, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for _, t := range tb {
		if !strutil.SliceContains(ta, t) {
			onlyB = append(onlyB, t)
		}
	}

	base := strings.Join(sect, " ")
	combinedA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	best := ratio(combinedA, combinedB)
	if s := ratio(base, combinedA); s > best {
		best = s
	}
	if s := ratio(base, combinedB); s > best {
		best = s
	}
	return best
}

// PartialRatio scores the shorter input against its best-aligned window of the
// longer one. Used for free-text search where the query is a fragment.
func PartialRatio(a, b string) int {
	s1, s2 := []rune(Process(a)), []rune(Process(b))
	if len(s1) > len(s2) {
		s1, s2 = s2, s1
	}
	m := len(s1)
	if m == 0 {
		return 0
	}
	short := string(s1)
	if strings.Contains(string(s2), short) {
		return 100
	}

	best := 0
	consider := func(window []rune) {
		if s := ratio(short, string(window)); s > best {
			best = s
		}
	}
	for i := 0; i+m <= len(s2); i++ {
		consider(s2[i : i+m])
	}
	// Windows hanging off either end of the longer string.
	for k := 1; k < m && k <= len(s2); k++ {
		consider(s2[:k])
		consider(s2[len(s2)-k:])
	}
	return best
}

func ratio(a, b string) int {
	total := len([]rune(a)) + len([]rune(b))
	if a == "" || b == "" {
		return 0
	}
	dist := indel.Distance(a, b)
	return int(math.Round(100 * float64(total-dist) / float64(total)))
}

func sortedTokens(s string) string {
	toks := strings.Fields(Process(s))
	sort.Strings(toks)
	return strings.Join(toks, " ")
}

// tokenSet returns the unique processed tokens of s, sorted.
func tokenSet(s string) []string {
	toks := strutil.UniqueSlice(strings.Fields(Process(s)))
	sort.Strings(toks)
	return toks
}
