package extract

import (
	"regexp"
	"sort"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// monthPattern matches a 1-3 digit number followed by month/months. Any
// Unicode space may separate them. Word edges are checked by wordEdges
// since RE2 boundaries are ASCII only.
var monthPattern = regexp.MustCompile(`(?i)(\d{1,3})[\s\p{Z}]*months?`)

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// wordEdges reports whether s[start:end] is not glued to a letter or digit
func wordEdges(s string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(s[:start]); isWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		if r, _ := utf8.DecodeRuneInString(s[end:]); isWordRune(r) {
			return false
		}
	}
	return true
}

// MonthSet is the set of month durations mentioned in a group of facts
type MonthSet map[int]struct{}

// ExtractMonths collects every month value mentioned in facts
func ExtractMonths(facts []string) MonthSet {
	set := make(MonthSet)
	for _, fact := range facts {
		for _, m := range monthPattern.FindAllStringSubmatchIndex(fact, -1) {
			if !wordEdges(fact, m[0], m[1]) {
				continue
			}
			n, err := strconv.Atoi(fact[m[2]:m[3]])
			if err != nil {
				continue
			}
			set[n] = struct{}{}
		}
	}
	return set
}

// Add merges other into s
func (s MonthSet) Add(other MonthSet) {
	for n := range other {
		s[n] = struct{}{}
	}
}

// Len returns the number of distinct values
func (s MonthSet) Len() int {
	return len(s)
}

// Conflicting reports whether more than one distinct value was seen
func (s MonthSet) Conflicting() bool {
	return len(s) > 1
}

// Sorted returns the values in ascending order
func (s MonthSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
