// Package moderation masks banned terms in outgoing message text. The
// match runs over a folded view of the text (lowercased, separators
// dropped) so spacing and casing tricks do not slip a term through,
// while the mask is applied to the original runes to preserve layout.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Filter struct {
	machine *goahocorasick.Machine
	mask    rune
}

// NewFilter builds the Aho-Corasick automaton over the folded banned
// terms. mask replaces every masked rune, typically '*'.
func NewFilter(terms []string, mask rune) (*Filter, error) {
	patterns := make([][]rune, 0, len(terms))
	for _, term := range terms {
		folded, _ := fold([]rune(term))
		if len(folded) > 0 {
			patterns = append(patterns, folded)
		}
	}
	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return &Filter{machine: machine, mask: mask}, nil
}

// Apply returns the censored text and the folded terms that were hit.
// Text without any hit is returned unchanged.
func (f *Filter) Apply(text string) (string, []string) {
	original := []rune(text)
	folded, origIdx := fold(original)
	if len(folded) == 0 {
		return text, nil
	}

	spans := f.machine.MultiPatternSearch(folded, false)
	if len(spans) == 0 {
		return text, nil
	}

	var hits []string
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		hits = append(hits, string(span.Word))
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			original[i] = f.mask
		}
	}
	return string(original), hits
}

// fold lowercases and keeps only letters and digits, remembering where
// each kept rune sits in the original text.
func fold(in []rune) ([]rune, []int) {
	folded := make([]rune, 0, len(in))
	origIdx := make([]int, 0, len(in))
	for i, r := range in {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		folded = append(folded, unicode.ToLower(r))
		origIdx = append(origIdx, i)
	}
	return folded, origIdx
}
