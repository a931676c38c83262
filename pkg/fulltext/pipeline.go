// SPDX-License-Identifier: GPL-3.0-or-later

package fulltext

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Func transforms one token. Returning an empty string drops the token.
type Func func(token string) string

// Pipeline is an ordered list of token functions applied to every token.
type Pipeline struct {
	funcs []Func
}

// NewPipeline returns a pipeline running funcs in order.
func NewPipeline(funcs ...Func) *Pipeline {
	return &Pipeline{funcs: funcs}
}

// IndexPipeline is the pipeline applied to document tokens.
func IndexPipeline() *Pipeline {
	return NewPipeline(Trimmer, StopWordFilter, NormalizeAccents, Stemmer)
}

// SearchPipeline is the pipeline applied to query terms.
func SearchPipeline() *Pipeline {
	return NewPipeline(Trimmer, NormalizeAccents, Stemmer)
}

// Before returns a copy of the pipeline with fn inserted in front of the
// first function matching target. fn is appended when target is not found.
func (p *Pipeline) Before(target Func, fn Func) *Pipeline {
	funcs := make([]Func, 0, len(p.funcs)+1)
	inserted := false
	for _, f := range p.funcs {
		if !inserted && sameFunc(f, target) {
			funcs = append(funcs, fn)
			inserted = true
		}
		funcs = append(funcs, f)
	}
	if !inserted {
		funcs = append(funcs, fn)
	}
	return &Pipeline{funcs: funcs}
}

// Len returns the number of functions in the pipeline.
func (p *Pipeline) Len() int { return len(p.funcs) }

// RunToken passes one token through the pipeline.
func (p *Pipeline) RunToken(token string) string {
	for _, fn := range p.funcs {
		if token = fn(token); token == "" {
			return ""
		}
	}
	return token
}

// Run passes tokens through the pipeline, dropping tokens removed by any step.
func (p *Pipeline) Run(tokens []string) []string {
	out := tokens[:0:0]
	for _, tok := range tokens {
		if tok = p.RunToken(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// Tokenize lowercases text and splits it on whitespace and hyphens.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), isSeparator)
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '-'
}

// Trimmer strips non-word characters from both ends of a token.
func Trimmer(token string) string {
	return strings.TrimFunc(token, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

// StopWordFilter drops common English words.
func StopWordFilter(token string) string {
	if _, ok := stopWords[token]; ok {
		return ""
	}
	return token
}

// NormalizeAccents decomposes the token and removes combining marks, so "café" becomes "cafe".
func NormalizeAccents(token string) string {
	// transform.Transformer keeps state, a chain is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, token)
	if err != nil {
		return token
	}
	return s
}

// Stemmer reduces a token to its English stem.
func Stemmer(token string) string {
	return english.Stem(token, false)
}

func sameFunc(a, b Func) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

var stopWords = func() map[string]struct{} {
	words := strings.Fields(`
		a able about across after all almost also am among an and any are as at
		be because been but by can cannot could dear did do does either else ever
		every for from get got had has have he her hers him his how however i if
		in into is it its just least let like likely may me might most must my
		neither no nor not of off often on only or other our own rather said say
		says she should since so some than that the their them then there these
		they this tis to too twas us wants was we were what when where which while
		who whom why will with would yet you your`)
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
