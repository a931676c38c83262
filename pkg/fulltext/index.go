// SPDX-License-Identifier: GPL-3.0-or-later

package fulltext

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

var ErrUnknownField = errors.New("unknown field")

// FieldName normalizes a column heading to an index field name: lowercase,
// every rune outside [a-z0-9] replaced with '-'.
func FieldName(heading string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(heading) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// Builder accumulates documents for one index. It is not safe for concurrent use.
type Builder struct {
	Pipeline       *Pipeline
	SearchPipeline *Pipeline

	fields   []string
	postings map[string]map[string]*roaring.Bitmap
	docs     *roaring.Bitmap
}

// NewBuilder returns a builder for an index with the given field names.
// Duplicate names share one field.
func NewBuilder(fields ...string) *Builder {
	b := &Builder{
		Pipeline:       IndexPipeline(),
		SearchPipeline: SearchPipeline(),
		postings:       make(map[string]map[string]*roaring.Bitmap, len(fields)),
		docs:           roaring.New(),
	}
	for _, f := range fields {
		if _, ok := b.postings[f]; ok {
			continue
		}
		b.fields = append(b.fields, f)
		b.postings[f] = make(map[string]*roaring.Bitmap)
	}
	return b
}

// Add indexes one document. Every key of doc must be a declared field.
func (b *Builder) Add(ref uint32, doc map[string]string) error {
	for field := range doc {
		if _, ok := b.postings[field]; !ok {
			return fmt.Errorf("document %d: %w '%s'", ref, ErrUnknownField, field)
		}
	}

	b.docs.Add(ref)

	for field, text := range doc {
		terms := b.postings[field]
		for _, tok := range b.Pipeline.Run(Tokenize(text)) {
			bm, ok := terms[tok]
			if !ok {
				bm = roaring.New()
				terms[tok] = bm
			}
			bm.Add(ref)
		}
	}

	return nil
}

// Build freezes the builder into a searchable index.
func (b *Builder) Build() *Index {
	idx := &Index{
		fields:   b.fields,
		postings: b.postings,
		vocab:    make(map[string][]string, len(b.fields)),
		docs:     b.docs,
		pipeline: b.SearchPipeline,
	}
	for field, terms := range b.postings {
		vocab := make([]string, 0, len(terms))
		for term, bm := range terms {
			bm.RunOptimize()
			vocab = append(vocab, term)
		}
		slices.Sort(vocab)
		idx.vocab[field] = vocab
	}
	return idx
}

// Document is one indexed row.
type Document struct {
	Ref    uint32
	Fields map[string]string
}

// Build indexes docs over fields with the default pipelines.
func Build(fields []string, docs []Document) (*Index, error) {
	b := NewBuilder(fields...)
	for _, doc := range docs {
		if err := b.Add(doc.Ref, doc.Fields); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// Index is an immutable inverted index. Search is safe for concurrent use.
type Index struct {
	fields   []string
	postings map[string]map[string]*roaring.Bitmap
	vocab    map[string][]string
	docs     *roaring.Bitmap
	pipeline *Pipeline
}

// Fields returns the field names in declaration order.
func (idx *Index) Fields() []string { return idx.fields }

// Len returns the number of indexed documents.
func (idx *Index) Len() int { return int(idx.docs.GetCardinality()) }

// Search evaluates a query and returns the refs of matching documents.
//
// Terms are OR'ed. "+term" is required, "-term" is prohibited, "field:term"
// restricts a term to one field, "*" is a wildcard, "term~N" matches within
// edit distance N and "term^N" is accepted and ignored. A query with only
// prohibited terms matches every document not prohibited. An empty query
// matches nothing.
func (idx *Index) Search(query string) (MatchSet, error) {
	clauses, err := parseQuery(query)
	if err != nil {
		return EmptyMatchSet(), err
	}
	if len(clauses) == 0 {
		return EmptyMatchSet(), nil
	}

	var required *roaring.Bitmap
	optional := roaring.New()
	prohibited := roaring.New()
	hasOptional := false

	for _, cl := range clauses {
		matched, err := idx.match(cl)
		if err != nil {
			return EmptyMatchSet(), err
		}

		switch cl.presence {
		case presenceRequired:
			if required == nil {
				required = matched
			} else {
				required.And(matched)
			}
		case presenceProhibited:
			prohibited.Or(matched)
		default:
			optional.Or(matched)
			hasOptional = true
		}
	}

	var result *roaring.Bitmap
	switch {
	case required != nil:
		result = required
	case hasOptional:
		result = optional
	default:
		result = idx.docs.Clone()
	}
	result.AndNot(prohibited)

	return MatchSet{bm: result}, nil
}

func (idx *Index) match(cl clause) (*roaring.Bitmap, error) {
	fields := idx.fields
	if cl.field != "" {
		if _, ok := idx.postings[cl.field]; !ok {
			return nil, fmt.Errorf("%w '%s'", ErrUnknownField, cl.field)
		}
		fields = []string{cl.field}
	}

	term := cl.term
	if cl.wildcard {
		term = NormalizeAccents(term)
	} else {
		term = idx.pipeline.RunToken(term)
	}

	matched := roaring.New()
	if term == "" {
		return matched, nil
	}

	for _, field := range fields {
		terms := idx.postings[field]
		switch {
		case cl.wildcard:
			for _, t := range idx.vocab[field] {
				if wildcardMatch(term, t) {
					matched.Or(terms[t])
				}
			}
		case cl.editDistance > 0:
			for _, t := range idx.vocab[field] {
				if withinDistance(term, t, cl.editDistance) {
					matched.Or(terms[t])
				}
			}
		default:
			if bm, ok := terms[term]; ok {
				matched.Or(bm)
			}
		}
	}

	return matched, nil
}

// MatchSet is the set of document refs a query matched.
type MatchSet struct {
	bm *roaring.Bitmap
}

// EmptyMatchSet returns a set matching nothing.
func EmptyMatchSet() MatchSet { return MatchSet{bm: roaring.New()} }

// Contains reports whether ref matched.
func (m MatchSet) Contains(ref int) bool {
	return m.bm != nil && ref >= 0 && m.bm.Contains(uint32(ref))
}

// Len returns the number of matches.
func (m MatchSet) Len() int {
	if m.bm == nil {
		return 0
	}
	return int(m.bm.GetCardinality())
}

// Refs returns the matched refs in ascending order.
func (m MatchSet) Refs() []int {
	if m.bm == nil {
		return nil
	}
	refs := make([]int, 0, m.bm.GetCardinality())
	it := m.bm.Iterator()
	for it.HasNext() {
		refs = append(refs, int(it.Next()))
	}
	return refs
}
