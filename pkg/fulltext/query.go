// SPDX-License-Identifier: GPL-3.0-or-later

package fulltext

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrQuerySyntax = errors.New("query syntax error")

type presence uint8

const (
	presenceOptional presence = iota
	presenceRequired
	presenceProhibited
)

type clause struct {
	field        string
	term         string
	presence     presence
	wildcard     bool
	editDistance int
	boost        int
}

// parseQuery splits a query into clauses. Terms are separated by whitespace and hyphens.
// A leading '+' or '-' sets the presence of the first term of a chunk.
func parseQuery(query string) ([]clause, error) {
	var clauses []clause

	for _, chunk := range strings.Fields(strings.ToLower(query)) {
		pres := presenceOptional
		switch chunk[0] {
		case '+':
			pres, chunk = presenceRequired, chunk[1:]
		case '-':
			pres, chunk = presenceProhibited, chunk[1:]
		}

		field := ""
		if i := strings.IndexByte(chunk, ':'); i >= 0 {
			field, chunk = chunk[:i], chunk[i+1:]
			if field == "" {
				return nil, fmt.Errorf("%w: empty field name in '%s'", ErrQuerySyntax, query)
			}
		}

		for _, part := range strings.Split(chunk, "-") {
			if part == "" {
				continue
			}
			cl, err := parseClause(part)
			if err != nil {
				return nil, err
			}
			cl.field = field
			cl.presence = pres
			pres = presenceOptional
			clauses = append(clauses, cl)
		}
	}

	return clauses, nil
}

func parseClause(s string) (clause, error) {
	var cl clause

	term, mods := s, ""
	if i := strings.IndexAny(s, "~^"); i >= 0 {
		term, mods = s[:i], s[i:]
	}

	for mods != "" {
		op := mods[0]
		mods = mods[1:]
		end := strings.IndexAny(mods, "~^")
		if end < 0 {
			end = len(mods)
		}
		n, err := strconv.Atoi(mods[:end])
		if err != nil || n < 0 {
			return clause{}, fmt.Errorf("%w: '%c' must be followed by a number in '%s'", ErrQuerySyntax, op, s)
		}
		mods = mods[end:]

		if op == '~' {
			cl.editDistance = n
		} else {
			cl.boost = n
		}
	}

	if term == "" {
		return clause{}, fmt.Errorf("%w: missing term in '%s'", ErrQuerySyntax, s)
	}

	cl.term = term
	cl.wildcard = strings.Contains(term, "*")

	return cl, nil
}

// wildcardMatch matches s against pattern where '*' matches any run of runes.
func wildcardMatch(pattern, s string) bool {
	p, t := []rune(pattern), []rune(s)
	pi, ti := 0, 0
	star, mark := -1, 0

	for ti < len(t) {
		switch {
		case pi < len(p) && p[pi] == '*':
			star, mark = pi, ti
			pi++
		case pi < len(p) && p[pi] == t[ti]:
			pi++
			ti++
		case star >= 0:
			pi = star + 1
			mark++
			ti = mark
		default:
			return false
		}
	}
	for pi < len(p) && p[pi] == '*' {
		pi++
	}
	return pi == len(p)
}

// withinDistance reports whether the Levenshtein distance of a and b is at most maxDist.
func withinDistance(a, b string, maxDist int) bool {
	ra, rb := []rune(a), []rune(b)
	if d := len(ra) - len(rb); d > maxDist || -d > maxDist {
		return false
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		rowMin := cur[0]
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			rowMin = min(rowMin, cur[j])
		}
		if rowMin > maxDist {
			return false
		}
		prev, cur = cur, prev
	}

	return prev[len(rb)] <= maxDist
}
