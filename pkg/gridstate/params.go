// SPDX-License-Identifier: GPL-3.0-or-later

package gridstate

import (
	"net/url"
	"slices"
	"strings"
)

type param struct {
	key   string
	value string
}

// params is an ordered multimap of fragment key/value pairs.
type params []param

func parseParams(fragment string) params {
	fragment = strings.TrimPrefix(fragment, "#")

	var ps params
	for _, part := range strings.Split(fragment, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		ps = append(ps, param{key: unescape(k), value: unescape(v)})
	}
	return ps
}

func (ps params) has(key string) bool {
	return slices.ContainsFunc(ps, func(p param) bool { return p.key == key })
}

func (ps params) get(key string) (string, bool) {
	for _, p := range ps {
		if p.key == key {
			return p.value, true
		}
	}
	return "", false
}

func (ps params) getAll(key string) []string {
	var vals []string
	for _, p := range ps {
		if p.key == key {
			vals = append(vals, p.value)
		}
	}
	return vals
}

func (ps *params) del(key string) {
	*ps = slices.DeleteFunc(*ps, func(p param) bool { return p.key == key })
}

func (ps *params) set(key, value string) {
	ps.del(key)
	ps.add(key, value)
}

func (ps *params) add(key, value string) {
	*ps = append(*ps, param{key: key, value: value})
}

// encode escapes every pair, sorts the pairs and joins them with '&'.
func (ps params) encode() string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		parts = append(parts, escape(p.key, true)+"="+escape(p.value, false))
	}
	slices.Sort(parts)
	return strings.Join(parts, "&")
}

// MergeFragments returns base with every key present in override replaced
// by the override values.
func MergeFragments(base, override string) string {
	ps := parseParams(base)
	ov := parseParams(override)
	for _, p := range ov {
		ps.del(p.key)
	}
	ps = append(ps, ov...)
	return ps.encode()
}

const hexDigits = "0123456789ABCDEF"

// escape percent-encodes only the bytes that would break parsing of the fragment.
func escape(s string, key bool) string {
	if !slices.ContainsFunc([]byte(s), func(c byte) bool { return mustEscape(c, key) }) {
		return s
	}

	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if mustEscape(c, key) {
			sb.WriteByte('%')
			sb.WriteByte(hexDigits[c>>4])
			sb.WriteByte(hexDigits[c&0x0f])
		} else {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func mustEscape(c byte, key bool) bool {
	switch c {
	case '%', '&', '+', '#', ' ':
		return true
	case '=':
		return key
	}
	return c < 0x20 || c == 0x7f
}

func unescape(s string) string {
	v, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return v
}
