// SPDX-License-Identifier: GPL-3.0-or-later

package gridapi

// Sort selects the single active sort column. A nil *Sort means unsorted,
// which keeps the original submission order.
type Sort struct {
	Active    string        `json:"active" yaml:"active"`
	Direction SortDirection `json:"direction" yaml:"direction"`
}

// Equal reports whether both sorts select the same column and direction.
// Two nil sorts are equal.
func (s *Sort) Equal(o *Sort) bool {
	if s == nil || o == nil {
		return s == o
	}
	return *s == *o
}

// Clone returns a copy of the sort, or nil.
func (s *Sort) Clone() *Sort {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
