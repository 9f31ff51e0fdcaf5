package pauserule

import "sort"

// Rule is one named break a job role may take per day.
type Rule struct {
	ID              string
	RoleID          string
	Name            string
	Order           int
	DurationMinutes int
}

// Sequence is a role's breaks in the order they are taken: the nth break of
// the day is governed by the nth rule.
type Sequence []Rule

// NewSequence sorts rules by Order.
func NewSequence(rules []Rule) Sequence {
	seq := make(Sequence, len(rules))
	copy(seq, rules)
	sort.SliceStable(seq, func(i, j int) bool { return seq[i].Order < seq[j].Order })
	return seq
}

// Allowed is the number of breaks permitted per day.
func (s Sequence) Allowed() int {
	return len(s)
}

// Nth returns the rule for the nth break of the day, counting from 1.
func (s Sequence) Nth(n int) (Rule, bool) {
	if n < 1 || n > len(s) {
		return Rule{}, false
	}
	return s[n-1], true
}

// TotalMinutes is the daily break allowance.
func (s Sequence) TotalMinutes() int {
	total := 0
	for _, r := range s {
		total += r.DurationMinutes
	}
	return total
}
