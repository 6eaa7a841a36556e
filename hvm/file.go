package hvm

import (
	"sort"
	"strings"
)

// Rule rewrites terms matching LHS into RHS. LHS is always a constructor
// whose arguments are patterns.
type Rule struct {
	LHS Term
	RHS Term
}

func (r Rule) String() string {
	return r.LHS.String() + " = " + r.RHS.String()
}

// Head returns the name of the function the rule defines.
func (r Rule) Head() string {
	if c, ok := r.LHS.(*Ctr); ok {
		return c.Name
	}
	return ""
}

// SMap records which arguments of a function the evaluator must reduce
// before matching.
type SMap struct {
	Name   string
	Strict []bool
}

// File is a set of rewrite rules handed to the evaluator as a whole. Rule
// order is significant: the evaluator tries rules of the same head in the
// order they appear.
type File struct {
	Rules []Rule
	SMaps []SMap
}

// Add appends a rule.
func (f *File) Add(lhs, rhs Term) {
	f.Rules = append(f.Rules, Rule{LHS: lhs, RHS: rhs})
}

// String renders one rule per line in evaluator syntax.
func (f *File) String() string {
	s := strings.Builder{}
	for _, r := range f.Rules {
		s.WriteString(r.String())
		s.WriteString("\n")
	}
	return s.String()
}

// HeadCount is the number of rules defining one function.
type HeadCount struct {
	Head  string
	Rules int
}

// Heads counts rules per function, ordered by name.
func (f *File) Heads() []HeadCount {
	counts := map[string]int{}
	for _, r := range f.Rules {
		counts[r.Head()]++
	}
	heads := make([]HeadCount, 0, len(counts))
	for h, n := range counts {
		heads = append(heads, HeadCount{Head: h, Rules: n})
	}
	sort.Slice(heads, func(i, j int) bool {
		return heads[i].Head < heads[j].Head
	})
	return heads
}

// Find returns the rules whose left-hand side is headed by name.
func (f *File) Find(name string) []Rule {
	var rules []Rule
	for _, r := range f.Rules {
		if r.Head() == name {
			rules = append(rules, r)
		}
	}
	return rules
}
