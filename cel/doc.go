// Package cel selects book entries with expressions written in Google's
// Common Expression Language.
//
// See https://github.com/google/cel-go and https://opensource.google/projects/cel for more information
// about CEL. The expressions you write must conform to the CEL spec: https://github.com/google/cel-spec.
//
// Each entry is exposed to the expression through these variables:
//
//	name     string  qualified name, e.g. "Nat.add"
//	arity    int     telescope length
//	rules    int     number of pattern-matching rules
//	partial  bool    entry is exempt from coverage
//	axiom    bool    entry is postulated
//
// For example, to check every function of the Nat module that has rules:
//
//	name.startsWith("Nat.") && rules > 0
package cel
