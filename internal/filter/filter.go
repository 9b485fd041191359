// Package filter decides which discovered entities are generated.
//
// Rules are evaluated by existence, not by position: a name matched by any
// include rule is kept, otherwise a name matched by any exclude rule is dropped,
// otherwise it is kept.
package filter

// Matcher reports whether a rule applies to an entity name.
type Matcher interface {
	Match(name string) bool
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(name string) bool

// Match calls f(name).
func (f MatcherFunc) Match(name string) bool {
	return f(name)
}

// Rule is a matcher plus the decision it stands for.
type Rule struct {
	Matcher
	Exclude bool
}

// Keep decides whether name survives the rules.
func Keep(name string, rules []Rule) bool {
	for _, r := range rules {
		if !r.Exclude && r.Match(name) {
			return true
		}
	}

	for _, r := range rules {
		if r.Exclude && r.Match(name) {
			return false
		}
	}

	return true
}

// Apply returns the items whose name is kept, in their original order.
func Apply[T any](items []T, name func(T) string, rules []Rule) []T {
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if Keep(name(item), rules) {
			kept = append(kept, item)
		}
	}

	return kept
}

// Chain flattens rule scopes into one list.
func Chain(scopes ...[]Rule) []Rule {
	var rules []Rule
	for _, scope := range scopes {
		rules = append(rules, scope...)
	}

	return rules
}
