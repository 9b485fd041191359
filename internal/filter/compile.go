package filter

import (
	"fmt"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/tordrt/kqlgen/internal/config"
	"github.com/tordrt/kqlgen/internal/schema"
)

// Match kinds understood by Compile.
const (
	MatchGlob  = "glob"
	MatchExact = "exact"
	MatchRegex = "regex"
	MatchExpr  = "expr"
)

// Scope describes where a rule set is evaluated, exposed to expr rules.
type Scope struct {
	Kind     schema.Kind
	Database string
}

type exprEnv struct {
	Name     string `expr:"name"`
	Kind     string `expr:"kind"`
	Database string `expr:"database"`
}

// Compile turns a configured rule into an evaluable Rule.
func Compile(rule config.FilterRule, scope Scope) (Rule, error) {
	matcher, err := compileMatcher(rule, scope)
	if err != nil {
		return Rule{}, schema.NewConfigError("filters", fmt.Sprintf("pattern %q: %v", rule.Pattern, err))
	}

	return Rule{Matcher: matcher, Exclude: rule.Exclude}, nil
}

// CompileAll compiles a list of configured rules.
func CompileAll(rules []config.FilterRule, scope Scope) ([]Rule, error) {
	compiled := make([]Rule, 0, len(rules))
	for _, r := range rules {
		c, err := Compile(r, scope)
		if err != nil {
			return nil, err
		}

		compiled = append(compiled, c)
	}

	return compiled, nil
}

func compileMatcher(rule config.FilterRule, scope Scope) (Matcher, error) {
	if rule.Pattern == "" {
		return nil, fmt.Errorf("empty pattern")
	}

	switch rule.Match {
	case "", MatchGlob:
		if !doublestar.ValidatePattern(rule.Pattern) {
			return nil, fmt.Errorf("invalid glob")
		}

		pattern := rule.Pattern
		return MatcherFunc(func(name string) bool {
			ok, err := doublestar.Match(pattern, name)
			return err == nil && ok
		}), nil

	case MatchExact:
		pattern := rule.Pattern
		return MatcherFunc(func(name string) bool {
			return name == pattern
		}), nil

	case MatchRegex:
		re, err := regexp.Compile("^(?:" + rule.Pattern + ")$")
		if err != nil {
			return nil, err
		}

		return MatcherFunc(re.MatchString), nil

	case MatchExpr:
		program, err := expr.Compile(rule.Pattern, expr.Env(exprEnv{}), expr.AsBool())
		if err != nil {
			return nil, err
		}

		return exprMatcher{program: program, scope: scope}, nil

	default:
		return nil, fmt.Errorf("unknown match kind %q", rule.Match)
	}
}

type exprMatcher struct {
	program *vm.Program
	scope   Scope
}

// Match evaluates the program; evaluation errors count as no match.
func (m exprMatcher) Match(name string) bool {
	out, err := expr.Run(m.program, exprEnv{
		Name:     name,
		Kind:     string(m.scope.Kind),
		Database: m.scope.Database,
	})
	if err != nil {
		return false
	}

	ok, _ := out.(bool)
	return ok
}

// ForDatabase builds the flattened rule list for one entity kind of a database,
// in the order: global entity rules, global rules, database rules, database
// entity rules.
func ForDatabase(cfg *config.Config, db config.Database, kind schema.Kind) ([]Rule, error) {
	scope := Scope{Kind: kind, Database: db.Name}

	globalEntity, dbEntity := cfg.Filters.Tables, db.Filters.Tables
	if kind == schema.KindFunction {
		globalEntity, dbEntity = cfg.Filters.Functions, db.Filters.Functions
	}

	var scopes [][]Rule
	for _, rules := range [][]config.FilterRule{globalEntity, cfg.Filters.Global, db.Filters.Global, dbEntity} {
		compiled, err := CompileAll(rules, scope)
		if err != nil {
			return nil, err
		}

		scopes = append(scopes, compiled)
	}

	return Chain(scopes...), nil
}
