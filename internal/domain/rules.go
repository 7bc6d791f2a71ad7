package domain

import (
	"errors"
	"fmt"
	"regexp"

	m "gooze.dev/pkg/triage/internal/model"
)

// Built-in exclusion category names, in priority order.
const (
	CategoryConstructorInfrastructure = "Constructor Infrastructure"
	CategoryObviousRequires           = "Obvious Require Statements"
	CategoryEquivalentMath            = "Equivalent Math Operations"
	CategoryLoopInfrastructure        = "Loop Infrastructure"
	CategoryNullZeroChecks            = "Null/Zero Checks"
)

// ErrInvalidRule is returned when a rule set cannot be compiled.
var ErrInvalidRule = errors.New("invalid exclusion rule")

// DefaultExclusionCategories returns the built-in rule table. Every pattern
// targets a narrow syntactic shape so that interesting mutations are not
// swept up by broad keywords.
func DefaultExclusionCategories() []m.ExclusionCategory {
	return []m.ExclusionCategory{
		{
			Name:    CategoryConstructorInfrastructure,
			Summary: "Constructor infrastructure (approvals, array setup)",
			Patterns: []string{
				`oracle\.update.*assert\(true\)`,
				`\.approve.*assert\(true\)`,
				`poolTokens\.push.*assert\(true\)`,
				`poolTokenSymbols\.push.*assert\(true\)`,
				`rewardTokens\.push.*assert\(true\)`,
				`i\+\+.*assert\(true\)`,
				`underlyingWeights\[pool\].*assert\(true\)`,
			},
		},
		{
			Name:    CategoryObviousRequires,
			Summary: "Obvious require mutations (true/false)",
			Patterns: []string{
				`require.*== true,true`,
				`require.*== false,false`,
				`RequireMutation.*,true$`,
				`RequireMutation.*,false$`,
			},
		},
		{
			Name:    CategoryEquivalentMath,
			Summary: "Equivalent math operations",
			Patterns: []string{
				`10000 / poolTokens\.length,poolTokens\.length / 10000`,
				`/ ,\*\*`,
				`weights\[i\],0`,
				`weights\[i\],1`,
			},
		},
		{
			Name:    CategoryLoopInfrastructure,
			Summary: "Loop infrastructure patterns",
			Patterns: []string{
				`poolTokens\.length < i`,
				`weights\.length < i`,
				`rewardTokens\.length < i`,
				`\+\+,--`,
			},
		},
		{
			Name:    CategoryNullZeroChecks,
			Summary: "Null/zero validation checks",
			Patterns: []string{
				`address\(.*\) != address\(0\),true`,
				`address\(.*\) != address\(0\),false`,
				`!= address\(0\)\),(true|false)$`,
				`allocatedAmount > 0,0 > allocatedAmount`,
			},
		},
	}
}

type compiledCategory struct {
	category m.ExclusionCategory
	patterns []*regexp.Regexp
}

// RuleEngine classifies mutation descriptions against an ordered rule table.
type RuleEngine struct {
	categories []compiledCategory
}

// defaultRuleEngine is compiled once at start-up; a bad built-in pattern panics.
var defaultRuleEngine = mustRuleEngine(DefaultExclusionCategories())

// DefaultRuleEngine returns the engine for the built-in rule table.
func DefaultRuleEngine() *RuleEngine {
	return defaultRuleEngine
}

// NewRuleEngine compiles the given categories, preserving their order.
func NewRuleEngine(categories []m.ExclusionCategory) (*RuleEngine, error) {
	engine := &RuleEngine{categories: make([]compiledCategory, 0, len(categories))}

	seen := make(map[string]struct{}, len(categories))

	for _, category := range categories {
		if category.Name == "" {
			return nil, fmt.Errorf("category without a name: %w", ErrInvalidRule)
		}

		if _, dup := seen[category.Name]; dup {
			return nil, fmt.Errorf("duplicate category %q: %w", category.Name, ErrInvalidRule)
		}

		seen[category.Name] = struct{}{}

		compiled := compiledCategory{
			category: category,
			patterns: make([]*regexp.Regexp, 0, len(category.Patterns)),
		}

		for _, pattern := range category.Patterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("category %q pattern %q: %w: %w", category.Name, pattern, ErrInvalidRule, err)
			}

			compiled.patterns = append(compiled.patterns, re)
		}

		engine.categories = append(engine.categories, compiled)
	}

	return engine, nil
}

func mustRuleEngine(categories []m.ExclusionCategory) *RuleEngine {
	engine, err := NewRuleEngine(categories)
	if err != nil {
		panic(err)
	}

	return engine
}

// Extend returns a new engine evaluating extra categories after the current ones.
func (e *RuleEngine) Extend(extra []m.ExclusionCategory) (*RuleEngine, error) {
	more, err := NewRuleEngine(extra)
	if err != nil {
		return nil, err
	}

	for _, compiled := range more.categories {
		if e.hasCategory(compiled.category.Name) {
			return nil, fmt.Errorf("category %q already defined: %w", compiled.category.Name, ErrInvalidRule)
		}
	}

	merged := make([]compiledCategory, 0, len(e.categories)+len(more.categories))
	merged = append(merged, e.categories...)
	merged = append(merged, more.categories...)

	return &RuleEngine{categories: merged}, nil
}

func (e *RuleEngine) hasCategory(name string) bool {
	for _, compiled := range e.categories {
		if compiled.category.Name == name {
			return true
		}
	}

	return false
}

// Classify reports whether description should be excluded and which category
// matched first.
func (e *RuleEngine) Classify(description string) (bool, string) {
	for _, compiled := range e.categories {
		for _, re := range compiled.patterns {
			if re.MatchString(description) {
				return true, compiled.category.Name
			}
		}
	}

	return false, ""
}

// ClassifyRecord wraps Classify for a whole record.
func (e *RuleEngine) ClassifyRecord(record m.MutationRecord) m.Classification {
	excluded, category := e.Classify(record.Description)

	return m.Classification{
		Record:   record,
		Excluded: excluded,
		Category: category,
	}
}

// Categories returns the rule table in priority order.
func (e *RuleEngine) Categories() []m.ExclusionCategory {
	categories := make([]m.ExclusionCategory, 0, len(e.categories))
	for _, compiled := range e.categories {
		categories = append(categories, compiled.category)
	}

	return categories
}
