package model

// ExclusionCategory is a named, ordered group of description patterns.
type ExclusionCategory struct {
	Name     string   `yaml:"name"`
	Summary  string   `yaml:"summary"`
	Patterns []string `yaml:"patterns"`
}

// Classification is the rule engine verdict for a single record.
type Classification struct {
	Record   MutationRecord
	Excluded bool
	Category string // empty unless Excluded
}

// FilterSummary holds the aggregate statistics of a filter run.
type FilterSummary struct {
	Total           int
	Excluded        int
	Included        int
	Malformed       int
	ExcludedPercent float64
	IncludedPercent float64
	Categories      []ExclusionCategory
	Matches         map[string]int // excluded records per category name
}

// FilterResult is the partitioned record set plus its statistics.
type FilterResult struct {
	Excluded []Classification
	Included []Classification
	Summary  FilterSummary
}
