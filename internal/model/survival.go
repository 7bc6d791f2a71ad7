package model

// GapCategory buckets a surviving mutation by the kind of coverage gap it exposes.
type GapCategory string

const (
	GapFinancialCalculations GapCategory = "financial_calculations"
	GapDeFiIntegration       GapCategory = "defi_integration"
	GapSlippageProtection    GapCategory = "slippage_protection"
	GapWeightDistribution    GapCategory = "weight_distribution"
	GapConstructorLogic      GapCategory = "constructor_logic"
	GapLoopOperations        GapCategory = "loop_operations"
	GapConditionalStatements GapCategory = "conditional_statements"
	GapAssignments           GapCategory = "assignments"
	GapOther                 GapCategory = "other"
)

// GapCategories lists every category in report order.
var GapCategories = []GapCategory{
	GapFinancialCalculations,
	GapDeFiIntegration,
	GapSlippageProtection,
	GapWeightDistribution,
	GapConstructorLogic,
	GapLoopOperations,
	GapConditionalStatements,
	GapAssignments,
	GapOther,
}

var gapTitles = map[GapCategory]string{
	GapFinancialCalculations: "Financial Calculations",
	GapDeFiIntegration:       "DeFi Integration",
	GapSlippageProtection:    "Slippage Protection",
	GapWeightDistribution:    "Weight Distribution",
	GapConstructorLogic:      "Constructor Logic",
	GapLoopOperations:        "Loop Operations",
	GapConditionalStatements: "Conditional Statements",
	GapAssignments:           "Assignments",
	GapOther:                 "Other",
}

// Title returns the human readable section title.
func (c GapCategory) Title() string {
	if title, ok := gapTitles[c]; ok {
		return title
	}

	return string(c)
}

// Cluster is a maximal run of consecutive surviving mutation IDs.
type Cluster struct {
	First    int
	Last     int
	IDs      []int
	Dominant GapCategory
}

// Finding is a hand-curated note about an ID range of special interest.
type Finding struct {
	Title       string `yaml:"title"`
	First       int    `yaml:"first"`
	Last        int    `yaml:"last"`
	Pattern     string `yaml:"pattern"`
	Impact      string `yaml:"impact"`
	TestsNeeded string `yaml:"tests_needed"`
}

// SurvivalAnalysis is the categorized view of the surviving mutations.
type SurvivalAnalysis struct {
	Buckets      map[GapCategory][]MutationRecord
	Surviving    int // surviving IDs found in the record set
	Unknown      []int
	TotalRecords int
	SurvivalRate float64
	Clusters     []Cluster
	Findings     []Finding
}
