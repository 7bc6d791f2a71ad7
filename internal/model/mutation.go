// Package model defines the data structures for mutation triage.
package model

// Path represents a file system path.
type Path string

// Well-known mutation type tags emitted by the mutation engine.
const (
	IfStatementMutation = "IfStatementMutation"
	AssignmentMutation  = "AssignmentMutation"
)

// MutationRecord is one parsed line of the mutation log.
type MutationRecord struct {
	ID          int
	Type        string
	File        Path
	Location    string
	Description string // original and replacement fragments, comma joined
	Raw         string // trimmed source line
	Line        int    // 1-based line number in the log
}
