package domain

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	m "gooze.dev/pkg/triage/internal/model"
)

// recordFields is the number of comma separated fields in a log line. Only the
// first four commas delimit; the description keeps any commas it contains.
const recordFields = 5

// ErrMalformedLine is returned for log lines that cannot become a record.
var ErrMalformedLine = errors.New("malformed mutation log line")

// ParseResult is the outcome of parsing a whole mutation log.
type ParseResult struct {
	Records   []m.MutationRecord
	Malformed []int // 1-based line numbers that were skipped
}

// ParseRecord turns one raw log line into a MutationRecord.
func ParseRecord(line string, lineNo int) (m.MutationRecord, error) {
	trimmed := strings.TrimSpace(line)

	parts := strings.SplitN(trimmed, ",", recordFields)
	if len(parts) < recordFields {
		return m.MutationRecord{}, fmt.Errorf("line %d: %d fields: %w", lineNo, len(parts), ErrMalformedLine)
	}

	id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return m.MutationRecord{}, fmt.Errorf("line %d: id %q: %w", lineNo, parts[0], ErrMalformedLine)
	}

	return m.MutationRecord{
		ID:          id,
		Type:        parts[1],
		File:        m.Path(parts[2]),
		Location:    parts[3],
		Description: parts[4],
		Raw:         trimmed,
		Line:        lineNo,
	}, nil
}

// ParseLog parses every line of a mutation log. Malformed lines, including
// blank lines between records, are skipped and reported. Blank lines at the
// end of the log are ignored.
func ParseLog(lines []string) ParseResult {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	result := ParseResult{Records: make([]m.MutationRecord, 0, len(lines))}

	for i, line := range lines {
		record, err := ParseRecord(line, i+1)
		if err != nil {
			slog.Warn("Skipping malformed mutation line", "line", i+1, "error", err)
			result.Malformed = append(result.Malformed, i+1)

			continue
		}

		result.Records = append(result.Records, record)
	}

	slog.Debug("Parsed mutation log", "records", len(result.Records), "malformed", len(result.Malformed))

	return result
}
