package repository

import "github.com/torrust/tracker-deployer/pkg/environment"

// Warning names one record List could not read, without aborting the
// rest of the scan (spec §4.9: "list operations skip corrupted records
// but report them in the result's warnings").
type Warning struct {
	Kind    string
	Path    string
	Message string
}

// ListResult is List's return value: the successfully read summaries,
// any warnings from records it had to skip, and the total count of
// environments actually listed (valid_count, per testable property 8 —
// it does not include the skipped/corrupted ones).
type ListResult struct {
	Environments []environment.Summary
	Warnings     []Warning
	TotalCount   int
}

// HasFailures reports whether any warning was attached during the scan.
func (r ListResult) HasFailures() bool {
	return len(r.Warnings) > 0
}
