package migrate

import (
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Outcome is the decision taken for one file.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
	OutcomeError   Outcome = "error"
)

// FileResult is the outcome for one input entry.
type FileResult struct {
	File    string
	ID      string
	Outcome Outcome
	// Record is the candidate built from the file; nil when the file could
	// not be turned into one.
	Record *interfaces.PostInput
	Err    error
}

// Failure pairs a file with the error that stopped it.
type Failure struct {
	File string
	Err  error
}

// Report aggregates a migration run. Created+Updated+Skipped+Errors always
// equals len(Results).
type Report struct {
	DryRun  bool
	Created int
	Updated int
	Skipped int
	Errors  int
	// Interrupted is set when the context was cancelled before every entry
	// was processed.
	Interrupted bool
	Results     []FileResult
	// Preview lists the candidates a dry run would have written.
	Preview []FileResult
}

// Total is the number of entries processed.
func (r Report) Total() int {
	return r.Created + r.Updated + r.Skipped + r.Errors
}

// Count returns the counter for outcome.
func (r Report) Count(outcome Outcome) int {
	switch outcome {
	case OutcomeCreated:
		return r.Created
	case OutcomeUpdated:
		return r.Updated
	case OutcomeSkipped:
		return r.Skipped
	case OutcomeError:
		return r.Errors
	default:
		return 0
	}
}

// Failures returns the files that ended in OutcomeError, in input order.
func (r Report) Failures() []Failure {
	var out []Failure
	for _, res := range r.Results {
		if res.Outcome == OutcomeError {
			out = append(out, Failure{File: res.File, Err: res.Err})
		}
	}
	return out
}

func (r *Report) add(res FileResult) {
	switch res.Outcome {
	case OutcomeCreated:
		r.Created++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeSkipped:
		r.Skipped++
	default:
		res.Outcome = OutcomeError
		r.Errors++
	}
	r.Results = append(r.Results, res)
	if r.DryRun && res.Record != nil && res.Outcome == OutcomeCreated {
		r.Preview = append(r.Preview, res)
	}
}
