package errors

import (
	"encoding/json"

	"github.com/pion-lang/pion/internal/ast"
)

// Label attaches a message to a source range; Report.PrimaryLabel is
// always set for a located diagnostic, SecondaryLabels add supporting
// context when attached through WithSecondary (no phase attaches one
// today; ELB006 carries only its primary label).
type Label struct {
	File  string    `json:"file"`
	Range ast.Range `json:"range"`
	Msg   string    `json:"msg,omitempty"`
}

// Report is the canonical structured diagnostic produced by every phase.
// It carries both the teacher's AI-facing shape (Schema/Code/Phase/Data)
// and the severity/label shape; New repeats Message as PrimaryLabel.Msg,
// and PrimaryLabel.Range is the diagnostic's source span.
type Report struct {
	Schema          string         `json:"schema"`
	Code            string         `json:"code"`
	Phase           string         `json:"phase"`
	Severity        Severity       `json:"severity"`
	Message         string         `json:"message"`
	PrimaryLabel    Label          `json:"primary_label"`
	SecondaryLabels []Label        `json:"secondary_labels,omitempty"`
	Data            map[string]any `json:"data,omitempty"`
}

// ToJSON renders r as deterministic JSON, indented when compact is false.
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// New builds a Report for code at rng in file, with the given message.
// Phase is derived from the code's prefix (LEX/PAR/ELB/MAT) so callers
// never need to pass it redundantly.
func New(code, file, message string, rng ast.Range) *Report {
	sev := SeverityError
	if code == MAT002 {
		sev = SeverityWarning
	}
	return &Report{
		Schema:       "pion.error/v1",
		Code:         code,
		Phase:        phaseOf(code),
		Severity:     sev,
		Message:      message,
		PrimaryLabel: Label{File: file, Range: rng, Msg: message},
	}
}

func phaseOf(code string) string {
	if len(code) < 3 {
		return "unknown"
	}
	switch code[:3] {
	case "LEX":
		return "lexer"
	case "PAR":
		return "parser"
	case "ELB":
		return "elaborate"
	case "MAT":
		return "match"
	default:
		return "unknown"
	}
}

// WithSecondary returns r with an additional secondary label attached,
// for diagnostics that need to point at more than one span (e.g. an
// unsolved metavariable's point of introduction alongside its use).
func (r *Report) WithSecondary(l Label) *Report {
	r.SecondaryLabels = append(r.SecondaryLabels, l)
	return r
}

// Error implements the error interface so a *Report can be returned
// anywhere a plain error is expected.
func (r *Report) Error() string { return r.Code + ": " + r.Message }

// Sink collects diagnostics as elaboration discovers them, in source
// order, without aborting the pipeline — the error-recovering
// propagation policy: Report returns nil on success. The lexer, parser and
// elaborator discard Report's return value, so a non-nil return does not
// stop the pipeline; reporting and elaboration carry on.
type Sink interface {
	Report(r *Report) error
}

// CollectingSink is the default Sink: it never short-circuits, simply
// accumulating every diagnostic for the caller to inspect afterward.
type CollectingSink struct {
	Reports []*Report
}

func (s *CollectingSink) Report(r *Report) error {
	s.Reports = append(s.Reports, r)
	return nil
}

func (s *CollectingSink) HasErrors() bool {
	for _, r := range s.Reports {
		if r.Severity == SeverityError {
			return true
		}
	}
	return false
}
