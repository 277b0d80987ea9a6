package validate

import (
	"fmt"
	"strings"
)

// Severity tells whether an issue blocks publishing.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Code identifies the rule that produced an issue.
type Code string

// Document-level codes.
const (
	CodeInvalidDocument Code = "invalid_document"
	CodeMissingCanvasID Code = "missing_canvas_id"
	CodeMissingEntry    Code = "missing_entry"
	CodeEntryNotFound   Code = "entry_not_found"
	CodeNoNodes         Code = "no_nodes"
	CodeDuplicateNodeID Code = "duplicate_node_id"
	CodeDuplicateEdgeID Code = "duplicate_edge_id"
	CodeVersionMismatch Code = "version_mismatch"
)

// Node-level codes.
const (
	CodeMissingNodeID       Code = "missing_node_id"
	CodeUnknownKind         Code = "unknown_kind"
	CodeMissingProps        Code = "missing_props"
	CodePropType            Code = "prop_type"
	CodeStartIncoming       Code = "start_incoming"
	CodeEndOutgoing         Code = "end_outgoing"
	CodeScreenTemplate      Code = "screen_template_missing"
	CodeDecisionEmpty       Code = "decision_empty"
	CodeDecisionPassthrough Code = "decision_passthrough"
	CodeDuplicateChoiceID   Code = "duplicate_choice_id"
	CodeChoiceEdgeMismatch  Code = "choice_edge_mismatch"
	CodeConditionType       Code = "condition_type_missing"
	CodeConditionBranches   Code = "condition_branches"
	CodeDelayDuration       Code = "delay_duration_missing"
)

// Edge-level codes.
const (
	CodeMissingEdgeID     Code = "missing_edge_id"
	CodeDanglingEdge      Code = "dangling_edge"
	CodeEdgeFromEnd       Code = "edge_from_end"
	CodeEdgeIntoStart     Code = "edge_into_start"
	CodeUnknownTransition Code = "unknown_transition"
	CodeConditionMissing  Code = "condition_missing"
)

// Connectivity and cycle codes.
const (
	CodeStartCount      Code = "start_count"
	CodeEntryNotStart   Code = "entry_not_start"
	CodeStartNoOutgoing Code = "start_no_outgoing"
	CodeOrphan          Code = "orphan_node"
	CodeUnreachable     Code = "unreachable_node"
	CodeEndUnreachable  Code = "end_unreachable"
	CodeNoReachableEnd  Code = "no_reachable_end"
	CodeInfiniteLoop    Code = "loop_infinite"
	CodeLoopWithoutExit Code = "loop_without_exit"
	CodeCycleLimit      Code = "cycle_limit"
)

// Issue is a single validation finding.
type Issue struct {
	Code     Code     `json:"code" yaml:"code"`
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
	NodeID   string   `json:"node_id,omitempty" yaml:"node_id,omitempty"`
	EdgeID   string   `json:"edge_id,omitempty" yaml:"edge_id,omitempty"`

	// Path lists the node ids of a cycle, in traversal order.
	Path []string `json:"path,omitempty" yaml:"path,omitempty"`
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s", i.Code, i.Message)
}

// Result is the outcome of a validation run.
type Result struct {
	OK       bool    `json:"ok" yaml:"ok"`
	Errors   []Issue `json:"errors" yaml:"errors"`
	Warnings []Issue `json:"warnings" yaml:"warnings"`
}

// Has reports whether any error or warning carries code.
func (r Result) Has(code Code) bool {
	return len(r.With(code)) > 0
}

// With returns every issue, errors first, carrying code.
func (r Result) With(code Code) []Issue {
	var out []Issue
	for _, list := range [][]Issue{r.Errors, r.Warnings} {
		for _, i := range list {
			if i.Code == code {
				out = append(out, i)
			}
		}
	}
	return out
}

// Err returns nil when the result has no errors, otherwise an *Error.
func (r Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return &Error{Issues: append([]Issue(nil), r.Errors...)}
}

// Error aggregates the blocking issues of a failed validation.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	if len(e.Issues) == 1 {
		return "canvas invalid: " + e.Issues[0].String()
	}
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("canvas invalid: %d errors: %s", len(e.Issues), strings.Join(parts, "; "))
}

// Messages returns the plain messages of the aggregated issues.
func (e *Error) Messages() []string {
	out := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		out[i] = issue.Message
	}
	return out
}
