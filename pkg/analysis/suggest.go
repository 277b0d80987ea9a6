package analysis

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/lienzo/pkg/domain"
)

// Priority orders suggestions for display.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Suggestion is an authoring hint derived from a canvas and its report.
type Suggestion struct {
	Type     Category `json:"type"`
	Topic    string   `json:"category"`
	Message  string   `json:"message"`
	NodeID   string   `json:"node_id,omitempty"`
	Priority Priority `json:"priority"`
}

// Suggestion topics.
const (
	TopicIntention = "intention"
	TopicDecision  = "decision"
	TopicEnding    = "ending"
	TopicChoice    = "choice"
	TopicSequence  = "sequence"
	TopicBalance   = "balance"
	TopicDensity   = "density"
	TopicVariety   = "variety"
	TopicMeta      = "meta"
)

// CategoryClarity groups suggestions about how clearly a node is described.
const CategoryClarity Category = "clarity"

// Metadata keys the suggestions look for.
const (
	MetaIntention         = "intention"
	MetaDecisionContext   = "decision_context"
	MetaDecisionRationale = "decision_rationale"
	MetaEndingType        = "ending_type"
	MetaEndingMessage     = "ending_message"
)

// MinIntentionLength is the length under which an intention reads as generic.
const MinIntentionLength = 10

var (
	genericWords  = []string{"paso", "step", "nodo", "node", "acción", "action"}
	technicalMeta = domain.NewIDSet("x", "y", "width", "height")
)

// Suggest returns authoring hints for doc, ordered by priority. The report
// is computed when nil.
func Suggest(doc *domain.Canvas, report *Report) []Suggestion {
	if doc == nil {
		return nil
	}
	if report == nil {
		r := Analyze(doc)
		report = &r
	}

	var out []Suggestion
	add := func(typ Category, topic string, p Priority, nodeID, format string, args ...any) {
		out = append(out, Suggestion{Type: typ, Topic: topic, Priority: p, NodeID: nodeID, Message: fmt.Sprintf(format, args...)})
	}

	var executable []domain.Node
	for _, n := range doc.Nodes {
		if n.Kind.Executable() {
			executable = append(executable, n)
		}
	}

	// intentions
	missing := 0
	for _, n := range executable {
		if blank(n.Meta[MetaIntention]) {
			missing++
		}
	}
	switch {
	case missing == 0:
	case missing == len(executable):
		add(CategoryPedagogical, TopicIntention, PriorityHigh, "",
			"no node declares a pedagogical intention; add meta.intention to make each step's purpose explicit")
	default:
		add(CategoryPedagogical, TopicIntention, PriorityMedium, "",
			"%d of %d node(s) have no pedagogical intention", missing, len(executable))
	}

	describedChoices := false
	for _, d := range doc.NodesOfKind(domain.KindDecision) {
		if blank(d.Meta[MetaIntention]) || blank(d.Meta[MetaDecisionContext]) {
			add(CategoryPedagogical, TopicDecision, PriorityHigh, d.ID,
				"decision %q should state its intention and decision_context", d.ID)
		}
		choices := d.Choices()
		if !describedChoices {
			for _, c := range choices {
				if strings.TrimSpace(c.Description) == "" {
					add(CategoryPedagogical, TopicChoice, PriorityMedium, d.ID,
						"describe what each choice of %q means for the learner", d.ID)
					describedChoices = true
					break
				}
			}
		}
	}

	for _, e := range doc.NodesOfKind(domain.KindEnd) {
		if blank(e.Meta[MetaEndingType]) || blank(e.Meta[MetaEndingMessage]) {
			add(CategoryPedagogical, TopicEnding, PriorityMedium, e.ID,
				"ending %q should declare ending_type and ending_message", e.ID)
		}
	}

	if d := report.First(CodeLongSequence); d != nil {
		add(CategoryRhythm, TopicSequence, PriorityMedium, d.NodeID,
			"long linear stretches can tire learners; consider inserting a decision or a pause")
	}
	if d := report.First(CodeUnbalancedBranches); d != nil {
		add(CategoryRhythm, TopicBalance, PriorityLow, d.NodeID,
			"some branches are much longer than others; check the paths feel equivalent")
	}
	if report.Has(CodeDecisionDensity) {
		add(CategoryRhythm, TopicDensity, PriorityMedium, "",
			"many decisions in a row; add content screens between them")
	}
	if report.Has(CodeFullyLinear) {
		add(CategoryRhythm, TopicVariety, PriorityLow, "",
			"the canvas is fully linear; a decision could make it more interactive")
	}

	rationale := false
	for _, n := range executable {
		if technicalOnly(n.Meta) {
			add(CategoryClarity, TopicMeta, PriorityMedium, n.ID,
				"node %q has no descriptive metadata", n.ID)
		}
		if intention, ok := n.Meta[MetaIntention].(string); ok && !blank(intention) && generic(intention) {
			add(CategoryClarity, TopicIntention, PriorityLow, n.ID,
				"the intention of %q is vague; say what the learner should achieve", n.ID)
		}
		if !rationale && n.Kind == domain.KindDecision && len(n.Choices()) >= 2 && blank(n.Meta[MetaDecisionRationale]) {
			add(CategoryClarity, TopicDecision, PriorityLow, n.ID,
				"explain why decision %q offers these options (decision_rationale)", n.ID)
			rationale = true
		}
	}

	sortByPriority(out)
	return out
}

var priorityRank = map[Priority]int{PriorityHigh: 0, PriorityMedium: 1, PriorityLow: 2}

func sortByPriority(s []Suggestion) {
	slices.SortStableFunc(s, func(a, b Suggestion) int {
		return cmp.Compare(priorityRank[a.Priority], priorityRank[b.Priority])
	})
}

func blank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func technicalOnly(meta map[string]any) bool {
	for k := range meta {
		if !technicalMeta.Has(k) {
			return false
		}
	}
	return true
}

func generic(intention string) bool {
	if len([]rune(strings.TrimSpace(intention))) < MinIntentionLength {
		return true
	}
	lower := strings.ToLower(intention)
	for _, w := range genericWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
