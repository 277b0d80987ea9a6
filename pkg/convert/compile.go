package convert

import (
	"log/slog"

	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/graph"
)

// Compile lowers doc to a recorrido.
//
// Only screen, decision, condition and delay nodes become steps. Edges
// touching any other node are dropped, except that edges leaving the start
// node are re-rooted at the entry step. The entry step is the first step
// the start node points to. Steps are ordered breadth-first from the entry
// and, unless KeepUnreachable is set, unreachable steps are pruned.
//
// Compile fails only when doc is nil.
func Compile(doc *domain.Canvas, opts ...Option) (*domain.Recorrido, error) {
	if doc == nil {
		return nil, domain.ErrNilDocument
	}
	cfg := newConfig(opts)
	ix := graph.NewIndex(doc)

	isStep := func(id string) bool {
		n, ok := ix.Node(id)
		return ok && stepKind(n.Kind)
	}

	start := startNode(doc)
	entry := ""
	if start != "" {
		for _, e := range ix.Outgoing(start) {
			if isStep(e.To) {
				entry = e.To
				break
			}
		}
	}
	if entry == "" && isStep(doc.EntryNodeID) {
		entry = doc.EntryNodeID
	}
	if entry == "" {
		for _, n := range doc.Nodes {
			if isStep(n.ID) {
				entry = n.ID
				break
			}
		}
	}

	// Edges between steps come first so a re-rooted start edge never
	// duplicates one of them, whatever the edge order of doc.
	type pair struct{ from, to string }
	seen := map[pair]bool{}
	var transitions []domain.Transition
	add := func(from string, e domain.Edge) {
		if !isStep(from) || !isStep(e.To) || seen[pair{from, e.To}] {
			return
		}
		seen[pair{from, e.To}] = true
		transitions = append(transitions, domain.Transition{
			From:      from,
			To:        e.To,
			Condition: transitionCondition(e),
			Priority:  e.Priority,
		})
	}
	for _, e := range doc.Edges {
		if start == "" || e.From != start {
			add(e.From, e)
		}
	}
	if start != "" {
		for _, e := range doc.Edges {
			if e.From == start && e.To != entry {
				add(entry, e)
			}
		}
	}

	order := stepOrder(doc, entry, transitions, isStep, cfg.keepUnreachable)
	keep := domain.NewIDSet(order...)

	rec := domain.NewRecorrido(doc.ID)
	rec.Name = doc.Name
	rec.Description = doc.Description
	rec.EntryStepID = entry
	for _, id := range order {
		n, _ := ix.Node(id)
		rec.Steps.Set(id, step(n))
	}
	for _, t := range transitions {
		if keep.Has(t.From) && keep.Has(t.To) {
			rec.Edges = append(rec.Edges, t)
		}
	}

	rec.Meta = domain.CopyMap(doc.Meta)
	if rec.Meta == nil {
		rec.Meta = map[string]any{}
	}
	delete(rec.Meta, domain.MetaContentHash)
	rec.Meta[domain.MetaConvertedFromCanvas] = true
	if rec.Meta[domain.MetaCanvasVersion] == nil {
		rec.Meta[domain.MetaCanvasVersion] = 1
	}

	if cfg.logger != nil {
		cfg.logger.Debug("canvas compiled",
			slog.String("canvas_id", doc.ID),
			slog.String("entry_step_id", entry),
			slog.Int("steps", rec.Steps.Len()),
			slog.Int("transitions", len(rec.Edges)),
		)
	}
	return rec, nil
}

func stepKind(k domain.Kind) bool {
	return k.Executable() || !k.Valid()
}

func startNode(doc *domain.Canvas) string {
	if n, ok := doc.Node(doc.EntryNodeID); ok && n.Kind == domain.KindStart {
		return n.ID
	}
	for _, n := range doc.Nodes {
		if n.Kind == domain.KindStart {
			return n.ID
		}
	}
	return ""
}

func transitionCondition(e domain.Edge) domain.Condition {
	if e.Condition == nil || e.Condition.Type == "" {
		return domain.Condition{Type: domain.ConditionAlways}
	}
	return domain.Condition{Type: e.Condition.Type, Params: domain.DeepCopyMap(e.Condition.Params)}
}

// stepOrder lists step ids breadth-first from entry, followed by the
// remaining steps in document order when keepAll is set.
func stepOrder(doc *domain.Canvas, entry string, ts []domain.Transition, isStep func(string) bool, keepAll bool) []string {
	next := map[string][]string{}
	for _, t := range ts {
		next[t.From] = append(next[t.From], t.To)
	}
	seen := domain.NewIDSet()
	var order []string
	if entry != "" {
		seen.Add(entry)
		queue := []string{entry}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			order = append(order, id)
			for _, to := range next[id] {
				if !seen.Has(to) {
					seen.Add(to)
					queue = append(queue, to)
				}
			}
		}
	}
	if keepAll {
		for _, n := range doc.Nodes {
			if isStep(n.ID) && !seen.Has(n.ID) {
				seen.Add(n.ID)
				order = append(order, n.ID)
			}
		}
	}
	return order
}

func step(n domain.Node) domain.Step {
	s := domain.Step{ScreenTemplateID: domain.DefaultTemplate, Props: map[string]any{}}
	props := n.Props

	switch n.Kind {
	case domain.KindDecision:
		s.ScreenTemplateID = domain.ChoiceTemplate
		s.StepType = string(domain.KindDecision)
		choices := domain.DeepCopyValue(props[domain.PropChoices])
		if choices == nil {
			choices = []any{}
		}
		s.Props = map[string]any{
			domain.PropQuestion: n.StringProp(domain.PropQuestion),
			domain.PropChoices:  choices,
		}
	case domain.KindCondition:
		s.StepType = string(domain.KindCondition)
		ctype := n.StringProp(domain.PropConditionType)
		if ctype == "" {
			ctype = domain.ConditionAlways
		}
		params, _ := props[domain.PropConditionParams].(map[string]any)
		if params == nil {
			params = map[string]any{}
		}
		s.Props = map[string]any{
			domain.PropConditionType:   ctype,
			domain.PropConditionParams: domain.DeepCopyMap(params),
		}
	case domain.KindDelay:
		s.StepType = string(domain.KindDelay)
		for _, key := range []string{domain.PropDurationSeconds, domain.PropDurationMinutes, domain.PropMessage} {
			if v, ok := props[key]; ok && v != nil {
				s.Props[key] = v
			}
		}
	default:
		if tpl := n.StringProp(domain.PropTemplateID); tpl != "" {
			s.ScreenTemplateID = tpl
		}
		if inner, ok := props[domain.PropProps].(map[string]any); ok {
			s.Props = domain.DeepCopyMap(inner)
		}
		s.StepType = n.StringProp(domain.PropStepType)
	}

	if v, ok := props[domain.PropCapture]; ok && v != nil {
		s.Capture = v
	}
	if v, ok := props[domain.PropEmit]; ok && v != nil {
		s.Emit = v
	}
	s.ResourceID = n.StringProp(domain.PropResourceID)

	s.Meta = domain.DeepCopyMap(n.Meta)
	if s.Meta == nil {
		s.Meta = map[string]any{}
	}
	s.Meta[domain.MetaCanvasPosition] = map[string]any{"x": n.Position.X, "y": n.Position.Y}
	return s
}
