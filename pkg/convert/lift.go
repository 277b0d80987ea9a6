package convert

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/normalize"
	"github.com/aretw0/lienzo/pkg/repair"
)

// Layout of lifted canvases.
const (
	layoutOriginX = 300
	layoutOriginY = 100
	layoutStepX   = 300
	layoutStepY   = 200
	layoutColumns = 5
	endOffsetY    = 150
)

// EndLabel is the label of end nodes created by Lift.
const EndLabel = "Fin"

// Lift raises rec into a canvas.
//
// A start node leads to the entry step and every transition becomes an
// edge, conditional unless its condition is "always". A recorrido without
// any transition between known steps is read as a straight sequence in
// step order. Steps without outgoing transitions get their own end node;
// when there is no such step, a single end node follows the last step.
// End nodes the entry cannot reach are then connected as repair does.
//
// Lift fails only when rec is nil.
func Lift(rec *domain.Recorrido, opts ...Option) (*domain.Canvas, error) {
	if rec == nil {
		return nil, domain.ErrNilDocument
	}
	cfg := newConfig(opts)

	stepIDs := rec.StepIDs()
	known := domain.NewIDSet(stepIDs...)
	nodeIDs := domain.NewIDSet(stepIDs...)
	edgeIDs := domain.NewIDSet()

	id := rec.ID
	if id == "" {
		id = "canvas_" + uuid.NewString()
	}
	name := rec.Name
	if name == "" {
		name = rec.ID
	}
	if name == "" {
		name = normalize.DefaultName
	}

	startID := domain.UniqueID(domain.DefaultStartID, nodeIDs)
	nodeIDs.Add(startID)
	doc := &domain.Canvas{
		Version:     domain.SchemaVersion,
		ID:          id,
		Name:        name,
		Description: rec.Description,
		EntryNodeID: startID,
		Nodes: []domain.Node{{
			ID:       startID,
			Kind:     domain.KindStart,
			Label:    domain.DefaultStartLabel,
			Position: cfg.place(domain.Position{X: 100, Y: 100}),
			Props:    map[string]any{},
		}},
		Edges: []domain.Edge{},
	}

	positions := make(map[string]domain.Position, len(stepIDs))
	for i, sid := range stepIDs {
		s, _ := rec.Step(sid)
		pos := domain.Position{
			X: float64(layoutOriginX + layoutStepX*(i%layoutColumns)),
			Y: float64(layoutOriginY + layoutStepY*(i/layoutColumns)),
		}
		if saved, ok := savedPosition(s); ok {
			pos = saved
		}
		pos = cfg.place(pos)
		positions[sid] = pos
		doc.Nodes = append(doc.Nodes, liftStep(sid, s, pos))
	}

	addEdge := func(from, to string, cond *domain.Condition, priority *int) {
		e := domain.Edge{
			ID:       domain.UniqueID("edge_"+from+"_"+to, edgeIDs),
			From:     from,
			To:       to,
			Kind:     domain.TransitionDirect,
			Priority: priority,
		}
		if cond != nil && cond.Type != "" && cond.Type != domain.ConditionAlways {
			e.Kind = domain.TransitionConditional
			e.Condition = &domain.Condition{Type: cond.Type, Params: domain.DeepCopyMap(cond.Params)}
		}
		edgeIDs.Add(e.ID)
		doc.Edges = append(doc.Edges, e)
	}

	entry := rec.EntryStepID
	if !known.Has(entry) && len(stepIDs) > 0 {
		entry = stepIDs[0]
	}
	if known.Has(entry) {
		addEdge(startID, entry, nil, nil)
	}

	var transitions []domain.Transition
	for _, t := range rec.Edges {
		if known.Has(t.From) && known.Has(t.To) {
			transitions = append(transitions, t)
		}
	}
	hasOut := domain.NewIDSet()
	if len(transitions) == 0 {
		for i := 1; i < len(stepIDs); i++ {
			addEdge(stepIDs[i-1], stepIDs[i], nil, nil)
			hasOut.Add(stepIDs[i-1])
		}
	}
	for _, t := range transitions {
		cond := t.Condition
		addEdge(t.From, t.To, &cond, t.Priority)
		hasOut.Add(t.From)
	}

	var leaves []string
	for _, sid := range stepIDs {
		if !hasOut.Has(sid) {
			leaves = append(leaves, sid)
		}
	}
	for _, sid := range leaves {
		endID := domain.UniqueID(sid+"_end", nodeIDs)
		nodeIDs.Add(endID)
		p := positions[sid]
		doc.Nodes = append(doc.Nodes, endNode(endID, cfg.place(domain.Position{X: p.X, Y: p.Y + endOffsetY})))
		addEdge(sid, endID, nil, nil)
	}
	if len(leaves) == 0 && len(stepIDs) > 0 {
		last := stepIDs[len(stepIDs)-1]
		endID := domain.UniqueID("end", nodeIDs)
		nodeIDs.Add(endID)
		p := positions[last]
		doc.Nodes = append(doc.Nodes, endNode(endID, cfg.place(domain.Position{X: p.X + layoutStepX, Y: p.Y})))
		addEdge(last, endID, nil, nil)
	}

	// Ends of steps the entry never reaches would be unreachable.
	doc = repair.UnreachableEnds(doc, repair.WithLogger(cfg.logger))

	stamp := cfg.now().UTC().Format(time.RFC3339Nano)
	doc.Meta = map[string]any{
		domain.MetaCreatedAt:         stamp,
		domain.MetaUpdatedAt:         stamp,
		domain.MetaCanvasVersion:     1,
		domain.MetaConvertedFromFlow: true,
		domain.MetaRecorridoID:       rec.ID,
	}

	if cfg.logger != nil {
		cfg.logger.Debug("recorrido lifted",
			slog.String("recorrido_id", rec.ID),
			slog.Int("nodes", len(doc.Nodes)),
			slog.Int("edges", len(doc.Edges)),
		)
	}
	return doc, nil
}

func (c config) place(p domain.Position) domain.Position {
	if !c.layout {
		return domain.Position{}
	}
	return p
}

func endNode(id string, pos domain.Position) domain.Node {
	return domain.Node{ID: id, Kind: domain.KindEnd, Label: EndLabel, Position: pos, Props: map[string]any{}}
}

// inferKind guesses the node kind of a step from its step type, then its
// template.
func inferKind(s domain.Step) domain.Kind {
	switch s.StepType {
	case string(domain.KindDecision):
		return domain.KindDecision
	case string(domain.KindCondition):
		return domain.KindCondition
	case string(domain.KindDelay):
		return domain.KindDelay
	case "":
		if s.ScreenTemplateID == domain.ChoiceTemplate {
			return domain.KindDecision
		}
	}
	return domain.KindScreen
}

func liftStep(id string, s domain.Step, pos domain.Position) domain.Node {
	kind := inferKind(s)
	props := map[string]any{}

	switch kind {
	case domain.KindDecision:
		props[domain.PropQuestion] = stringOf(s.Props[domain.PropQuestion])
		choices := domain.DeepCopyValue(s.Props[domain.PropChoices])
		if choices == nil {
			choices = []any{}
		}
		props[domain.PropChoices] = choices
	case domain.KindCondition:
		ctype := stringOf(s.Props[domain.PropConditionType])
		if ctype == "" {
			ctype = domain.ConditionAlways
		}
		props[domain.PropConditionType] = ctype
		params, _ := s.Props[domain.PropConditionParams].(map[string]any)
		if params == nil {
			params = map[string]any{}
		}
		props[domain.PropConditionParams] = domain.DeepCopyMap(params)
	case domain.KindDelay:
		for _, key := range []string{domain.PropDurationSeconds, domain.PropDurationMinutes, domain.PropMessage} {
			if v, ok := s.Props[key]; ok && v != nil {
				props[key] = v
			}
		}
	default:
		tpl := s.ScreenTemplateID
		if tpl == "" {
			tpl = domain.DefaultTemplate
		}
		props[domain.PropTemplateID] = tpl
		inner := domain.DeepCopyMap(s.Props)
		if inner == nil {
			inner = map[string]any{}
		}
		props[domain.PropProps] = inner
		if s.StepType != "" {
			props[domain.PropStepType] = s.StepType
		}
	}

	if s.Capture != nil {
		props[domain.PropCapture] = s.Capture
	}
	if s.Emit != nil {
		props[domain.PropEmit] = s.Emit
	}
	if s.ResourceID != "" {
		props[domain.PropResourceID] = s.ResourceID
	}

	var meta map[string]any
	if len(s.Meta) > 0 {
		meta = domain.DeepCopyMap(s.Meta)
		delete(meta, domain.MetaCanvasPosition)
		if len(meta) == 0 {
			meta = nil
		}
	}

	return domain.Node{ID: id, Kind: kind, Label: id, Position: pos, Props: props, Meta: meta}
}

// savedPosition reads the canvas_position a compiled step carries.
func savedPosition(s domain.Step) (domain.Position, bool) {
	raw, ok := s.Meta[domain.MetaCanvasPosition].(map[string]any)
	if !ok {
		return domain.Position{}, false
	}
	x, okX := number(raw["x"])
	y, okY := number(raw["y"])
	if !okX || !okY {
		return domain.Position{}, false
	}
	return domain.Position{X: x, Y: y}, true
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}
