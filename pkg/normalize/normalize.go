// Package normalize turns any canvas into its canonical form.
//
// Canonicalization is total: it never fails, and a missing document becomes
// the minimal default canvas. Applying it twice yields the same document as
// applying it once, so normalized documents can be diffed and stored
// verbatim.
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/aretw0/lienzo/pkg/domain"
)

// DefaultName is given to canvases that have neither a name nor an id.
const DefaultName = "Unnamed Canvas"

// Default labels filled in for annotation nodes.
const (
	DefaultGroupLabel = "Group"
)

type config struct {
	now    func() time.Time
	logger *slog.Logger
}

// Option configures the normalizer.
type Option func(*config)

// WithClock sets the time source used for metadata timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// Canvas returns the canonical form of doc. The input is never modified.
//
// Timestamps: created_at is set when missing. updated_at is refreshed when
// the content hash recorded in meta no longer matches the document, so an
// edited document gets a new stamp while re-normalizing an unchanged one is
// a no-op even under a real clock.
func Canvas(doc *domain.Canvas, opts ...Option) *domain.Canvas {
	cfg := config{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	stamp := cfg.now().UTC().Format(time.RFC3339Nano)

	if doc == nil {
		out := defaultCanvas()
		out.Meta = map[string]any{
			domain.MetaCreatedAt:     stamp,
			domain.MetaUpdatedAt:     stamp,
			domain.MetaCanvasVersion: 1,
		}
		out.Meta[domain.MetaContentHash] = ContentHash(out)
		return out
	}

	out, stats := canonical(doc)

	if out.Meta == nil {
		out.Meta = map[string]any{}
	}
	hash := ContentHash(out)
	if hash == "" || out.Meta[domain.MetaContentHash] != hash || isBlank(out.Meta[domain.MetaUpdatedAt]) {
		out.Meta[domain.MetaUpdatedAt] = stamp
	}
	if hash != "" {
		out.Meta[domain.MetaContentHash] = hash
	}
	if isBlank(out.Meta[domain.MetaCreatedAt]) {
		out.Meta[domain.MetaCreatedAt] = stamp
	}

	if cfg.logger != nil {
		cfg.logger.Debug("canvas normalized",
			slog.String("canvas_id", out.ID),
			slog.Int("nodes", len(out.Nodes)),
			slog.Int("edges", len(out.Edges)),
			slog.Int("renamed", stats.renamed),
			slog.Int("dropped_edges", stats.droppedEdges),
		)
	}
	return out
}

type stats struct {
	renamed      int
	droppedEdges int
}

func defaultCanvas() *domain.Canvas {
	out := domain.NewCanvas("", DefaultName)
	out.ID = ""
	return out
}

func canonical(doc *domain.Canvas) (*domain.Canvas, stats) {
	var st stats
	out := &domain.Canvas{
		Version:     doc.Version,
		ID:          doc.ID,
		Name:        doc.Name,
		Description: doc.Description,
		EntryNodeID: doc.EntryNodeID,
		Nodes:       make([]domain.Node, 0, len(doc.Nodes)),
		Edges:       make([]domain.Edge, 0, len(doc.Edges)),
		Meta:        domain.CopyMap(doc.Meta),
	}
	if out.Version == "" {
		out.Version = domain.SchemaVersion
	}
	if out.Name == "" {
		out.Name = out.ID
	}
	if out.Name == "" {
		out.Name = DefaultName
	}

	nodeIDs := domain.NewIDSet()
	for i, n := range doc.Nodes {
		id := n.ID
		if id == "" {
			id = "node_" + strconv.Itoa(i+1)
		}
		if nodeIDs.Has(id) {
			id = dedupe(id, i, nodeIDs)
			st.renamed++
		}
		nodeIDs.Add(id)
		out.Nodes = append(out.Nodes, node(n, id))
	}
	sort.SliceStable(out.Nodes, func(i, j int) bool {
		a, b := out.Nodes[i], out.Nodes[j]
		if ra, rb := rank(a.Kind), rank(b.Kind); ra != rb {
			return ra < rb
		}
		return a.ID < b.ID
	})

	edgeIDs := domain.NewIDSet()
	for i, e := range doc.Edges {
		if !nodeIDs.Has(e.From) || !nodeIDs.Has(e.To) {
			st.droppedEdges++
			continue
		}
		id := e.ID
		if id == "" {
			id = "edge_" + strconv.Itoa(i+1)
		}
		if edgeIDs.Has(id) {
			id = dedupe(id, i, edgeIDs)
			st.renamed++
		}
		edgeIDs.Add(id)
		out.Edges = append(out.Edges, edge(e, id))
	}
	sort.SliceStable(out.Edges, func(i, j int) bool {
		a, b := out.Edges[i], out.Edges[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.ID < b.ID
	})

	if out.EntryNodeID == "" && len(out.Nodes) > 0 {
		out.EntryNodeID = out.Nodes[0].ID
		for _, n := range out.Nodes {
			if n.Kind == domain.KindStart {
				out.EntryNodeID = n.ID
				break
			}
		}
	}

	if doc.Viewport != nil {
		vp := *doc.Viewport
		if vp.Zoom <= 0 {
			vp.Zoom = 1.0
		}
		out.Viewport = &vp
	}
	return out, st
}

// dedupe renames a colliding id to id_<index>, falling back to a counter.
func dedupe(id string, index int, taken domain.IDSet) string {
	candidate := id + "_" + strconv.Itoa(index)
	if !taken.Has(candidate) {
		return candidate
	}
	return domain.NextID(id, taken)
}

// rank orders start nodes first and end nodes last.
func rank(k domain.Kind) int {
	switch k {
	case domain.KindStart:
		return 0
	case domain.KindEnd:
		return 2
	default:
		return 1
	}
}

func node(n domain.Node, id string) domain.Node {
	out := domain.Node{
		ID:       id,
		Kind:     n.Kind,
		Label:    n.Label,
		Position: n.Position,
		Props:    domain.CopyMap(n.Props),
		Meta:     domain.CopyMap(n.Meta),
	}
	if out.Kind == "" {
		out.Kind = domain.KindScreen
	}
	if out.Label == "" {
		out.Label = id
	}
	return KindDefaults(out)
}

func edge(e domain.Edge, id string) domain.Edge {
	out := domain.Edge{
		ID:       id,
		From:     e.From,
		To:       e.To,
		Kind:     e.Kind,
		Label:    e.Label,
		Priority: e.Priority,
	}
	if out.Kind == "" {
		out.Kind = domain.TransitionDirect
	}
	if e.Condition != nil && e.Condition.Type != "" {
		out.Condition = &domain.Condition{
			Type:   e.Condition.Type,
			Params: domain.DeepCopyMap(e.Condition.Params),
		}
	}
	return out
}

// KindDefaults fills the per-kind property defaults of n. Properties that
// are already set are left alone.
func KindDefaults(n domain.Node) domain.Node {
	if n.Props == nil {
		n.Props = map[string]any{}
	}
	switch n.Kind {
	case domain.KindScreen:
		if isBlank(n.Props[domain.PropTemplateID]) {
			n.SetProp(domain.PropTemplateID, domain.DefaultTemplate)
		}
	case domain.KindDecision:
		if n.Props[domain.PropChoices] == nil {
			n.SetProp(domain.PropChoices, []any{})
		}
	case domain.KindCondition:
		if isBlank(n.Props[domain.PropConditionType]) {
			n.SetProp(domain.PropConditionType, domain.ConditionAlways)
		}
	case domain.KindGroup:
		if isBlank(n.Props[domain.PropLabel]) {
			n.SetProp(domain.PropLabel, DefaultGroupLabel)
		}
	case domain.KindComment:
		if _, ok := n.Props[domain.PropText]; !ok {
			n.SetProp(domain.PropText, "")
		}
	case domain.KindStart, domain.KindEnd, domain.KindDelay:
	default:
	}
	return n
}

func isBlank(v any) bool {
	s, ok := v.(string)
	return v == nil || (ok && s == "")
}

// ContentHash fingerprints everything in doc except the metadata the
// normalizer manages itself. It returns "" when the document cannot be
// encoded.
func ContentHash(doc *domain.Canvas) string {
	c := *doc
	c.Meta = domain.CopyMap(doc.Meta)
	delete(c.Meta, domain.MetaUpdatedAt)
	delete(c.Meta, domain.MetaCreatedAt)
	delete(c.Meta, domain.MetaContentHash)
	raw, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
