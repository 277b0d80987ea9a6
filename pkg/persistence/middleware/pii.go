package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/ports"
)

// Mask replaces the values of masked metadata keys.
const Mask = "***"

type piiMiddleware struct {
	ports.Store
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks metadata values whose
// keys match any of the patterns before they reach the store. Canvas, node
// and step metadata are covered, nested maps included. Documents
// passed in by the caller are never modified.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		patterns[i] = re
	}
	return func(next ports.Store) ports.Store {
		return &piiMiddleware{Store: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) PutDraft(ctx context.Context, draft *ports.Draft) error {
	cloned := *draft
	cloned.Canvas = m.canvas(draft.Canvas)
	cloned.Definition = m.recorrido(draft.Definition)
	err := m.Store.PutDraft(ctx, &cloned)
	draft.Revision = cloned.Revision
	return err
}

func (m *piiMiddleware) UpdateCanvas(ctx context.Context, u ports.CanvasUpdate) (ports.UpdateResult, error) {
	u.Canvas = m.canvas(u.Canvas)
	return m.Store.UpdateCanvas(ctx, u)
}

func (m *piiMiddleware) CreateVersion(ctx context.Context, v *ports.Version) error {
	cloned := *v
	cloned.Canvas = m.canvas(v.Canvas)
	cloned.Definition = m.recorrido(v.Definition)
	return m.Store.CreateVersion(ctx, &cloned)
}

func (m *piiMiddleware) canvas(doc *domain.Canvas) *domain.Canvas {
	if doc == nil || len(m.patterns) == 0 {
		return doc
	}
	out := doc.DeepCopy()
	maskMap(out.Meta, m.patterns)
	for i := range out.Nodes {
		maskMap(out.Nodes[i].Meta, m.patterns)
	}
	return out
}

func (m *piiMiddleware) recorrido(rec *domain.Recorrido) *domain.Recorrido {
	if rec == nil || len(m.patterns) == 0 {
		return rec
	}
	out := rec.DeepCopy()
	maskMap(out.Meta, m.patterns)
	if out.Steps != nil {
		for pair := out.Steps.Oldest(); pair != nil; pair = pair.Next() {
			maskMap(pair.Value.Meta, m.patterns)
		}
	}
	return out
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		masked := false
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = Mask
				masked = true
				break
			}
		}
		if masked {
			continue
		}
		if subMap, ok := v.(map[string]any); ok {
			maskMap(subMap, patterns)
		}
	}
}
