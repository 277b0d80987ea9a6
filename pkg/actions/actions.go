// Package actions implements the atomic, semantics-aware edits of a canvas.
//
// Every action works on a private copy of its input, then runs the same
// pipeline before returning: the copy is repaired, validated in draft mode,
// and normalized. A validation error aborts the action with a
// VALIDATION_FAILED error; no partially edited document is ever returned.
package actions

import (
	"log/slog"

	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/normalize"
	"github.com/aretw0/lienzo/pkg/repair"
	"github.com/aretw0/lienzo/pkg/validate"
)

// Action names, as reported to observers and in error metadata.
const (
	ActionInsertNodeAfter   = "insert_node_after"
	ActionConvertToDecision = "convert_to_decision"
	ActionMarkAsStart       = "mark_as_start"
	ActionMarkAsEnd         = "mark_as_end"
	ActionDuplicateSubgraph = "duplicate_subgraph"
	ActionReplaceBranches   = "replace_branches"
)

// mutation edits doc in place. doc is a Clone owned by the action: its
// slices and meta are private, property bags are written through SetProp.
type mutation func(doc *domain.Canvas) error

func run(action string, doc *domain.Canvas, opts []Option, mutate mutation) (out *domain.Canvas, err error) {
	cfg := newConfig(opts)
	defer func() {
		if cfg.observe != nil {
			cfg.observe(action, err)
		}
		if err != nil && cfg.logger != nil {
			cfg.logger.Debug("action rejected", slog.String("action", action), slog.Any("error", err))
		}
	}()

	if doc == nil {
		return nil, invalidArgument(action, "canvas document is required")
	}
	work := doc.Clone()
	if err := mutate(work); err != nil {
		return nil, err
	}
	return finish(action, work, cfg)
}

func finish(action string, doc *domain.Canvas, cfg config) (*domain.Canvas, error) {
	repaired := repair.UnreachableEnds(doc, repair.WithLogger(cfg.logger))

	res := validate.Canvas(repaired,
		validate.WithPassthroughPolicy(cfg.passthrough),
		validate.WithMaxCycles(cfg.maxCycles),
		validate.WithLogger(cfg.logger),
	)
	if !res.OK {
		return nil, validationFailed(action, res)
	}

	nopts := []normalize.Option{normalize.WithLogger(cfg.logger)}
	if cfg.now != nil {
		nopts = append(nopts, normalize.WithClock(cfg.now))
	}
	return normalize.Canvas(repaired, nopts...), nil
}

func indexOf(action string, doc *domain.Canvas, nodeID string) (int, error) {
	if nodeID == "" {
		return -1, invalidArgument(action, "node id is required")
	}
	i := doc.NodeIndex(nodeID)
	if i < 0 {
		return -1, nodeNotFound(action, nodeID)
	}
	return i, nil
}
