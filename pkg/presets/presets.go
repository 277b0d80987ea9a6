// Package presets builds ready-made starting canvases for common learning
// structures. Every preset is assembled with macros, validated strictly
// and normalized before it is returned.
package presets

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/lienzo/pkg/actions"
	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/macros"
	"github.com/aretw0/lienzo/pkg/normalize"
	"github.com/aretw0/lienzo/pkg/validate"
)

// ErrUnknownPreset is returned by Build for an id List does not know.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset ids.
const (
	SimpleSequence = "secuencia_lineal_simple"
	GuidedDecision = "decision_guiada"
	StepByStep     = "secuencia_multiples_pasos"
	FullBranching  = "ramificacion_completa"
)

// StartID is the id of the start node of every preset.
const StartID = "start_1"

// Preset describes an available preset.
type Preset struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`

	build func(doc *domain.Canvas, opts []actions.Option) (*domain.Canvas, error)
}

var catalog = []Preset{
	{
		ID:          SimpleSequence,
		Name:        "Secuencia Lineal Simple",
		Description: "Recorrido lineal básico: introducción, contenido y finalización",
		build: func(doc *domain.Canvas, opts []actions.Option) (*domain.Canvas, error) {
			return macros.LinearSequence(doc, StartID, macros.SequenceParams{
				Nodes:     []domain.Node{screen("intro", "Introducción"), screen("contenido", "Contenido Principal")},
				AddEnding: true,
			}, opts...)
		},
	},
	{
		ID:          GuidedDecision,
		Name:        "Decisión Guiada",
		Description: "Recorrido con decisión: introducción, decisión con 2 opciones y finalización",
		build: func(doc *domain.Canvas, opts []actions.Option) (*domain.Canvas, error) {
			out, err := intro(doc, opts)
			if err != nil {
				return nil, err
			}
			return macros.GuidedChoice(out, "intro", macros.GuidedChoiceParams{
				Choices: []macros.ChoiceSpec{
					{ID: "opcion_1", Label: "Opción 1", NextLabel: "Seguimiento Opción 1"},
					{ID: "opcion_2", Label: "Opción 2", NextLabel: "Seguimiento Opción 2"},
				},
				AddEnding: true,
			}, opts...)
		},
	},
	{
		ID:          StepByStep,
		Name:        "Secuencia con Múltiples Pasos",
		Description: "Recorrido paso a paso: introducción y 3 pasos secuenciales",
		build: func(doc *domain.Canvas, opts []actions.Option) (*domain.Canvas, error) {
			return macros.LinearSequence(doc, StartID, macros.SequenceParams{
				Nodes: []domain.Node{
					screen("intro", "Introducción"),
					screen("paso_1", "Paso 1"),
					screen("paso_2", "Paso 2"),
					screen("paso_3", "Paso 3"),
				},
				AddEnding: true,
			}, opts...)
		},
	},
	{
		ID:          FullBranching,
		Name:        "Ramificación Completa",
		Description: "Recorrido con múltiples ramas: introducción, decisión con 3 opciones y finalizaciones independientes",
		build: func(doc *domain.Canvas, opts []actions.Option) (*domain.Canvas, error) {
			out, err := intro(doc, opts)
			if err != nil {
				return nil, err
			}
			return macros.BranchingPath(out, "intro", macros.BranchingParams{
				Branches: []macros.BranchSpec{
					{Label: "Rama 1", ChoiceLabel: "Opción A"},
					{Label: "Rama 2", ChoiceLabel: "Opción B"},
					{Label: "Rama 3", ChoiceLabel: "Opción C"},
				},
				DecisionLabel: "Elige tu camino",
			}, opts...)
		},
	},
}

// List returns the available presets in a stable order.
func List() []Preset {
	out := make([]Preset, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the preset with the given id.
func Lookup(id string) (Preset, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

type config struct {
	now    func() time.Time
	logger *slog.Logger
}

// Option configures Build.
type Option func(*config)

// WithClock sets the clock used to stamp the preset.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// WithLogger routes debug output of the underlying stages to l.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// Build generates a fresh canvas for the preset id.
func Build(id string, opts ...Option) (*domain.Canvas, error) {
	p, ok := Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, id)
	}
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	var actionOpts []actions.Option
	var normOpts []normalize.Option
	validateOpts := []validate.Option{validate.Strict()}
	if cfg.now != nil {
		actionOpts = append(actionOpts, actions.WithClock(cfg.now))
		normOpts = append(normOpts, normalize.WithClock(cfg.now))
	}
	if cfg.logger != nil {
		actionOpts = append(actionOpts, actions.WithLogger(cfg.logger))
		normOpts = append(normOpts, normalize.WithLogger(cfg.logger))
		validateOpts = append(validateOpts, validate.WithLogger(cfg.logger))
	}

	doc, err := p.build(base(p), actionOpts)
	if err != nil {
		return nil, fmt.Errorf("generating preset %q: %w", id, err)
	}
	if err := validate.Canvas(doc, validateOpts...).Err(); err != nil {
		return nil, fmt.Errorf("preset %q is invalid: %w", id, err)
	}
	return normalize.Canvas(doc, normOpts...), nil
}

func base(p Preset) *domain.Canvas {
	doc := domain.NewCanvas("preset_"+uuid.NewString(), p.Name)
	doc.Description = p.Description
	doc.Nodes[0].ID = StartID
	doc.EntryNodeID = StartID
	doc.Meta = map[string]any{domain.MetaPreset: true}
	return doc
}

func intro(doc *domain.Canvas, opts []actions.Option) (*domain.Canvas, error) {
	return macros.LinearSequence(doc, StartID, macros.SequenceParams{
		Nodes: []domain.Node{screen("intro", "Introducción")},
	}, opts...)
}

func screen(id, label string) domain.Node {
	return domain.Node{
		ID:    id,
		Kind:  domain.KindScreen,
		Label: label,
		Props: map[string]any{domain.PropTemplateID: domain.DefaultTemplate},
	}
}
