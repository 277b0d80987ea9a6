package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Choice is one labelled option of a decision node.
type Choice struct {
	ID          string `json:"choice_id" yaml:"choice_id" mapstructure:"choice_id"`
	Label       string `json:"label" yaml:"label" mapstructure:"label"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
}

// ScreenProps is the typed view of a screen node's property bag.
type ScreenProps struct {
	TemplateID string         `mapstructure:"screen_template_id"`
	Props      map[string]any `mapstructure:"props"`
	StepType   string         `mapstructure:"step_type"`
	Capture    any            `mapstructure:"capture"`
	Emit       any            `mapstructure:"emit"`
	ResourceID string         `mapstructure:"resource_id"`
}

// DecisionProps is the typed view of a decision node's property bag.
type DecisionProps struct {
	Question string   `mapstructure:"question"`
	Choices  []Choice `mapstructure:"choices"`
}

// ConditionProps is the typed view of a condition node's property bag.
type ConditionProps struct {
	ConditionType   string         `mapstructure:"condition_type"`
	ConditionParams map[string]any `mapstructure:"condition_params"`
}

// DelayProps is the typed view of a delay node's property bag.
type DelayProps struct {
	DurationSeconds *float64 `mapstructure:"duration_seconds"`
	DurationMinutes *float64 `mapstructure:"duration_minutes"`
	Message         string   `mapstructure:"message"`
}

// HasDuration reports whether any duration was configured.
func (p DelayProps) HasDuration() bool {
	return p.DurationSeconds != nil || p.DurationMinutes != nil
}

// GroupProps is the typed view of a group node's property bag.
type GroupProps struct {
	Label string `mapstructure:"label"`
}

// CommentProps is the typed view of a comment node's property bag.
type CommentProps struct {
	Text string `mapstructure:"text"`
}

// DecodeProps decodes a property bag into one of the typed views.
func DecodeProps(props map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ZeroFields:       true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(props); err != nil {
		return fmt.Errorf("decode props: %w", err)
	}
	return nil
}

// Screen decodes the node's props as a screen.
func (n Node) Screen() (ScreenProps, error) {
	var p ScreenProps
	err := DecodeProps(n.Props, &p)
	return p, err
}

// Decision decodes the node's props as a decision.
func (n Node) Decision() (DecisionProps, error) {
	var p DecisionProps
	err := DecodeProps(n.Props, &p)
	return p, err
}

// Condition decodes the node's props as a condition.
func (n Node) Condition() (ConditionProps, error) {
	var p ConditionProps
	err := DecodeProps(n.Props, &p)
	return p, err
}

// Delay decodes the node's props as a delay.
func (n Node) Delay() (DelayProps, error) {
	var p DelayProps
	err := DecodeProps(n.Props, &p)
	return p, err
}

// Choices returns the decision choices of the node. Malformed entries are
// skipped rather than reported; the validator reports the shape problem.
func (n Node) Choices() []Choice {
	raw, ok := n.Props[PropChoices].([]any)
	if !ok {
		if typed, ok := n.Props[PropChoices].([]Choice); ok {
			return append([]Choice(nil), typed...)
		}
		return nil
	}
	out := make([]Choice, 0, len(raw))
	for _, item := range raw {
		var c Choice
		if err := mapstructure.WeakDecode(item, &c); err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ChoicesValue converts choices into the property-bag representation used
// in serialized documents.
func ChoicesValue(choices []Choice) []any {
	out := make([]any, 0, len(choices))
	for _, c := range choices {
		m := map[string]any{PropChoiceID: c.ID, PropLabel: c.Label}
		if c.Description != "" {
			m["description"] = c.Description
		}
		out = append(out, m)
	}
	return out
}
