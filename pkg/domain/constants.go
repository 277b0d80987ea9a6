package domain

// Schema and template constants shared by the canvas and recorrido models.
const (
	// SchemaVersion is the canvas document version this engine produces.
	SchemaVersion = "1.0"

	// DefaultTemplate is the screen template used when none is given.
	DefaultTemplate = "blank"
	// ChoiceTemplate is the screen template a decision compiles to.
	ChoiceTemplate = "screen_choice"
	// EndingTemplate is the conventional template for closing screens.
	EndingTemplate = "ending"

	// ConditionAlways is the condition type of an unconditional transition.
	ConditionAlways = "always"
	// ConditionChoice is the condition type carried by guided-choice edges.
	ConditionChoice = "choice"
)

// Property keys used inside node property bags.
const (
	PropTemplateID      = "screen_template_id"
	PropProps           = "props"
	PropStepType        = "step_type"
	PropCapture         = "capture"
	PropEmit            = "emit"
	PropResourceID      = "resource_id"
	PropQuestion        = "question"
	PropChoices         = "choices"
	PropConditionType   = "condition_type"
	PropConditionParams = "condition_params"
	PropDurationSeconds = "duration_seconds"
	PropDurationMinutes = "duration_minutes"
	PropMessage         = "message"
	PropLabel           = "label"
	PropText            = "text"
	PropChoiceID        = "choice_id"
)

// Metadata keys stamped into document meta bags.
const (
	MetaCreatedAt           = "created_at"
	MetaUpdatedAt           = "updated_at"
	MetaCanvasVersion       = "canvas_version"
	MetaCanvasPosition      = "canvas_position"
	MetaConvertedFromCanvas = "converted_from_canvas"
	MetaConvertedFromFlow   = "converted_from_recorrido"
	MetaRecorridoID         = "recorrido_id"
	MetaPreset              = "preset"
	MetaContentHash         = "content_hash"
)
