package schema

import "github.com/aretw0/lienzo/pkg/domain"

var choice = Object(Schema{
	domain.PropChoiceID: String(),
	domain.PropLabel:    String(),
	"description":       String(),
})

var byKind = map[domain.Kind]Schema{
	domain.KindStart: {},
	domain.KindEnd:   {},
	domain.KindScreen: {
		domain.PropTemplateID: String(),
		domain.PropProps:      Map(),
		domain.PropStepType:   String(),
		domain.PropResourceID: String(),
	},
	domain.KindDecision: {
		domain.PropQuestion: String(),
		domain.PropChoices:  List(choice),
	},
	domain.KindCondition: {
		domain.PropConditionType:   String(),
		domain.PropConditionParams: Map(),
	},
	domain.KindDelay: {
		domain.PropDurationSeconds: Number(),
		domain.PropDurationMinutes: Number(),
		domain.PropMessage:         String(),
	},
	domain.KindGroup:   {domain.PropLabel: String()},
	domain.KindComment: {domain.PropText: String()},
}

// ForKind returns the property schema of a node kind.
func ForKind(k domain.Kind) Schema {
	return byKind[k]
}

// CheckNode validates the property bag of n against its kind schema.
func CheckNode(n domain.Node) error {
	return Check(ForKind(n.Kind), n.Props)
}
