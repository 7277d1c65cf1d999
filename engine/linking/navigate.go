package linking

import "fmt"

// Frame is one entry on the UI drilldown stack.
type Frame struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label"`
	Data  any    `json:"data,omitempty"`
}

// DrilldownStack is the external collaborator that renders drilldown
// panels. The engine only pushes frames; rendering and popping belong
// to the UI layer.
type DrilldownStack interface {
	Push(Frame)
}

// Navigator translates entity references and related-entity requests
// into drilldown frames, consulting the engine to disambiguate targets.
type Navigator struct {
	engine *Engine
	stack  DrilldownStack
}

// NewNavigator creates a Navigator over the given engine and stack.
func NewNavigator(e *Engine, stack DrilldownStack) *Navigator {
	return &Navigator{engine: e, stack: stack}
}

// NavigateToEntity pushes a single drilldown frame for ref.
func (n *Navigator) NavigateToEntity(ref EntityReference) {
	n.stack.Push(frameFor(ref))
}

// NavigateToRelated resolves entities of toType linked to (fromType,
// fromID). Exactly one match navigates directly; two or more push a
// single picker frame carrying the full match set; zero matches do
// nothing.
func (n *Navigator) NavigateToRelated(fromType EntityType, fromID string, toType EntityType) {
	linked := n.engine.GetLinkedEntities(fromType, fromID)
	matches := linked.Bucket(toType)

	switch len(matches) {
	case 0:
		navigationTotal.WithLabelValues("none").Inc()
	case 1:
		navigationTotal.WithLabelValues("direct").Inc()
		n.stack.Push(frameFor(matches[0]))
	default:
		navigationTotal.WithLabelValues("list").Inc()
		n.stack.Push(Frame{
			ID:    fmt.Sprintf("%s-%s-%s-list", fromType, fromID, toType),
			Type:  fmt.Sprintf("%s-list", toType),
			Label: fmt.Sprintf("%s (%d)", toType, len(matches)),
			Data:  matches,
		})
	}
}

func frameFor(ref EntityReference) Frame {
	return Frame{
		ID:    fmt.Sprintf("%s-%s", ref.Type, ref.ID),
		Type:  string(ref.Type),
		Label: ref.Label,
		Data:  ref.Data,
	}
}
