package components

import "github.com/yohamta/donburi"

// AbsmData is an animation blending state machine. Only the parameters are
// modeled; blending belongs to the renderer.
type AbsmData struct {
	Rules map[string]bool
}

// SetRule sets a boolean transition rule.
func (a *AbsmData) SetRule(name string, value bool) {
	if a.Rules == nil {
		a.Rules = make(map[string]bool)
	}
	a.Rules[name] = value
}

// Rule returns a boolean transition rule, false when unset.
func (a *AbsmData) Rule(name string) bool {
	return a.Rules[name]
}

var Absm = donburi.NewComponentType[AbsmData]()
