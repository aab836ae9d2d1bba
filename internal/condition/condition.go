// Package condition implements the condition type lattice, compound
// conditions, and the raise/guard re-raise protocol.
package condition

import "wisp/internal/wispval"

// Root of the condition type lattice.
var (
	Condition  = &wispval.ConditionType{Name: "condition"}
	Serious    = &wispval.ConditionType{Name: "serious", Parents: []*wispval.ConditionType{Condition}}
	Error      = &wispval.ConditionType{Name: "error", Parents: []*wispval.ConditionType{Serious}}
	Message    = &wispval.ConditionType{Name: "message", Parents: []*wispval.ConditionType{Condition}}
	IOError    = &wispval.ConditionType{Name: "io-error", Parents: []*wispval.ConditionType{Error}}
	ReadError  = &wispval.ConditionType{Name: "read-error", Parents: []*wispval.ConditionType{IOError}}
	PortError  = &wispval.ConditionType{Name: "port-error", Parents: []*wispval.ConditionType{IOError}}
	IOReadErr  = &wispval.ConditionType{Name: "io-read-error", Parents: []*wispval.ConditionType{ReadError, PortError}}
	SystemErr  = &wispval.ConditionType{Name: "system-error", Parents: []*wispval.ConditionType{Error}}
	ArithError = &wispval.ConditionType{Name: "arith-error", Parents: []*wispval.ConditionType{Error}}
	NumberErr  = &wispval.ConditionType{Name: "number-error", Parents: []*wispval.ConditionType{Error}}
)

// Stable condition tags, each a leaf of one of the types above.
// raise/guard dispatch on these via New/HasType.
var (
	TagIORead        = &wispval.ConditionType{Name: "io/read", Parents: []*wispval.ConditionType{IOReadErr}}
	TagIOPort        = &wispval.ConditionType{Name: "io/port", Parents: []*wispval.ConditionType{PortError}}
	TagIOSystem      = &wispval.ConditionType{Name: "io/system", Parents: []*wispval.ConditionType{SystemErr}}
	TagDivByZero     = &wispval.ConditionType{Name: "arith/div-by-zero", Parents: []*wispval.ConditionType{ArithError}}
	TagOverflow      = &wispval.ConditionType{Name: "arith/overflow", Parents: []*wispval.ConditionType{ArithError}}
	TagDomain        = &wispval.ConditionType{Name: "arith/domain", Parents: []*wispval.ConditionType{ArithError}}
	TagNumberParse   = &wispval.ConditionType{Name: "number/parse", Parents: []*wispval.ConditionType{NumberErr}}
	TagNumberImplLim = &wispval.ConditionType{Name: "number/impl-limit", Parents: []*wispval.ConditionType{NumberErr}}
)

// New constructs a simple condition of the given type.
func New(t *wispval.ConditionType, message string, irritants ...wispval.Value) *wispval.SimpleCondition {
	return &wispval.SimpleCondition{Type: t, Message: message, Irritants: irritants}
}

// MakeCompound flattens nested compounds into one CompoundCondition.
func MakeCompound(parts ...wispval.Value) *wispval.CompoundCondition {
	var members []*wispval.SimpleCondition
	var flatten func(wispval.Value)
	flatten = func(v wispval.Value) {
		switch c := v.(type) {
		case *wispval.SimpleCondition:
			members = append(members, c)
		case *wispval.CompoundCondition:
			for _, m := range c.Members {
				flatten(m)
			}
		}
	}
	for _, p := range parts {
		flatten(p)
	}
	return &wispval.CompoundCondition{Members: members}
}

// HasType reports whether cond (a simple or compound condition, or any
// other Value) carries type t: true for a simple condition whose own
// type is a subtype of t, or a compound condition with any such member.
func HasType(cond wispval.Value, t *wispval.ConditionType) bool {
	switch c := cond.(type) {
	case *wispval.SimpleCondition:
		return c.Type.IsSubtypeOf(t)
	case *wispval.CompoundCondition:
		for _, m := range c.Members {
			if m.Type.IsSubtypeOf(t) {
				return true
			}
		}
	}
	return false
}

// Extract returns the first member of cond (simple or compound) whose
// type is a subtype of t, and whether one was found.
func Extract(cond wispval.Value, t *wispval.ConditionType) (*wispval.SimpleCondition, bool) {
	switch c := cond.(type) {
	case *wispval.SimpleCondition:
		if c.Type.IsSubtypeOf(t) {
			return c, true
		}
	case *wispval.CompoundCondition:
		for _, m := range c.Members {
			if m.Type.IsSubtypeOf(t) {
				return m, true
			}
		}
	}
	return nil, false
}
