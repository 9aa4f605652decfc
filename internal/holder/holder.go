// Package holder picks the ancestor element that frames an interaction.
//
// The walk starts at the target's parent and runs at most MaxIterations
// iterations. It never climbs onto the body. Outside tabular markup it stops
// once past GenericDepth; inside a row or cell it keeps climbing until the
// enclosing TABLE is reached, so the row or cell is not cut short.
package holder

import "github.com/rsclarke/clicktrace/internal/dom"

const (
	// MaxIterations bounds the ancestor walk.
	MaxIterations = 10
	// GenericDepth is the last iteration index at which a walk outside a
	// table context may still advance.
	GenericDepth = 4
)

// Reason records why a walk stopped.
type Reason string

// Stop reasons.
const (
	ReasonDetached     Reason = "detached"      // target has no parent
	ReasonBody         Reason = "body"          // holder is the body
	ReasonRoot         Reason = "root"          // holder has no parent
	ReasonParentBody   Reason = "parent-body"   // holder's parent is the body
	ReasonGenericDepth Reason = "generic-depth" // past GenericDepth outside a table
	ReasonExhausted    Reason = "exhausted"     // MaxIterations reached
)

// Result describes a completed walk.
type Result struct {
	Holder dom.Element
	// Iterations is the number of loop iterations entered, including the
	// one that stopped the walk.
	Iterations   int
	Reason       Reason
	TableContext bool
}

// state is the accumulator threaded through the walk.
type state struct {
	holder      dom.Element
	expectTable bool
}

// Resolve returns the holder for target.
func Resolve(target dom.Element) dom.Element {
	return Walk(target).Holder
}

// Walk runs the bounded ancestor walk and reports how it ended. A target
// without a parent is its own holder.
func Walk(target dom.Element) Result {
	if target == nil {
		return Result{Reason: ReasonDetached}
	}
	parent := target.Parent()
	if parent == nil {
		return Result{Holder: target, Reason: ReasonDetached}
	}

	s := state{holder: parent}
	for i := 0; i < MaxIterations; i++ {
		next, reason, done := step(s, i)
		if done {
			return Result{Holder: next.holder, Iterations: i + 1, Reason: reason, TableContext: next.expectTable}
		}
		s = next
	}
	return Result{Holder: s.holder, Iterations: MaxIterations, Reason: ReasonExhausted, TableContext: s.expectTable}
}

// step performs iteration i. It returns the new state and, when the walk
// stops, the reason. A stopping step never advances the holder.
func step(s state, i int) (state, Reason, bool) {
	if s.holder.IsBody() {
		return s, ReasonBody, true
	}
	parent := s.holder.Parent()
	if parent == nil {
		return s, ReasonRoot, true
	}
	if parent.IsBody() {
		return s, ReasonParentBody, true
	}

	switch s.holder.Tag() {
	case "TR", "TD", "TH":
		s.expectTable = true
	case "TABLE":
		s.expectTable = false
	}

	if i > GenericDepth && !s.expectTable {
		return s, ReasonGenericDepth, true
	}

	s.holder = parent
	return s, "", false
}
