// Package statemachine holds closed, static transition tables shared by the
// order and quotation status machines.
package statemachine

// Table is an immutable set of allowed transitions between states of type S.
type Table[S comparable] struct {
	edges map[S][]S
}

// NewTable copies the supplied edges into a Table. States that only appear as
// targets are terminal.
func NewTable[S comparable](edges map[S][]S) Table[S] {
	copied := make(map[S][]S, len(edges))
	for from, targets := range edges {
		copied[from] = append([]S(nil), targets...)
	}
	return Table[S]{edges: copied}
}

// Allows reports whether from -> to is a listed transition.
func (t Table[S]) Allows(from, to S) bool {
	for _, target := range t.edges[from] {
		if target == to {
			return true
		}
	}
	return false
}

// Targets lists the states reachable from the given state in declaration order.
func (t Table[S]) Targets(from S) []S {
	return append([]S(nil), t.edges[from]...)
}

// IsTerminal reports whether no transition leaves the state.
func (t Table[S]) IsTerminal(state S) bool {
	return len(t.edges[state]) == 0
}
