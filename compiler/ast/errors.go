package ast

import "fmt"

// InvariantViolation reports a tree that cannot exist: a value outside a
// closed variant set, a broken structural invariant, or an anchor that is
// illegal for its node. It signals a bug in whatever built the tree.
type InvariantViolation struct {
	Node    Node
	Message string
}

// Error implements the error interface
func (e *InvariantViolation) Error() string {
	if isNil(e.Node) {
		return "invariant violation: " + e.Message
	}
	return fmt.Sprintf("invariant violation: %s (%T at %s)", e.Message, e.Node, anchorOf(e.Node))
}

// Violation builds an InvariantViolation for n.
func Violation(n Node, format string, args ...any) *InvariantViolation {
	return &InvariantViolation{Node: n, Message: fmt.Sprintf(format, args...)}
}
