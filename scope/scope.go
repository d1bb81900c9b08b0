// Package scope tracks which graphs a query evaluation currently reads from.
//
// A Stack holds two independent stacks of scopes: the active scope, which
// GRAPH clauses push while they evaluate, and the default scope, which FROM
// clauses push for a whole query. A Stack belongs to one evaluation and is
// not safe for concurrent use; evaluations that run concurrently each take
// their own.
package scope

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/underlay/rdfset/graph"
	"github.com/underlay/rdfset/types"
)

// ErrEmpty indicates a pop with nothing left to pop
var ErrEmpty = errors.New("scope stack is empty")

// A Scope is the set of graphs visible to a query. Graph is the resolved
// graph for backends that materialize scopes, and nil otherwise.
type Scope struct {
	Names []types.GraphName
	Graph graph.Graph
}

// Includes reports whether name is one of the scope's graphs
func (s Scope) Includes(name types.GraphName) bool { return slices.Contains(s.Names, name) }

// Stack is a pair of active and default scope stacks
type Stack struct {
	active   []Scope
	defaults []Scope
}

// New returns an empty Stack
func New() *Stack { return &Stack{} }

func (s *Stack) PushActive(sc Scope) { s.active = append(s.active, sc) }

func (s *Stack) PushDefault(sc Scope) { s.defaults = append(s.defaults, sc) }

func (s *Stack) PopActive() error { return pop(&s.active) }

func (s *Stack) PopDefault() error { return pop(&s.defaults) }

// Active returns the innermost active scope
func (s *Stack) Active() (Scope, bool) { return peek(s.active) }

// Default returns the innermost default scope
func (s *Stack) Default() (Scope, bool) { return peek(s.defaults) }

// Depth returns the number of pushed active and default scopes
func (s *Stack) Depth() (active, defaults int) { return len(s.active), len(s.defaults) }

func pop(stack *[]Scope) error {
	n := len(*stack)
	if n == 0 {
		return ErrEmpty
	}
	(*stack)[n-1] = Scope{}
	*stack = (*stack)[:n-1]
	return nil
}

func peek(stack []Scope) (Scope, bool) {
	if len(stack) == 0 {
		return Scope{}, false
	}
	return stack[len(stack)-1], true
}
