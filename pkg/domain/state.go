package domain

import "fmt"

// NavigationState is the navigation stack of a session.
//
// If Routes is empty, Index is nil; otherwise 0 <= *Index < len(Routes).
// States are produced by the reducer only. A transition either returns the
// same pointer (no-op) or a freshly allocated state; it never mutates its input.
type NavigationState struct {
	Routes []RouteInstance `json:"routes"`
	Index  *int            `json:"index"`
}

// NewState returns the empty initial state.
func NewState() *NavigationState {
	return &NavigationState{Routes: []RouteInstance{}}
}

// StateAt builds a state positioned at index. It does not validate; call Validate when
// the input comes from outside the reducer.
func StateAt(index int, routes ...RouteInstance) *NavigationState {
	return &NavigationState{Routes: routes, Index: IndexPtr(index)}
}

// IndexPtr returns a pointer to a copy of i.
func IndexPtr(i int) *int {
	return &i
}

// Len returns the number of entries on the stack.
func (s *NavigationState) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Routes)
}

// CurrentIndex returns the index of the visible entry, or -1 when the stack is empty.
func (s *NavigationState) CurrentIndex() int {
	if s == nil || s.Index == nil {
		return -1
	}
	return *s.Index
}

// Current returns the visible entry.
func (s *NavigationState) Current() (RouteInstance, bool) {
	i := s.CurrentIndex()
	if i < 0 || i >= len(s.Routes) {
		return RouteInstance{}, false
	}
	return s.Routes[i], true
}

// IndexOf returns the position of the first entry with the given key, or -1.
func (s *NavigationState) IndexOf(key string) int {
	if s == nil {
		return -1
	}
	for i, r := range s.Routes {
		if r.Key == key {
			return i
		}
	}
	return -1
}

// Validate checks the index invariant.
func (s *NavigationState) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil state", ErrInvalidIndex)
	}
	if len(s.Routes) == 0 {
		if s.Index != nil {
			return fmt.Errorf("%w: index %d on empty stack", ErrInvalidIndex, *s.Index)
		}
		return nil
	}
	if s.Index == nil {
		return fmt.Errorf("%w: missing index for %d routes", ErrInvalidIndex, len(s.Routes))
	}
	if *s.Index < 0 || *s.Index >= len(s.Routes) {
		return fmt.Errorf("%w: index %d out of range [0,%d)", ErrInvalidIndex, *s.Index, len(s.Routes))
	}
	return nil
}

// Clone returns a deep copy of the stack. Params maps are copied one level deep.
func (s *NavigationState) Clone() *NavigationState {
	if s == nil {
		return nil
	}
	next := &NavigationState{Routes: make([]RouteInstance, len(s.Routes))}
	for i, r := range s.Routes {
		next.Routes[i] = RouteInstance{Key: r.Key, Params: r.Params.Clone()}
	}
	if s.Index != nil {
		next.Index = IndexPtr(*s.Index)
	}
	return next
}

// ArbiterState tells the host whether a back signal should turn into a pop.
type ArbiterState struct {
	Armed bool `json:"armed"`
}

// Scene is everything the host needs to render the visible entry.
type Scene struct {
	Route      RouteInstance   `json:"route"`
	Definition RouteDefinition `json:"definition"`
	Params     Params          `json:"params"`
	Back       ArbiterState    `json:"back"`
}
