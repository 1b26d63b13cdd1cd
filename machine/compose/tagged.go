package compose

import "fmt"

// Tagged is the event (and output) union of a parallel composition: a value
// destined for exactly one of the two constituent machines.
type Tagged[A, B any] struct {
	second bool
	a      A
	b      B
}

// First tags a value for the first machine.
func First[A, B any](a A) Tagged[A, B] {
	return Tagged[A, B]{a: a}
}

// Second tags a value for the second machine.
func Second[A, B any](b B) Tagged[A, B] {
	return Tagged[A, B]{second: true, b: b}
}

// First returns the first-machine value, if this is a first-tagged union.
func (t Tagged[A, B]) First() (A, bool) {
	return t.a, !t.second
}

// Second returns the second-machine value, if this is a second-tagged union.
func (t Tagged[A, B]) Second() (B, bool) {
	return t.b, t.second
}

func (t Tagged[A, B]) String() string {
	if t.second {
		return fmt.Sprintf("second(%+v)", t.b)
	}
	return fmt.Sprintf("first(%+v)", t.a)
}
