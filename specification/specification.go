// Package specification implements composable predicates over domain
// entities. A specification answers in two equivalent forms: direct
// in-memory evaluation via IsSatisfiedBy, and a Predicate tree that a
// store can interpret or translate into its own query syntax. The two
// forms must agree on every input.
package specification

// Specification is a reusable boolean predicate over T.
type Specification[T any] interface {
	// IsSatisfiedBy evaluates the predicate directly against an entity.
	IsSatisfiedBy(entity T) bool
	// Predicate renders the specification as a translatable query tree.
	Predicate() Predicate
}

// And combines two specifications; evaluation short-circuits when the
// left side already fails.
func And[T any](left, right Specification[T]) Specification[T] {
	return andSpec[T]{left: left, right: right}
}

// Or combines two specifications; at least one must be satisfied.
func Or[T any](left, right Specification[T]) Specification[T] {
	return orSpec[T]{left: left, right: right}
}

// Not negates a specification.
func Not[T any](inner Specification[T]) Specification[T] {
	return notSpec[T]{inner: inner}
}

type andSpec[T any] struct {
	left, right Specification[T]
}

func (s andSpec[T]) IsSatisfiedBy(entity T) bool {
	return s.left.IsSatisfiedBy(entity) && s.right.IsSatisfiedBy(entity)
}

func (s andSpec[T]) Predicate() Predicate {
	return Predicate{Kind: KindAnd, Children: []Predicate{s.left.Predicate(), s.right.Predicate()}}
}

type orSpec[T any] struct {
	left, right Specification[T]
}

func (s orSpec[T]) IsSatisfiedBy(entity T) bool {
	return s.left.IsSatisfiedBy(entity) || s.right.IsSatisfiedBy(entity)
}

func (s orSpec[T]) Predicate() Predicate {
	return Predicate{Kind: KindOr, Children: []Predicate{s.left.Predicate(), s.right.Predicate()}}
}

type notSpec[T any] struct {
	inner Specification[T]
}

func (s notSpec[T]) IsSatisfiedBy(entity T) bool {
	return !s.inner.IsSatisfiedBy(entity)
}

func (s notSpec[T]) Predicate() Predicate {
	return Predicate{Kind: KindNot, Children: []Predicate{s.inner.Predicate()}}
}

// Field starts a leaf specification over a named field. The getter is
// the in-memory evaluation path; the field name feeds the predicate
// tree, which stores resolve through their own field access.
func Field[T any](name string, get func(T) interface{}) FieldBuilder[T] {
	return FieldBuilder[T]{name: name, get: get}
}

// FieldBuilder constructs comparison leaves for one field.
type FieldBuilder[T any] struct {
	name string
	get  func(T) interface{}
}

func (b FieldBuilder[T]) Eq(value interface{}) Specification[T]  { return b.leaf(OpEq, value) }
func (b FieldBuilder[T]) Neq(value interface{}) Specification[T] { return b.leaf(OpNeq, value) }
func (b FieldBuilder[T]) Lt(value interface{}) Specification[T]  { return b.leaf(OpLt, value) }
func (b FieldBuilder[T]) Lte(value interface{}) Specification[T] { return b.leaf(OpLte, value) }
func (b FieldBuilder[T]) Gt(value interface{}) Specification[T]  { return b.leaf(OpGt, value) }
func (b FieldBuilder[T]) Gte(value interface{}) Specification[T] { return b.leaf(OpGte, value) }

func (b FieldBuilder[T]) leaf(op Op, value interface{}) Specification[T] {
	return leafSpec[T]{field: b.name, get: b.get, op: op, value: value}
}

type leafSpec[T any] struct {
	field string
	get   func(T) interface{}
	op    Op
	value interface{}
}

func (s leafSpec[T]) IsSatisfiedBy(entity T) bool {
	return Compare(s.get(entity), s.op, s.value)
}

func (s leafSpec[T]) Predicate() Predicate {
	return Predicate{Kind: KindLeaf, Field: s.field, Op: s.op, Value: s.value}
}

// Filter returns the entities satisfying the specification, preserving
// input order.
func Filter[T any](entities []T, spec Specification[T]) []T {
	var out []T
	for _, e := range entities {
		if spec.IsSatisfiedBy(e) {
			out = append(out, e)
		}
	}
	return out
}
