package specification

import "github.com/shopspring/decimal"

// Kind discriminates predicate tree nodes.
type Kind string

const (
	KindLeaf Kind = "leaf"
	KindAnd  Kind = "and"
	KindOr   Kind = "or"
	KindNot  Kind = "not"
)

// Op is a leaf comparison operator.
type Op string

const (
	OpEq  Op = "eq"
	OpNeq Op = "neq"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpGt  Op = "gt"
	OpGte Op = "gte"
)

// Predicate is the translatable query form of a specification. Stores
// interpret it against their own field access (SQL translation, map
// lookup, struct readers).
type Predicate struct {
	Kind     Kind
	Field    string
	Op       Op
	Value    interface{}
	Children []Predicate
}

// FieldReader resolves a named field of an entity for predicate
// interpretation.
type FieldReader[T any] func(entity T, field string) interface{}

// EvalPredicate interprets a predicate tree against an entity using the
// given field reader. This is the reference semantics every translated
// form must match.
func EvalPredicate[T any](p Predicate, read FieldReader[T], entity T) bool {
	switch p.Kind {
	case KindLeaf:
		return Compare(read(entity, p.Field), p.Op, p.Value)
	case KindAnd:
		for _, child := range p.Children {
			if !EvalPredicate(child, read, entity) {
				return false
			}
		}
		return true
	case KindOr:
		for _, child := range p.Children {
			if EvalPredicate(child, read, entity) {
				return true
			}
		}
		return false
	case KindNot:
		if len(p.Children) != 1 {
			return false
		}
		return !EvalPredicate(p.Children[0], read, entity)
	default:
		return false
	}
}

// Compare applies op to two values. Values are normalized so that ints,
// strings, bools and decimals compare by value, not representation.
func Compare(left interface{}, op Op, right interface{}) bool {
	cmp, comparable := compareValues(left, right)
	switch op {
	case OpEq:
		return comparable && cmp == 0
	case OpNeq:
		return !comparable || cmp != 0
	case OpLt:
		return comparable && cmp < 0
	case OpLte:
		return comparable && cmp <= 0
	case OpGt:
		return comparable && cmp > 0
	case OpGte:
		return comparable && cmp >= 0
	default:
		return false
	}
}

func compareValues(left, right interface{}) (int, bool) {
	if ld, ok := toDecimal(left); ok {
		rd, ok := toDecimal(right)
		if !ok {
			return 0, false
		}
		return ld.Cmp(rd), true
	}

	switch l := normalize(left).(type) {
	case string:
		r, ok := normalize(right).(string)
		if !ok {
			return 0, false
		}
		switch {
		case l < r:
			return -1, true
		case l > r:
			return 1, true
		default:
			return 0, true
		}
	case bool:
		r, ok := normalize(right).(bool)
		if !ok {
			return 0, false
		}
		if l == r {
			return 0, true
		}
		if !l {
			return -1, true
		}
		return 1, true
	default:
		return 0, false
	}
}

func toDecimal(v interface{}) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	case decimal.Decimal:
		return n, true
	default:
		return decimal.Decimal{}, false
	}
}

func normalize(v interface{}) interface{} {
	switch s := v.(type) {
	case interface{ String() string }:
		// Typed string enums (statuses, kinds) compare by their text.
		return s.String()
	}
	switch s := v.(type) {
	case string:
		return s
	case bool:
		return s
	default:
		return v
	}
}
