package postgres

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fastygo/salescore/domain"
	"github.com/fastygo/salescore/specification"
)

// columnMap binds specification field names to SQL expressions for one
// table. Fields outside the map cannot be translated. Nullable text
// columns scan back as empty strings, so their comparisons coalesce to
// '' to keep this translation in agreement with the in-memory
// predicate evaluation; a bare `col = $1` would silently drop NULL
// rows under NOT and Neq.
type columnMap map[string]column

type column struct {
	expr     string
	nullable bool
}

var saleColumns = columnMap{
	"id":          {expr: "sales.id"},
	"status":      {expr: "sales.status"},
	"customer_id": {expr: "sales.customer_id", nullable: true},
	"credit_sale": {expr: "sales.credit_sale"},
	"currency":    {expr: "sales.currency"},
	"total":       {expr: "(SELECT COALESCE(SUM(quantity * unit_price), 0) FROM sale_items WHERE sale_id = sales.id)"},
}

var productColumns = columnMap{
	"id":             {expr: "id"},
	"code":           {expr: "code"},
	"active":         {expr: "active"},
	"uses_inventory": {expr: "uses_inventory"},
	"stock":          {expr: "stock"},
	"minimum_stock":  {expr: "minimum_stock"},
}

var customerColumns = columnMap{
	"id":               {expr: "id"},
	"name":             {expr: "name"},
	"available_credit": {expr: "available_credit"},
}

var sqlOps = map[specification.Op]string{
	specification.OpEq:  "=",
	specification.OpNeq: "<>",
	specification.OpLt:  "<",
	specification.OpLte: "<=",
	specification.OpGt:  ">",
	specification.OpGte: ">=",
}

// buildWhere translates a predicate tree into a SQL condition with
// positional arguments starting at $1. The translation must agree with
// specification.EvalPredicate on every row.
func buildWhere(p specification.Predicate, columns columnMap) (string, []interface{}, error) {
	var args []interface{}
	clause, err := translate(p, columns, &args)
	if err != nil {
		return "", nil, err
	}
	return clause, args, nil
}

func translate(p specification.Predicate, columns columnMap, args *[]interface{}) (string, error) {
	switch p.Kind {
	case specification.KindLeaf:
		col, ok := columns[p.Field]
		if !ok {
			return "", domain.NewError(domain.ErrCodeInvalid,
				fmt.Sprintf("field %q has no column mapping", p.Field))
		}
		op, ok := sqlOps[p.Op]
		if !ok {
			return "", domain.NewError(domain.ErrCodeInvalid,
				fmt.Sprintf("operator %q has no SQL form", p.Op))
		}
		expr := col.expr
		if col.nullable {
			expr = "COALESCE(" + col.expr + ", '')"
		}
		value, cast := sqlValue(p.Value)
		*args = append(*args, value)
		return fmt.Sprintf("%s %s $%d%s", expr, op, len(*args), cast), nil
	case specification.KindAnd, specification.KindOr:
		joiner := " AND "
		if p.Kind == specification.KindOr {
			joiner = " OR "
		}
		parts := make([]string, 0, len(p.Children))
		for _, child := range p.Children {
			part, err := translate(child, columns, args)
			if err != nil {
				return "", err
			}
			parts = append(parts, part)
		}
		return "(" + strings.Join(parts, joiner) + ")", nil
	case specification.KindNot:
		if len(p.Children) != 1 {
			return "", domain.NewError(domain.ErrCodeInvalid, "NOT predicate requires one child")
		}
		inner, err := translate(p.Children[0], columns, args)
		if err != nil {
			return "", err
		}
		return "NOT (" + inner + ")", nil
	default:
		return "", domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("unknown predicate kind %q", p.Kind))
	}
}

// sqlValue normalizes a predicate value into a driver argument, with an
// explicit cast when textual form carries a numeric.
func sqlValue(v interface{}) (interface{}, string) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n.String(), "::numeric"
	default:
		return v, ""
	}
}
