// Package store is the table-scoped data access capability used by every
// resource service. RemoteStore talks to Postgres; InMemoryStore backs tests
// and local development. The implementation is chosen once at startup.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
)

// Record is one row as column -> value.
type Record map[string]any

type Op string

const (
	OpEq       Op = "eq"
	OpILike    Op = "ilike"
	OpContains Op = "contains"
	OpGte      Op = "gte"
	OpLte      Op = "lte"
	OpOr       Op = "or"
)

// Filter is one predicate. For OpOr, Any holds the alternatives.
type Filter struct {
	Column string
	Op     Op
	Value  any
	Any    []Filter
}

func Eq(column string, value any) Filter { return Filter{Column: column, Op: OpEq, Value: value} }

// ILike matches rows whose column contains substr, ignoring case.
func ILike(column, substr string) Filter {
	return Filter{Column: column, Op: OpILike, Value: substr}
}

// Contains matches array columns holding every value.
func Contains(column string, values ...string) Filter {
	return Filter{Column: column, Op: OpContains, Value: values}
}

func Gte(column string, value any) Filter { return Filter{Column: column, Op: OpGte, Value: value} }
func Lte(column string, value any) Filter { return Filter{Column: column, Op: OpLte, Value: value} }

func Or(filters ...Filter) Filter { return Filter{Op: OpOr, Any: filters} }

type Order struct {
	Column string
	Desc   bool
}

// Query describes a select. Limit 0 means no limit.
type Query struct {
	Filters []Filter
	Order   []Order
	Limit   int
	Offset  int
}

type Client interface {
	Select(ctx context.Context, table string, q Query) ([]Record, error)
	Count(ctx context.Context, table string, filters []Filter) (int, error)
	Insert(ctx context.Context, table string, rec Record) (Record, error)
	// Update applies patch to every matching row and returns the updated rows.
	Update(ctx context.Context, table string, filters []Filter, patch Record) ([]Record, error)
	// Delete removes matching rows and returns how many were removed.
	Delete(ctx context.Context, table string, filters []Filter) (int, error)
	Ping(ctx context.Context) error
}

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func validIdent(name string) error {
	if !identRe.MatchString(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}

// Decode converts a record into T through its JSON representation.
func Decode[T any](rec Record) (T, error) {
	var out T
	raw, err := json.Marshal(rec)
	if err != nil {
		return out, fmt.Errorf("marshal record: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode record: %w", err)
	}
	return out, nil
}

func DecodeAll[T any](recs []Record) ([]T, error) {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		v, err := Decode[T](rec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
