package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool used by RemoteStore.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// RemoteStore runs queries against the hosted Postgres database. Rows come
// back as jsonb so every table shares one scan path.
type RemoteStore struct {
	db DB
}

func NewRemoteStore(db DB) *RemoteStore {
	return &RemoteStore{db: db}
}

var _ Client = (*RemoteStore)(nil)

func (s *RemoteStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *RemoteStore) Select(ctx context.Context, table string, q Query) ([]Record, error) {
	sql, args, err := buildSelect(table, q)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	return collectRecords(rows)
}

func (s *RemoteStore) Count(ctx context.Context, table string, filters []Filter) (int, error) {
	sql, args, err := buildCount(table, filters)
	if err != nil {
		return 0, err
	}

	var n int
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func (s *RemoteStore) Insert(ctx context.Context, table string, rec Record) (Record, error) {
	sql, args, err := buildInsert(table, rec)
	if err != nil {
		return nil, err
	}

	var raw []byte
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		return nil, fmt.Errorf("insert %s: %w", table, err)
	}
	return decodeRecord(raw)
}

func (s *RemoteStore) Update(ctx context.Context, table string, filters []Filter, patch Record) ([]Record, error) {
	sql, args, err := buildUpdate(table, filters, patch)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", table, err)
	}
	return collectRecords(rows)
}

func (s *RemoteStore) Delete(ctx context.Context, table string, filters []Filter) (int, error) {
	sql, args, err := buildDelete(table, filters)
	if err != nil {
		return 0, err
	}

	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", table, err)
	}
	return int(tag.RowsAffected()), nil
}

func collectRecords(rows pgx.Rows) ([]Record, error) {
	defer rows.Close()

	out := make([]Record, 0, 16)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func decodeRecord(raw []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	return rec, nil
}

// sqlBuilder accumulates positional arguments.
type sqlBuilder struct {
	args []any
}

func (b *sqlBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func quote(name string) (string, error) {
	if err := validIdent(name); err != nil {
		return "", err
	}
	return pgx.Identifier{name}.Sanitize(), nil
}

func (b *sqlBuilder) where(filters []Filter) (string, error) {
	if len(filters) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		p, err := b.predicate(f)
		if err != nil {
			return "", err
		}
		parts = append(parts, p)
	}
	return " WHERE " + strings.Join(parts, " AND "), nil
}

func (b *sqlBuilder) predicate(f Filter) (string, error) {
	if f.Op == OpOr {
		if len(f.Any) == 0 {
			return "", fmt.Errorf("empty or-filter")
		}
		alts := make([]string, 0, len(f.Any))
		for _, sub := range f.Any {
			p, err := b.predicate(sub)
			if err != nil {
				return "", err
			}
			alts = append(alts, p)
		}
		return "(" + strings.Join(alts, " OR ") + ")", nil
	}

	col, err := quote(f.Column)
	if err != nil {
		return "", err
	}

	switch f.Op {
	case OpEq:
		if f.Value == nil {
			return col + " IS NULL", nil
		}
		return col + " = " + b.arg(f.Value), nil
	case OpILike:
		s, _ := f.Value.(string)
		return col + " ILIKE " + b.arg("%"+escapeLike(s)+"%"), nil
	case OpContains:
		return col + " @> " + b.arg(f.Value), nil
	case OpGte:
		return col + " >= " + b.arg(f.Value), nil
	case OpLte:
		return col + " <= " + b.arg(f.Value), nil
	default:
		return "", fmt.Errorf("unsupported filter op %q", f.Op)
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func orderClause(orders []Order) (string, error) {
	if len(orders) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(orders))
	for _, o := range orders {
		col, err := quote(o.Column)
		if err != nil {
			return "", err
		}
		if o.Desc {
			parts = append(parts, col+" DESC")
		} else {
			parts = append(parts, col+" ASC")
		}
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

func buildSelect(table string, q Query) (string, []any, error) {
	t, err := quote(table)
	if err != nil {
		return "", nil, err
	}

	b := &sqlBuilder{}
	where, err := b.where(q.Filters)
	if err != nil {
		return "", nil, err
	}
	order, err := orderClause(q.Order)
	if err != nil {
		return "", nil, err
	}

	sql := "SELECT to_jsonb(r.*) FROM " + t + " AS r" + where + order
	if q.Limit > 0 {
		sql += " LIMIT " + b.arg(q.Limit)
	}
	if q.Offset > 0 {
		sql += " OFFSET " + b.arg(q.Offset)
	}
	return sql, b.args, nil
}

func buildCount(table string, filters []Filter) (string, []any, error) {
	t, err := quote(table)
	if err != nil {
		return "", nil, err
	}

	b := &sqlBuilder{}
	where, err := b.where(filters)
	if err != nil {
		return "", nil, err
	}
	return "SELECT count(*) FROM " + t + " AS r" + where, b.args, nil
}

func sortedColumns(rec Record) []string {
	cols := make([]string, 0, len(rec))
	for k := range rec {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

func buildInsert(table string, rec Record) (string, []any, error) {
	t, err := quote(table)
	if err != nil {
		return "", nil, err
	}
	if len(rec) == 0 {
		return "", nil, fmt.Errorf("insert %s: empty record", table)
	}

	b := &sqlBuilder{}
	cols := sortedColumns(rec)
	names := make([]string, 0, len(cols))
	values := make([]string, 0, len(cols))
	for _, c := range cols {
		q, err := quote(c)
		if err != nil {
			return "", nil, err
		}
		names = append(names, q)
		values = append(values, b.arg(rec[c]))
	}

	sql := "INSERT INTO " + t + " AS r (" + strings.Join(names, ", ") + ") VALUES (" +
		strings.Join(values, ", ") + ") RETURNING to_jsonb(r.*)"
	return sql, b.args, nil
}

func buildUpdate(table string, filters []Filter, patch Record) (string, []any, error) {
	t, err := quote(table)
	if err != nil {
		return "", nil, err
	}
	if len(patch) == 0 {
		return "", nil, fmt.Errorf("update %s: empty patch", table)
	}
	if len(filters) == 0 {
		return "", nil, fmt.Errorf("update %s: refusing unfiltered update", table)
	}

	b := &sqlBuilder{}
	cols := sortedColumns(patch)
	sets := make([]string, 0, len(cols))
	for _, c := range cols {
		q, err := quote(c)
		if err != nil {
			return "", nil, err
		}
		sets = append(sets, q+" = "+b.arg(patch[c]))
	}

	where, err := b.where(filters)
	if err != nil {
		return "", nil, err
	}
	sql := "UPDATE " + t + " AS r SET " + strings.Join(sets, ", ") + where + " RETURNING to_jsonb(r.*)"
	return sql, b.args, nil
}

func buildDelete(table string, filters []Filter) (string, []any, error) {
	t, err := quote(table)
	if err != nil {
		return "", nil, err
	}
	if len(filters) == 0 {
		return "", nil, fmt.Errorf("delete %s: refusing unfiltered delete", table)
	}

	b := &sqlBuilder{}
	where, err := b.where(filters)
	if err != nil {
		return "", nil, err
	}
	return "DELETE FROM " + t + " AS r" + where, b.args, nil
}
