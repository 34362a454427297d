package store

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"
)

// InMemoryStore keeps every table in process memory. Values are normalized
// through JSON on write so reads look the same as RemoteStore results.
type InMemoryStore struct {
	mu     sync.Mutex
	tables map[string]*memTable
	now    func() time.Time
}

type memTable struct {
	nextID int64
	rows   []Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		tables: make(map[string]*memTable),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

var _ Client = (*InMemoryStore)(nil)

func (s *InMemoryStore) Ping(context.Context) error { return nil }

func (s *InMemoryStore) table(name string) (*memTable, error) {
	if err := validIdent(name); err != nil {
		return nil, err
	}
	t, ok := s.tables[name]
	if !ok {
		t = &memTable{}
		s.tables[name] = t
	}
	return t, nil
}

func (s *InMemoryStore) Select(ctx context.Context, table string, q Query) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(table)
	if err != nil {
		return nil, err
	}

	matched, err := filterRows(t.rows, q.Filters)
	if err != nil {
		return nil, err
	}
	sortRows(matched, q.Order)

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			matched = matched[:0]
		} else {
			matched = matched[q.Offset:]
		}
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	out := make([]Record, len(matched))
	for i, r := range matched {
		out[i] = copyRecord(r)
	}
	return out, nil
}

func (s *InMemoryStore) Count(ctx context.Context, table string, filters []Filter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(table)
	if err != nil {
		return 0, err
	}
	matched, err := filterRows(t.rows, filters)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

func (s *InMemoryStore) Insert(ctx context.Context, table string, rec Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(rec) == 0 {
		return nil, fmt.Errorf("insert %s: empty record", table)
	}
	row, err := normalize(rec)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(table)
	if err != nil {
		return nil, err
	}
	t.nextID++
	row["id"] = float64(t.nextID)
	if _, ok := row["created_at"]; !ok {
		row["created_at"] = s.now().Format(time.RFC3339Nano)
	}
	t.rows = append(t.rows, row)
	return copyRecord(row), nil
}

func (s *InMemoryStore) Update(ctx context.Context, table string, filters []Filter, patch Record) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return nil, fmt.Errorf("update %s: empty patch", table)
	}
	if len(filters) == 0 {
		return nil, fmt.Errorf("update %s: refusing unfiltered update", table)
	}
	norm, err := normalize(patch)
	if err != nil {
		return nil, err
	}
	delete(norm, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(table)
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0)
	for _, row := range t.rows {
		ok, err := matchAll(row, filters)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		for k, v := range norm {
			row[k] = v
		}
		out = append(out, copyRecord(row))
	}
	return out, nil
}

func (s *InMemoryStore) Delete(ctx context.Context, table string, filters []Filter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(filters) == 0 {
		return 0, fmt.Errorf("delete %s: refusing unfiltered delete", table)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(table)
	if err != nil {
		return 0, err
	}

	kept := t.rows[:0]
	removed := 0
	for _, row := range t.rows {
		ok, err := matchAll(row, filters)
		if err != nil {
			return 0, err
		}
		if ok {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	t.rows = kept
	return removed, nil
}

func normalize(rec Record) (Record, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("normalize record: %w", err)
	}
	var out Record
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("normalize record: %w", err)
	}
	return out, nil
}

func normalizeValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// copyRecord is shallow except for arrays, the only nested values tables hold.
func copyRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		if arr, ok := v.([]any); ok {
			v = append([]any(nil), arr...)
		}
		out[k] = v
	}
	return out
}

func filterRows(rows []Record, filters []Filter) ([]Record, error) {
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		ok, err := matchAll(row, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func matchAll(row Record, filters []Filter) (bool, error) {
	for _, f := range filters {
		ok, err := match(row, f)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func match(row Record, f Filter) (bool, error) {
	if f.Op == OpOr {
		if len(f.Any) == 0 {
			return false, fmt.Errorf("empty or-filter")
		}
		for _, sub := range f.Any {
			ok, err := match(row, sub)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}

	if err := validIdent(f.Column); err != nil {
		return false, err
	}
	have := row[f.Column]
	want, err := normalizeValue(f.Value)
	if err != nil {
		return false, err
	}

	switch f.Op {
	case OpEq:
		return reflect.DeepEqual(have, want), nil
	case OpILike:
		s, ok := have.(string)
		sub, _ := want.(string)
		return ok && strings.Contains(strings.ToLower(s), strings.ToLower(sub)), nil
	case OpContains:
		arr, ok := have.([]any)
		if !ok {
			return false, nil
		}
		wanted, _ := want.([]any)
		for _, w := range wanted {
			if !containsValue(arr, w) {
				return false, nil
			}
		}
		return true, nil
	case OpGte:
		if have == nil {
			return false, nil
		}
		return compare(have, want) >= 0, nil
	case OpLte:
		if have == nil {
			return false, nil
		}
		return compare(have, want) <= 0, nil
	default:
		return false, fmt.Errorf("unsupported filter op %q", f.Op)
	}
}

func containsValue(arr []any, v any) bool {
	for _, a := range arr {
		if reflect.DeepEqual(a, v) {
			return true
		}
	}
	return false
}

// compare orders two normalized values. Strings that parse as RFC 3339
// timestamps compare chronologically.
func compare(a, b any) int {
	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			}
			return 1
		}
	case string:
		if bv, ok := b.(string); ok {
			ta, errA := time.Parse(time.RFC3339Nano, av)
			tb, errB := time.Parse(time.RFC3339Nano, bv)
			if errA == nil && errB == nil {
				return ta.Compare(tb)
			}
			return strings.Compare(av, bv)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// sortRows applies orders, nulls last, with id ascending as the tie-break.
func sortRows(rows []Record, orders []Order) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range orders {
			a, b := rows[i][o.Column], rows[j][o.Column]
			switch {
			case a == nil && b == nil:
				continue
			case a == nil:
				return false
			case b == nil:
				return true
			}
			c := compare(a, b)
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return compare(rows[i]["id"], rows[j]["id"]) < 0
	})
}
