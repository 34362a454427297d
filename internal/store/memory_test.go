package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProjects(t *testing.T, s *InMemoryStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []Record{
		{"title": "Alpha CRM", "tech_stack": []string{"Go", "React"}, "is_featured": true, "created_at": base},
		{"title": "Beta Shop", "tech_stack": []string{"Node"}, "is_featured": false, "created_at": base.Add(time.Hour)},
		{"title": "gamma crm", "tech_stack": []string{"Go"}, "is_featured": true, "created_at": base.Add(2 * time.Hour)},
	}
	for _, r := range rows {
		_, err := s.Insert(ctx, "projects", r)
		require.NoError(t, err)
	}
}

func TestInMemoryStore_InsertAssignsID(t *testing.T) {
	s := NewInMemoryStore()
	rec, err := s.Insert(context.Background(), "team", Record{"name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, float64(1), rec["id"])
	assert.NotEmpty(t, rec["created_at"])

	rec2, err := s.Insert(context.Background(), "team", Record{"name": "Linus"})
	require.NoError(t, err)
	assert.Equal(t, float64(2), rec2["id"])
}

func TestInMemoryStore_Filters(t *testing.T) {
	s := NewInMemoryStore()
	seedProjects(t, s)
	ctx := context.Background()

	tests := []struct {
		name    string
		filters []Filter
		want    int
	}{
		{"eq bool", []Filter{Eq("is_featured", true)}, 2},
		{"ilike ignores case", []Filter{ILike("title", "CRM")}, 2},
		{"contains array", []Filter{Contains("tech_stack", "Go")}, 2},
		{"contains all values", []Filter{Contains("tech_stack", "Go", "React")}, 1},
		{"gte timestamp", []Filter{Gte("created_at", time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC))}, 2},
		{"lte timestamp", []Filter{Lte("created_at", time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC))}, 2},
		{"or group", []Filter{Or(ILike("title", "beta"), Contains("tech_stack", "React"))}, 2},
		{"and of filters", []Filter{Eq("is_featured", true), ILike("title", "gamma")}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := s.Count(ctx, "projects", tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestInMemoryStore_OrderAndPaging(t *testing.T) {
	s := NewInMemoryStore()
	seedProjects(t, s)

	rows, err := s.Select(context.Background(), "projects", Query{
		Order:  []Order{{Column: "created_at", Desc: true}},
		Limit:  2,
		Offset: 1,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Beta Shop", rows[0]["title"])
	assert.Equal(t, "Alpha CRM", rows[1]["title"])

	past, err := s.Select(context.Background(), "projects", Query{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestInMemoryStore_UpdateAndDelete(t *testing.T) {
	s := NewInMemoryStore()
	seedProjects(t, s)
	ctx := context.Background()

	updated, err := s.Update(ctx, "projects", []Filter{Eq("id", 2)}, Record{"title": "Beta Store", "id": 99})
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, "Beta Store", updated[0]["title"])
	assert.Equal(t, float64(2), updated[0]["id"])

	none, err := s.Update(ctx, "projects", []Filter{Eq("id", 42)}, Record{"title": "x"})
	require.NoError(t, err)
	assert.Empty(t, none)

	n, err := s.Delete(ctx, "projects", []Filter{Eq("id", 1)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	left, err := s.Count(ctx, "projects", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, left)
}

func TestInMemoryStore_RejectsUnfilteredWrites(t *testing.T) {
	s := NewInMemoryStore()
	_, err := s.Update(context.Background(), "projects", nil, Record{"title": "x"})
	assert.Error(t, err)
	_, err = s.Delete(context.Background(), "projects", nil)
	assert.Error(t, err)
}

func TestInMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewInMemoryStore()
	rec, err := s.Insert(context.Background(), "projects", Record{"title": "A", "tech_stack": []string{"Go"}})
	require.NoError(t, err)
	rec["title"] = "mutated"
	rec["tech_stack"].([]any)[0] = "Rust"

	rows, err := s.Select(context.Background(), "projects", Query{})
	require.NoError(t, err)
	assert.Equal(t, "A", rows[0]["title"])
	assert.Equal(t, []any{"Go"}, rows[0]["tech_stack"])
}

func TestInMemoryStore_ConcurrentUpdatesLastWriterWins(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	_, err := s.Insert(ctx, "inquiries", Record{"status": "pending"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Update(ctx, "inquiries", []Filter{Eq("id", 1)}, Record{"notes": fmt.Sprintf("note-%d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	rows, err := s.Select(ctx, "inquiries", Query{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Regexp(t, `^note-\d+$`, rows[0]["notes"])
}

func TestInMemoryStore_CanceledContext(t *testing.T) {
	s := NewInMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Select(ctx, "projects", Query{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecode(t *testing.T) {
	type row struct {
		ID    int64    `json:"id"`
		Title string   `json:"title"`
		Tags  []string `json:"tech_stack"`
	}
	got, err := Decode[row](Record{"id": float64(7), "title": "A", "tech_stack": []any{"Go"}})
	require.NoError(t, err)
	assert.Equal(t, row{ID: 7, Title: "A", Tags: []string{"Go"}}, got)
}
