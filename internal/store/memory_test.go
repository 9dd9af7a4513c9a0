package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"member_id"`
	Status    string    `json:"status"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

func TestMemoryStore_PutGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	doc := testDoc{ID: "d1", MemberID: "m1", Status: "pending", Amount: 50}
	require.NoError(t, s.Put(ctx, "bills", "d1", doc))

	var got testDoc
	require.NoError(t, s.Get(ctx, "bills", "d1", &got))
	assert.Equal(t, doc.MemberID, got.MemberID)
	assert.Equal(t, doc.Amount, got.Amount)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemoryStore()

	var got testDoc
	err := s.Get(context.Background(), "bills", "nope", &got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Update(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "bills", "d1", testDoc{ID: "d1", Status: "pending", Amount: 50}))
	require.NoError(t, s.Update(ctx, "bills", "d1", map[string]interface{}{"status": "paid"}))

	var got testDoc
	require.NoError(t, s.Get(ctx, "bills", "d1", &got))
	assert.Equal(t, "paid", got.Status)
	assert.Equal(t, 50.0, got.Amount, "untouched fields survive a partial update")

	err := s.Update(ctx, "bills", "missing", map[string]interface{}{"status": "paid"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_QueryFilterOrderLimit(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	docs := []testDoc{
		{ID: "a", MemberID: "m1", Status: "pending", CreatedAt: base},
		{ID: "b", MemberID: "m1", Status: "paid", CreatedAt: base.Add(time.Hour)},
		{ID: "c", MemberID: "m1", Status: "pending", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "d", MemberID: "m2", Status: "pending", CreatedAt: base.Add(3 * time.Hour)},
	}
	for _, d := range docs {
		require.NoError(t, s.Put(ctx, "bills", d.ID, d))
	}

	var got []testDoc
	q := Query{
		Filters:    []Filter{{Field: "member_id", Value: "m1"}},
		OrderBy:    "created_at",
		Descending: true,
	}
	require.NoError(t, s.Query(ctx, "bills", q, &got))
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].ID, "newest first")
	assert.Equal(t, "a", got[2].ID)

	q.Filters = append(q.Filters, Filter{Field: "status", Value: "pending"})
	q.Limit = 1
	got = nil
	require.NoError(t, s.Query(ctx, "bills", q, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)
}

func TestMemoryStore_QueryEmptyResult(t *testing.T) {
	s := NewMemoryStore()

	var got []testDoc
	require.NoError(t, s.Query(context.Background(), "bills", Query{}, &got))
	assert.Empty(t, got)
}

func TestMemoryStore_BatchWrite(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ops := []WriteOp{
		{Collection: "bills", ID: "b1", Doc: testDoc{ID: "b1", Status: "paid"}},
		{Collection: "receipts", ID: "r1", Doc: testDoc{ID: "r1", Status: "done"}},
	}
	require.NoError(t, s.BatchWrite(ctx, ops))

	var bill, receipt testDoc
	require.NoError(t, s.Get(ctx, "bills", "b1", &bill))
	require.NoError(t, s.Get(ctx, "receipts", "r1", &receipt))
}

func TestMemoryStore_BatchWriteRejectsBadDoc(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ops := []WriteOp{
		{Collection: "bills", ID: "b1", Doc: testDoc{ID: "b1"}},
		{Collection: "bills", ID: "b2", Doc: make(chan int)}, // not encodable
	}
	require.Error(t, s.BatchWrite(ctx, ops))

	var got testDoc
	err := s.Get(ctx, "bills", "b1", &got)
	assert.ErrorIs(t, err, ErrNotFound, "no partial batch")
}
