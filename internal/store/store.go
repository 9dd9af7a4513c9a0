// Package store provides the document persistence contract for the billing
// subsystem. Entities are stored as JSON documents keyed by (collection, id);
// the only multi-document guarantee is BatchWrite atomicity.
package store

import (
	"context"
	"errors"
)

// Collection names
const (
	CollectionMembers       = "members"
	CollectionBills         = "bills"
	CollectionPayments      = "payments"
	CollectionReceipts      = "receipts"
	CollectionNotifications = "notifications"
	CollectionOutbox        = "outbox"
)

var ErrNotFound = errors.New("document not found")

// Filter is an equality predicate on a top-level document field.
type Filter struct {
	Field string
	Value interface{}
}

type Query struct {
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
}

// WriteOp is one upsert inside an atomic batch.
type WriteOp struct {
	Collection string
	ID         string
	Doc        interface{}
}

// Store is the document-store contract. Get and Query decode into out, which
// must be a pointer (to a struct, or to a slice for Query).
type Store interface {
	Put(ctx context.Context, collection, id string, doc interface{}) error
	Get(ctx context.Context, collection, id string, out interface{}) error
	Update(ctx context.Context, collection, id string, patch map[string]interface{}) error
	Query(ctx context.Context, collection string, q Query, out interface{}) error
	BatchWrite(ctx context.Context, ops []WriteOp) error
}
