//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks

// Package contract declares the external collaborators the messaging
// layer is built on. Concrete backends live under infrastructure/; the
// core never depends on a particular store or gateway.
package contract

import "context"

// Document is one schemaless persisted record. Field names are the wire
// contract shared with any pre-existing store.
type Document map[string]any

// Record is a document together with the key the store filed it under.
type Record struct {
	Key    string
	Fields Document
}

// Query selects documents within a collection. Exactly one of Equals or
// Contains is set; Contains matches documents whose Field holds an array
// containing the value.
type Query struct {
	Field      string
	Equals     any
	Contains   any
	OrderBy    string
	Descending bool
	Limit      int    // 0 means no limit
	StartAfter string // key of the last record already seen, "" from the start
}

// DocumentStore is the persisted-document collaborator. Implementations
// assign no semantics to collections or fields.
type DocumentStore interface {
	// Get returns the document filed under key, with found reporting
	// whether it exists. err is reserved for store failures.
	Get(ctx context.Context, collection, key string) (doc Document, found bool, err error)

	// Find returns the records matching q, ordered by q.OrderBy.
	Find(ctx context.Context, collection string, q Query) ([]Record, error)

	// Set writes fields under key. With merge, existing fields not named
	// in fields are left untouched; otherwise the document is replaced.
	Set(ctx context.Context, collection, key string, fields Document, merge bool) error

	// NewKey reserves a fresh key for the collection. No network call.
	NewKey(collection string) string
}

// BlobStore stores binary objects and returns one URL per object. The
// context is the per-call cancellation handle: cancelling it affects
// only that upload.
type BlobStore interface {
	Put(ctx context.Context, path string, data []byte) (url string, err error)
}

// Notification is the payload handed to the push gateway.
type Notification struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// PushGateway delivers notifications to devices. Responses are logged by
// implementations, never parsed into a typed result.
type PushGateway interface {
	Send(ctx context.Context, n Notification) error
}

// Session exposes the identity of the acting user. Operations take their
// acting identity explicitly; Session only answers "who is signed in".
type Session interface {
	CurrentUserID() (string, bool)
	SignOut() error
}
