package model

import "context"

// ── Storage Port Interfaces ──
// The engine only reads. Each backing store (Mongo, SQLite, Postgres) and the
// Redis cache decorator satisfy these interfaces.

// BarStore runs templated range queries over end-of-day bars.
type BarStore interface {
	// QueryBars returns the bars matching q ordered ascending by date.
	// An empty result is not an error at this layer.
	QueryBars(ctx context.Context, q BarQuery) ([]Bar, error)
}

// NewsStore runs templated keyset queries over news documents.
type NewsStore interface {
	// QueryNews returns up to q.Size hits ordered by SortKey descending,
	// strictly after q.After when set.
	QueryNews(ctx context.Context, q NewsQuery) ([]NewsHit, error)
}

// Pinger is implemented by stores that support a liveness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store bundles both read ports with lifecycle management.
type Store interface {
	BarStore
	NewsStore
	Pinger
	Close() error
}
