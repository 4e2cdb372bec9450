package domain

import "context"

// BacklogRepository is the remote backlog service (source of truth for entries)
type BacklogRepository interface {
	// ListEntries returns the full backlog of the signed-in user
	ListEntries(ctx context.Context) ([]Entry, error)

	// SaveFromCatalog materializes a catalog game into a new entry.
	// Returns ErrDuplicateEntry when the backend refuses the save.
	SaveFromCatalog(ctx context.Context, externalID string) error

	// UpdateStatus sets the status of an entry
	UpdateStatus(ctx context.Context, id string, status Status) error

	// DeleteEntry removes an entry
	DeleteEntry(ctx context.Context, id string) error
}

// CatalogRepository searches the external game catalog
type CatalogRepository interface {
	SearchCatalog(ctx context.Context, query string) ([]SearchHit, error)
}

// Authenticator exchanges credentials for an opaque bearer token
type Authenticator interface {
	Authenticate(ctx context.Context, mode AuthMode, creds Credentials) (string, error)
}

// TokenSource supplies the bearer credential for authenticated calls.
// ok is false when nobody is signed in.
type TokenSource interface {
	Token() (token string, ok bool)
}

// TokenFunc adapts a function to TokenSource
type TokenFunc func() (string, bool)

// Token calls f
func (f TokenFunc) Token() (string, bool) { return f() }
