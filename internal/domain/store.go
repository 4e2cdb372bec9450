package domain

import "time"

// SnapshotCache persists the last confirmed backlog snapshot locally.
// The Store reads it only as a fallback when the service is unreachable.
type SnapshotCache interface {
	GetSnapshot() (entries []Entry, savedAt time.Time, ok bool)
	SaveSnapshot(entries []Entry) error
	Invalidate() error
	Close() error
}
