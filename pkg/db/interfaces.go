package db

import "context"

// EventStore defines the interface for gradable event operations
type EventStore interface {
	GetEvents(ctx context.Context) ([]GradableEvent, error)
	GetEventByName(ctx context.Context, name string) (*GradableEvent, error)
	UpsertEvent(ctx context.Context, event *GradableEvent) error
}

// RosterStore defines the interface for TA, blacklist and group operations
type RosterStore interface {
	GetTAs(ctx context.Context) ([]TA, error)
	UpsertTA(ctx context.Context, ta TA) error
	GetBlacklist(ctx context.Context) ([]BlacklistEntry, error)
	ReplaceBlacklist(ctx context.Context, taLogin string, studentLogins []string) error
	GetGroups(ctx context.Context, eventID string) ([]Group, error)
	GetGroupByName(ctx context.Context, eventID, name string) (*Group, error)
	UpsertGroup(ctx context.Context, group *Group) error
}

// HandinStore defines the interface for handin operations
type HandinStore interface {
	GetHandin(ctx context.Context, eventID, groupID string) (*Handin, error)
	GetHandins(ctx context.Context, eventID string) ([]Handin, error)
	UpsertHandin(ctx context.Context, handin *Handin) error
}

// ExtensionStore defines the interface for extension operations
type ExtensionStore interface {
	GetExtension(ctx context.Context, eventID, groupID string) (*Extension, error)
	GetExtensions(ctx context.Context, eventID string) ([]Extension, error)
	UpsertExtension(ctx context.Context, ext *Extension) error
	DeleteExtension(ctx context.Context, eventID, groupID string) error
}

// DistributionStore defines the interface for distribution operations
type DistributionStore interface {
	GetDistribution(ctx context.Context, eventID string) ([]DistributionEntry, error)
	ReplaceDistribution(ctx context.Context, eventID string, entries []DistributionEntry) error
}

// Database defines the interface for all database operations.
// postgres.DB implements this interface.
type Database interface {
	EventStore
	RosterStore
	HandinStore
	ExtensionStore
	DistributionStore
}
