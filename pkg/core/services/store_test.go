package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/jakechorley/gradingcommander/pkg/db"
)

// memStore is an in-memory db.Database for service tests
type memStore struct {
	events       map[string]*db.GradableEvent // by name
	tas          map[string]db.TA
	blacklist    map[string][]string
	groups       map[string][]db.Group // by event ID
	handins      map[string]db.Handin  // by event/group
	extensions   map[string]db.Extension
	distribution map[string][]db.DistributionEntry

	upsertHandinErr        error
	replaceDistributionErr error
}

var _ db.Database = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		events:       make(map[string]*db.GradableEvent),
		tas:          make(map[string]db.TA),
		blacklist:    make(map[string][]string),
		groups:       make(map[string][]db.Group),
		handins:      make(map[string]db.Handin),
		extensions:   make(map[string]db.Extension),
		distribution: make(map[string][]db.DistributionEntry),
	}
}

func key(eventID, groupID string) string {
	return eventID + "/" + groupID
}

func (m *memStore) GetEvents(ctx context.Context) ([]db.GradableEvent, error) {
	var events []db.GradableEvent
	for _, e := range m.events {
		events = append(events, *e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Name < events[j].Name })
	return events, nil
}

func (m *memStore) GetEventByName(ctx context.Context, name string) (*db.GradableEvent, error) {
	e, ok := m.events[name]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", name, db.ErrNotFound)
	}
	copied := *e
	return &copied, nil
}

func (m *memStore) UpsertEvent(ctx context.Context, event *db.GradableEvent) error {
	if existing, ok := m.events[event.Name]; ok {
		event.ID = existing.ID
	}
	copied := *event
	m.events[event.Name] = &copied
	return nil
}

func (m *memStore) GetTAs(ctx context.Context) ([]db.TA, error) {
	var tas []db.TA
	for _, ta := range m.tas {
		tas = append(tas, ta)
	}
	sort.Slice(tas, func(i, j int) bool { return tas[i].Login < tas[j].Login })
	return tas, nil
}

func (m *memStore) UpsertTA(ctx context.Context, ta db.TA) error {
	m.tas[ta.Login] = ta
	return nil
}

func (m *memStore) GetBlacklist(ctx context.Context) ([]db.BlacklistEntry, error) {
	var entries []db.BlacklistEntry
	for login, students := range m.blacklist {
		for _, s := range students {
			entries = append(entries, db.BlacklistEntry{TALogin: login, StudentLogin: s})
		}
	}
	return entries, nil
}

func (m *memStore) ReplaceBlacklist(ctx context.Context, taLogin string, studentLogins []string) error {
	m.blacklist[taLogin] = append([]string(nil), studentLogins...)
	return nil
}

func (m *memStore) GetGroups(ctx context.Context, eventID string) ([]db.Group, error) {
	return append([]db.Group(nil), m.groups[eventID]...), nil
}

func (m *memStore) GetGroupByName(ctx context.Context, eventID, name string) (*db.Group, error) {
	for _, g := range m.groups[eventID] {
		if g.Name == name {
			return &g, nil
		}
	}
	return nil, fmt.Errorf("group %s: %w", name, db.ErrNotFound)
}

func (m *memStore) UpsertGroup(ctx context.Context, group *db.Group) error {
	groups := m.groups[group.EventID]
	for i, g := range groups {
		if g.Name == group.Name {
			group.ID = g.ID
			groups[i] = *group
			return nil
		}
	}
	m.groups[group.EventID] = append(groups, *group)
	return nil
}

func (m *memStore) GetHandin(ctx context.Context, eventID, groupID string) (*db.Handin, error) {
	h, ok := m.handins[key(eventID, groupID)]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &h, nil
}

func (m *memStore) GetHandins(ctx context.Context, eventID string) ([]db.Handin, error) {
	var handins []db.Handin
	for _, h := range m.handins {
		if h.EventID == eventID {
			handins = append(handins, h)
		}
	}
	return handins, nil
}

func (m *memStore) UpsertHandin(ctx context.Context, handin *db.Handin) error {
	if m.upsertHandinErr != nil {
		return m.upsertHandinErr
	}
	m.handins[key(handin.EventID, handin.GroupID)] = *handin
	return nil
}

func (m *memStore) GetExtension(ctx context.Context, eventID, groupID string) (*db.Extension, error) {
	ext, ok := m.extensions[key(eventID, groupID)]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &ext, nil
}

func (m *memStore) GetExtensions(ctx context.Context, eventID string) ([]db.Extension, error) {
	var exts []db.Extension
	for _, ext := range m.extensions {
		if ext.EventID == eventID {
			exts = append(exts, ext)
		}
	}
	return exts, nil
}

func (m *memStore) UpsertExtension(ctx context.Context, ext *db.Extension) error {
	m.extensions[key(ext.EventID, ext.GroupID)] = *ext
	return nil
}

func (m *memStore) DeleteExtension(ctx context.Context, eventID, groupID string) error {
	k := key(eventID, groupID)
	if _, ok := m.extensions[k]; !ok {
		return db.ErrNotFound
	}
	delete(m.extensions, k)
	return nil
}

func (m *memStore) GetDistribution(ctx context.Context, eventID string) ([]db.DistributionEntry, error) {
	return m.distribution[eventID], nil
}

func (m *memStore) ReplaceDistribution(ctx context.Context, eventID string, entries []db.DistributionEntry) error {
	if m.replaceDistributionErr != nil {
		return m.replaceDistributionErr
	}
	m.distribution[eventID] = entries
	return nil
}

// addEvent stores an event with a fixed ID
func (m *memStore) addEvent(event db.GradableEvent) *db.GradableEvent {
	m.events[event.Name] = &event
	return &event
}

// addGroups stores single-student groups g1..gn with members s1..sn
func (m *memStore) addGroups(eventID string, n int) {
	for i := 1; i <= n; i++ {
		m.groups[eventID] = append(m.groups[eventID], db.Group{
			ID:      fmt.Sprintf("%s-g%d", eventID, i),
			EventID: eventID,
			Name:    fmt.Sprintf("g%d", i),
			Members: []string{fmt.Sprintf("s%d", i)},
		})
	}
}
