package timeline

import (
	"encoding/json"
	"time"
)

// Snapshot is an opaque captured state supplied by the caller. The engine
// stores and returns it verbatim and never interprets its contents.
type Snapshot = json.RawMessage

// Entry is one immutable audit record in a plan's timeline.
type Entry struct {
	ID         string     `json:"id"`
	Version    int        `json:"version"`
	Timestamp  time.Time  `json:"timestamp"`
	ActionType ActionType `json:"actionType"`
	EntityType EntityType `json:"entityType"`
	EntityID   string     `json:"entityId,omitempty"`
	Summary    string     `json:"summary"`
	Details    string     `json:"details"`

	BeforeSnapshot Snapshot `json:"beforeSnapshot,omitempty"`
	AfterSnapshot  Snapshot `json:"afterSnapshot,omitempty"`

	ScenarioID string `json:"scenarioId,omitempty"`
}

// Document is the persisted unit: one plan's full timeline.
// Invariants: entries[i].Version == i+1 and CurrentVersion == len(Entries).
type Document struct {
	CurrentVersion int     `json:"currentVersion"`
	Entries        []Entry `json:"entries"`
}

// Clone returns a deep copy so callers can hold a read-only view without
// aliasing the store's document.
func (d Document) Clone() Document {
	out := Document{CurrentVersion: d.CurrentVersion}
	if d.Entries == nil {
		return out
	}
	out.Entries = make([]Entry, len(d.Entries))
	for i, e := range d.Entries {
		out.Entries[i] = e.clone()
	}
	return out
}

func (e Entry) clone() Entry {
	c := e
	if e.BeforeSnapshot != nil {
		c.BeforeSnapshot = append(Snapshot(nil), e.BeforeSnapshot...)
	}
	if e.AfterSnapshot != nil {
		c.AfterSnapshot = append(Snapshot(nil), e.AfterSnapshot...)
	}
	return c
}

// Filter narrows GetTimeline results. Zero value matches everything.
type Filter struct {
	EntityType EntityType
	ActionType ActionType
	SearchTerm string
	Limit      int // keep only the most recent N matches when > 0
}

// Statistics aggregates one plan's timeline.
type Statistics struct {
	TotalChanges    int                `json:"total_changes"`
	ChangesByType   map[ActionType]int `json:"changes_by_type"`
	ChangesByEntity map[EntityType]int `json:"changes_by_entity"`
	OldestChange    *time.Time         `json:"oldest_change,omitempty"`
	NewestChange    *time.Time         `json:"newest_change,omitempty"`
}
