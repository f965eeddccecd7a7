// Package history diffs entity snapshots into append-only audit entries.
// A Tracker is parameterized by the entity type and the list of fields it watches.
package history

import (
	"slices"
	"strings"

	"planline/internal/domain"
)

const (
	ActionCreated         = "created"
	ActionStatusChanged   = "status_changed"
	ActionPriorityChanged = "priority_changed"
	ActionAssigned        = "assigned"
	ActionTagAdded        = "tag_added"
	ActionTagRemoved      = "tag_removed"
)

// Change is one tracked difference between two versions of an entity.
type Change struct {
	Action string
	Field  string
	Old    string
	New    string
}

// Field watches one attribute. Scalar fields set Value; set-valued fields set Members
// and report each added or removed member separately.
type Field[T any] struct {
	Name    string
	Action  string
	Value   func(T) string
	Members func(T) []string
	Added   string
	Removed string
}

func Scalar[T any](name, action string, value func(T) string) Field[T] {
	return Field[T]{Name: name, Action: action, Value: value}
}

func Set[T any](name, added, removed string, members func(T) []string) Field[T] {
	return Field[T]{Name: name, Members: members, Added: added, Removed: removed}
}

type Tracker[T any] struct {
	Entity domain.EntityKind
	Fields []Field[T]
}

// Diff lists the changes from before to after in field declaration order.
func (t Tracker[T]) Diff(before, after T) []Change {
	var out []Change
	for _, f := range t.Fields {
		if f.Members != nil {
			old, cur := f.Members(before), f.Members(after)
			for _, m := range old {
				if !slices.Contains(cur, m) {
					out = append(out, Change{Action: f.Removed, Field: f.Name, Old: m})
				}
			}
			for _, m := range cur {
				if !slices.Contains(old, m) {
					out = append(out, Change{Action: f.Added, Field: f.Name, New: m})
				}
			}
			continue
		}
		if o, n := f.Value(before), f.Value(after); o != n {
			out = append(out, Change{Action: f.Action, Field: f.Name, Old: o, New: n})
		}
	}
	return out
}

// Stamp carries who changed what and when.
type Stamp struct {
	EntityID string
	Actor    string
	At       string
	Comment  string
}

// Record appends one entry per change to log and returns the new slice; log is not modified.
func Record(log []domain.TaskHistoryEntry, changes []Change, s Stamp, newID func() string) []domain.TaskHistoryEntry {
	if len(changes) == 0 {
		return log
	}
	out := slices.Clip(slices.Clone(log))
	for _, c := range changes {
		out = append(out, domain.TaskHistoryEntry{
			ID:        newID(),
			TaskID:    s.EntityID,
			Action:    c.Action,
			Field:     c.Field,
			OldValue:  c.Old,
			NewValue:  c.New,
			UserName:  s.Actor,
			Timestamp: s.At,
			Comment:   s.Comment,
		})
	}
	return out
}

// Created is the single entry written when an entity is created.
func Created() []Change { return []Change{{Action: ActionCreated}} }

// ForEntity filters log by entity id, keeping insertion order.
func ForEntity(log []domain.TaskHistoryEntry, id string) []domain.TaskHistoryEntry {
	var out []domain.TaskHistoryEntry
	for _, e := range log {
		if e.TaskID == id {
			out = append(out, e)
		}
	}
	return out
}

// TaskTracker watches status, priority, assignee and tags.
var TaskTracker = Tracker[domain.Task]{
	Entity: domain.KindTask,
	Fields: []Field[domain.Task]{
		Scalar("status", ActionStatusChanged, func(t domain.Task) string { return string(t.Status) }),
		Scalar("priority", ActionPriorityChanged, func(t domain.Task) string { return string(t.Priority) }),
		Scalar("assignee", ActionAssigned, func(t domain.Task) string { return strings.TrimSpace(t.Assignee) }),
		Set("tags", ActionTagAdded, ActionTagRemoved, func(t domain.Task) []string { return t.Tags }),
	},
}
