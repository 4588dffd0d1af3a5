package watch

import (
	"sort"
	"time"
)

type EventType int

const (
	EventCreate EventType = iota
	EventModify
	EventDelete
	EventRename
)

func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventModify:
		return "modify"
	case EventDelete:
		return "delete"
	case EventRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Concern is what a followed file feeds into a regeneration.
type Concern int

const (
	ConcernMaster Concern = iota
	ConcernConfig
	ConcernTable
)

func (c Concern) String() string {
	switch c {
	case ConcernMaster:
		return "master"
	case ConcernConfig:
		return "config"
	case ConcernTable:
		return "table"
	default:
		return "unknown"
	}
}

type FileEvent struct {
	Path      string
	Type      EventType
	Concern   Concern
	Timestamp time.Time
}

// Change is one debounced batch, at most one event per path, sorted by path.
type Change struct {
	Events []FileEvent
}

// Has reports whether any event in the batch touches concern.
func (c Change) Has(concern Concern) bool {
	for _, e := range c.Events {
		if e.Concern == concern {
			return true
		}
	}
	return false
}

// Paths lists the changed files of concern.
func (c Change) Paths(concern Concern) []string {
	var out []string
	for _, e := range c.Events {
		if e.Concern == concern {
			out = append(out, e.Path)
		}
	}
	return out
}

func newChange(pending map[string]FileEvent) Change {
	events := make([]FileEvent, 0, len(pending))
	for _, e := range pending {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })
	return Change{Events: events}
}

// coalesce folds next into the pending event for the same path. It returns
// false when the two cancel out, e.g. a temporary file created and removed
// within one window.
func coalesce(prev, next FileEvent) (FileEvent, bool) {
	switch {
	case prev.Type == EventCreate && (next.Type == EventDelete || next.Type == EventRename):
		return FileEvent{}, false
	case prev.Type == EventCreate:
		next.Type = EventCreate
	case (prev.Type == EventDelete || prev.Type == EventRename) && next.Type == EventCreate:
		// Editors save by writing a new file over the old one.
		next.Type = EventModify
	}
	return next, true
}

// Config controls batching and filtering.
type Config struct {
	DebounceWindow time.Duration `yaml:"debounce_window"`
	MaxBatchSize   int           `yaml:"max_batch_size"`
	IgnorePatterns []string      `yaml:"ignore_patterns"`
}

func DefaultConfig() Config {
	return Config{
		DebounceWindow: 300 * time.Millisecond,
		MaxBatchSize:   100,
		IgnorePatterns: []string{
			"**/.*",
			"**/*~",
			"**/*.swp",
			"**/.#*",
			"**/export/**",
		},
	}
}
