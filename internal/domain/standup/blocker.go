package standup

import "strings"

type BlockerStatus string

const (
	BlockerNew      BlockerStatus = "New"
	BlockerCritical BlockerStatus = "Critical"
	BlockerResolved BlockerStatus = "Resolved"
)

func (s BlockerStatus) IsValid() bool {
	switch s {
	case BlockerNew, BlockerCritical, BlockerResolved:
		return true
	default:
		return false
	}
}

// ParseBlockerStatus accepts the status name case-insensitively.
func ParseBlockerStatus(raw string) (BlockerStatus, bool) {
	for _, s := range BlockerStatuses() {
		if strings.EqualFold(string(s), strings.TrimSpace(raw)) {
			return s, true
		}
	}
	return "", false
}

func BlockerStatuses() []BlockerStatus {
	return []BlockerStatus{BlockerNew, BlockerCritical, BlockerResolved}
}

// CanTransition reports whether a blocker may move from one status to
// another. Resolved is terminal; re-raising a resolved blocker goes through
// an update that clears and sets hasBlocker again.
func CanTransition(from, to BlockerStatus) bool {
	if !to.IsValid() {
		return false
	}
	if from == to {
		return true
	}
	return from != BlockerResolved
}

// StatusLabel is a display entry for a blocker status.
type StatusLabel struct {
	Value BlockerStatus `json:"value"`
	Label string        `json:"label"`
	Color string        `json:"color"`
}

var blockerLabels = map[BlockerStatus]StatusLabel{
	BlockerNew:      {Value: BlockerNew, Label: "New", Color: "warn"},
	BlockerCritical: {Value: BlockerCritical, Label: "Critical", Color: "danger"},
	BlockerResolved: {Value: BlockerResolved, Label: "Resolved", Color: "success"},
}

func BlockerStatusLabel(s BlockerStatus) (StatusLabel, bool) {
	l, ok := blockerLabels[s]
	return l, ok
}

func BlockerStatusLabels() []StatusLabel {
	out := make([]StatusLabel, 0, len(blockerLabels))
	for _, s := range BlockerStatuses() {
		out = append(out, blockerLabels[s])
	}
	return out
}
