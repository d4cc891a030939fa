package enums

import "fmt"

// GroupBuyStatus tracks the lifecycle of a pooled purchase.
type GroupBuyStatus string

const (
	GroupBuyStatusActive    GroupBuyStatus = "active"
	GroupBuyStatusCompleted GroupBuyStatus = "completed"
	GroupBuyStatusCancelled GroupBuyStatus = "cancelled"
)

func (s GroupBuyStatus) String() string {
	return string(s)
}

func (s GroupBuyStatus) IsValid() bool {
	switch s {
	case GroupBuyStatusActive, GroupBuyStatusCompleted, GroupBuyStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are allowed.
func (s GroupBuyStatus) IsTerminal() bool {
	return s == GroupBuyStatusCompleted || s == GroupBuyStatusCancelled
}

// ParseGroupBuyStatus converts raw input into a GroupBuyStatus.
func ParseGroupBuyStatus(raw string) (GroupBuyStatus, error) {
	status := GroupBuyStatus(raw)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid group buy status %q", raw)
	}
	return status, nil
}
