package enums

import "fmt"

// RescueItemStatus tracks a surplus listing from posting to hand-off.
type RescueItemStatus string

const (
	RescueItemStatusAvailable RescueItemStatus = "available"
	RescueItemStatusClaimed   RescueItemStatus = "claimed"
	RescueItemStatusCompleted RescueItemStatus = "completed"
)

func (s RescueItemStatus) String() string {
	return string(s)
}

func (s RescueItemStatus) IsValid() bool {
	switch s {
	case RescueItemStatusAvailable, RescueItemStatusClaimed, RescueItemStatusCompleted:
		return true
	default:
		return false
	}
}

// RescueItemType distinguishes cooked dishes from raw ingredients.
type RescueItemType string

const (
	RescueItemTypePrepared RescueItemType = "prepared"
	RescueItemTypeRaw      RescueItemType = "raw"
)

func (t RescueItemType) String() string {
	return string(t)
}

func (t RescueItemType) IsValid() bool {
	switch t {
	case RescueItemTypePrepared, RescueItemTypeRaw:
		return true
	default:
		return false
	}
}

// ParseRescueItemType converts raw input into a RescueItemType.
func ParseRescueItemType(raw string) (RescueItemType, error) {
	typ := RescueItemType(raw)
	if !typ.IsValid() {
		return "", fmt.Errorf("invalid rescue item type %q", raw)
	}
	return typ, nil
}
