package metadata

import "fmt"

type Status string

const (
	StatusActive           Status = "active"
	StatusIdle             Status = "idle"
	StatusInRepair         Status = "in_repair"
	StatusUnderMaintenance Status = "under_maintenance"
	StatusCondemned        Status = "condemned"
	StatusDisposed         Status = "disposed"
)

func NewStatus(value string) (Status, error) {
	status := Status(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid status: %s", value)
	}
	return status, nil
}

func (s Status) isValid() bool {
	switch s {
	case StatusActive, StatusIdle, StatusInRepair, StatusUnderMaintenance, StatusCondemned, StatusDisposed:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further status transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusCondemned || s == StatusDisposed
}
