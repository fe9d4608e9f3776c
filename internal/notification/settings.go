package notification

import (
	"fmt"
	"time"
)

// EventKey identifies a notifiable business event.
type EventKey string

const (
	EventPickupDue      EventKey = "pickup_due"
	EventReturnDue      EventKey = "return_due"
	EventMaintenanceDue EventKey = "maintenance_due"
)

var AllEvents = []EventKey{EventPickupDue, EventReturnDue, EventMaintenanceDue}

func ParseEventKey(s string) (EventKey, error) {
	for _, k := range AllEvents {
		if EventKey(s) == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown notification event: %s", s)
}

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelNone  Channel = "none"
)

func ParseChannel(s string) (Channel, error) {
	switch Channel(s) {
	case ChannelEmail, ChannelNone:
		return Channel(s), nil
	default:
		return "", fmt.Errorf("unknown notification channel: %s", s)
	}
}

type Setting struct {
	UserID    int64     `json:"userId"`
	Event     EventKey  `json:"event"`
	Enabled   bool      `json:"enabled"`
	Channel   Channel   `json:"channel"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Defaults returns the settings a user has before any explicit choice:
// everything enabled over email.
func Defaults(userID int64) []Setting {
	out := make([]Setting, 0, len(AllEvents))
	for _, ev := range AllEvents {
		out = append(out, Setting{UserID: userID, Event: ev, Enabled: true, Channel: ChannelEmail})
	}
	return out
}
