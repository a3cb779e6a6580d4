package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Center is a vaccination location with a depletable slot counter.
type Center struct {
	// Stable identifier assigned by the store.
	// example: 3
	ID int64 `json:"id" example:"3"`
	// example: City Hall Clinic
	Name string `json:"name" example:"City Hall Clinic"`
	// example: 12 Main Street
	Location string `json:"location" example:"12 Main Street"`
	// example: Covaxin, 2 doses
	DosageDetails string `json:"dosageDetails" example:"Covaxin, 2 doses"`
	// example: 09:00-17:00
	Timings string `json:"timings" example:"09:00-17:00"`
	// Remaining bookable slots; never negative.
	// example: 10
	AvailableSlots int `json:"availableSlots" example:"10"`
}

// CenterID accepts both JSON numbers and numeric strings, since clients send
// either form for the same field.
type CenterID int64

func (id *CenterID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*id = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid center id %q", s)
	}
	*id = CenterID(n)
	return nil
}

// EventKind names a committed center state transition. The values are the
// wire names observers receive.
type EventKind string

const (
	EventCenterAdded   EventKind = "centerAdded"
	EventCenterUpdated EventKind = "centerUpdated"
	EventCenterRemoved EventKind = "centerRemoved"
	EventSlotBooked    EventKind = "slotBooked"
)

// ChangeEvent describes a committed state transition. Seq and Time are set by
// the bus on publish and are not sent to observers.
type ChangeEvent struct {
	Kind           EventKind
	CenterID       int64
	AvailableSlots int
	Seq            uint64
	Time           time.Time
}

// EventMessage is the JSON frame pushed to observer connections.
type EventMessage struct {
	Event          EventKind `json:"event"`
	CenterID       *int64    `json:"centerId,omitempty"`
	AvailableSlots *int      `json:"availableSlots,omitempty"`
}

// Message converts the event to its wire form. centerAdded carries no id;
// slotBooked carries the post-booking count so observers need not re-fetch.
func (e ChangeEvent) Message() EventMessage {
	m := EventMessage{Event: e.Kind}
	if e.Kind == EventCenterAdded {
		return m
	}
	id := e.CenterID
	m.CenterID = &id
	if e.Kind == EventSlotBooked {
		n := e.AvailableSlots
		m.AvailableSlots = &n
	}
	return m
}
