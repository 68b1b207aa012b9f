package models

import (
	"fmt"
	"time"
)

// ErrInvalid is the sentinel wrapped by every validation failure in this package.
var ErrInvalid = fmt.Errorf("invalid record")

// Record is the base constraint for all persistent entities.
// Validate checks the record's data before any write and returns an error wrapping [ErrInvalid] if it is not.
type Record interface {
	Validate() error
}

// Actor is a person or system principal. Other entities reference actors for created_by attribution.
type Actor struct {
	ID        string
	Sequence  int
	Email     string
	Name      string
	System    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a Actor) Validate() error {
	if a.Email == "" {
		return fmt.Errorf("%w: actor email is required", ErrInvalid)
	}
	if a.Name == "" {
		return fmt.Errorf("%w: actor name is required", ErrInvalid)
	}
	return nil
}

// Organisation is the tenant root. Name is the natural key; slug is derived from it.
type Organisation struct {
	ID        string
	Sequence  int
	Name      string
	Slug      string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o Organisation) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("%w: organisation name is required", ErrInvalid)
	}
	if o.Slug == "" {
		return fmt.Errorf("%w: organisation slug is required", ErrInvalid)
	}
	return nil
}

// Campus is a physical site belonging to an organisation.
// The natural key is (organisation_id, name).
type Campus struct {
	ID             string
	Sequence       int
	OrganisationID string
	Name           string
	Slug           string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (c Campus) Validate() error {
	if c.OrganisationID == "" {
		return fmt.Errorf("%w: campus organisation is required", ErrInvalid)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: campus name is required", ErrInvalid)
	}
	if c.Slug == "" {
		return fmt.Errorf("%w: campus slug is required", ErrInvalid)
	}
	return nil
}

// Room is a bookable space belonging to a campus.
// The natural key is (campus_id, name).
type Room struct {
	ID        string
	Sequence  int
	CampusID  string
	Name      string
	Capacity  int
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r Room) Validate() error {
	if r.CampusID == "" {
		return fmt.Errorf("%w: room campus is required", ErrInvalid)
	}
	if r.Name == "" {
		return fmt.Errorf("%w: room name is required", ErrInvalid)
	}
	if r.Capacity < 0 {
		return fmt.Errorf("%w: room capacity cannot be negative", ErrInvalid)
	}
	return nil
}

// RoomClaim is an exclusive claim on a room. The unique constraint on room_id
// makes acquisition an insert and contention a constraint violation.
type RoomClaim struct {
	ID        string
	Sequence  int
	RoomID    string
	ActorID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c RoomClaim) Validate() error {
	if c.RoomID == "" {
		return fmt.Errorf("%w: claim room is required", ErrInvalid)
	}
	if c.ActorID == "" {
		return fmt.Errorf("%w: claim actor is required", ErrInvalid)
	}
	return nil
}
