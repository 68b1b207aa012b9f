package models

import "fmt"

// NaturalKey identifies a logical entity independent of its surrogate UUID.
// Columns and Values are parallel slices lowered to SQL predicates at the storage boundary.
type NaturalKey interface {
	Columns() []string
	Values() []any
	String() string
}

// ActorKey identifies an actor by email.
type ActorKey struct {
	Email string
}

func (k ActorKey) Columns() []string { return []string{"email"} }
func (k ActorKey) Values() []any     { return []any{k.Email} }
func (k ActorKey) String() string    { return fmt.Sprintf("actor email=%q", k.Email) }

// OrganisationKey identifies an organisation by name.
type OrganisationKey struct {
	Name string
}

func (k OrganisationKey) Columns() []string { return []string{"name"} }
func (k OrganisationKey) Values() []any     { return []any{k.Name} }
func (k OrganisationKey) String() string    { return fmt.Sprintf("organisation name=%q", k.Name) }

// CampusKey identifies a campus by its organisation and name.
type CampusKey struct {
	OrganisationID string
	Name           string
}

func (k CampusKey) Columns() []string { return []string{"organisation_id", "name"} }
func (k CampusKey) Values() []any     { return []any{k.OrganisationID, k.Name} }
func (k CampusKey) String() string {
	return fmt.Sprintf("campus organisation=%q name=%q", k.OrganisationID, k.Name)
}

// RoomKey identifies a room by its campus and name.
type RoomKey struct {
	CampusID string
	Name     string
}

func (k RoomKey) Columns() []string { return []string{"campus_id", "name"} }
func (k RoomKey) Values() []any     { return []any{k.CampusID, k.Name} }
func (k RoomKey) String() string {
	return fmt.Sprintf("room campus=%q name=%q", k.CampusID, k.Name)
}

// RoomClaimKey identifies the single active claim for a room.
type RoomClaimKey struct {
	RoomID string
}

func (k RoomClaimKey) Columns() []string { return []string{"room_id"} }
func (k RoomClaimKey) Values() []any     { return []any{k.RoomID} }
func (k RoomClaimKey) String() string    { return fmt.Sprintf("claim room=%q", k.RoomID) }
