package repositories

import (
	"time"

	"github.com/desertthunder/timetab/internal/models"
)

// Repos bundles one repository per entity kind.
type Repos struct {
	Actors        *Repo[models.Actor]
	Organisations *Repo[models.Organisation]
	Campuses      *Repo[models.Campus]
	Rooms         *Repo[models.Room]
	Claims        *Repo[models.RoomClaim]
}

// New creates the full repository set.
func New() *Repos {
	return &Repos{
		Actors:        NewRepo(actorMapping()),
		Organisations: NewRepo(organisationMapping()),
		Campuses:      NewRepo(campusMapping()),
		Rooms:         NewRepo(roomMapping()),
		Claims:        NewRepo(claimMapping()),
	}
}

// SetSystemActor installs the attribution fallback on every audited repository.
func (s *Repos) SetSystemActor(id string) {
	s.Organisations.SetSystemActor(id)
	s.Campuses.SetSystemActor(id)
	s.Rooms.SetSystemActor(id)
}

func actorMapping() Mapping[models.Actor] {
	return Mapping[models.Actor]{
		Kind:    "actor",
		Table:   "actors",
		PK:      "id",
		Columns: []string{"id", "sequence", "email", "name", "is_system", "created_at", "updated_at"},
		Sortable: map[string]string{
			"id":         "id",
			"sequence":   "sequence",
			"email":      "email",
			"name":       "name",
			"created_at": "created_at",
		},
		DefaultSort: &SortSpec{Field: "sequence", Direction: SortAsc},
		Scan: func(sc Scanner) (*models.Actor, error) {
			var a models.Actor
			if err := sc.Scan(&a.ID, &a.Sequence, &a.Email, &a.Name, &a.System, &a.CreatedAt, &a.UpdatedAt); err != nil {
				return nil, err
			}
			return &a, nil
		},
		Values: func(a *models.Actor) map[string]any {
			return map[string]any{
				"id":         a.ID,
				"sequence":   a.Sequence,
				"email":      a.Email,
				"name":       a.Name,
				"is_system":  a.System,
				"created_at": a.CreatedAt,
				"updated_at": a.UpdatedAt,
			}
		},
		Assign: func(a *models.Actor, id string, sequence int, at time.Time) {
			a.ID = id
			a.Sequence = sequence
			a.CreatedAt = at
			a.UpdatedAt = at
		},
		Touch: func(a *models.Actor, at time.Time) { a.UpdatedAt = at },
	}
}

func organisationMapping() Mapping[models.Organisation] {
	return Mapping[models.Organisation]{
		Kind:      "organisation",
		Table:     "organisations",
		PK:        "id",
		Columns:   []string{"id", "sequence", "name", "slug", "created_by", "created_at", "updated_at"},
		CreatedBy: "created_by",
		Sortable: map[string]string{
			"id":         "id",
			"sequence":   "sequence",
			"name":       "name",
			"slug":       "slug",
			"created_at": "created_at",
		},
		DefaultSort: &SortSpec{Field: "sequence", Direction: SortAsc},
		Scan: func(sc Scanner) (*models.Organisation, error) {
			var o models.Organisation
			if err := sc.Scan(&o.ID, &o.Sequence, &o.Name, &o.Slug, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
				return nil, err
			}
			return &o, nil
		},
		Values: func(o *models.Organisation) map[string]any {
			return map[string]any{
				"id":         o.ID,
				"sequence":   o.Sequence,
				"name":       o.Name,
				"slug":       o.Slug,
				"created_by": o.CreatedBy,
				"created_at": o.CreatedAt,
				"updated_at": o.UpdatedAt,
			}
		},
		Assign: func(o *models.Organisation, id string, sequence int, at time.Time) {
			o.ID = id
			o.Sequence = sequence
			o.CreatedAt = at
			o.UpdatedAt = at
		},
		Touch:    func(o *models.Organisation, at time.Time) { o.UpdatedAt = at },
		SetActor: func(o *models.Organisation, actorID string) { o.CreatedBy = actorID },
	}
}

func campusMapping() Mapping[models.Campus] {
	return Mapping[models.Campus]{
		Kind:      "campus",
		Table:     "campuses",
		PK:        "id",
		Columns:   []string{"id", "sequence", "organisation_id", "name", "slug", "created_by", "created_at", "updated_at"},
		CreatedBy: "created_by",
		Sortable: map[string]string{
			"id":         "id",
			"sequence":   "sequence",
			"name":       "name",
			"slug":       "slug",
			"created_at": "created_at",
		},
		DefaultSort: &SortSpec{Field: "sequence", Direction: SortAsc},
		Scan: func(sc Scanner) (*models.Campus, error) {
			var c models.Campus
			if err := sc.Scan(&c.ID, &c.Sequence, &c.OrganisationID, &c.Name, &c.Slug, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
				return nil, err
			}
			return &c, nil
		},
		Values: func(c *models.Campus) map[string]any {
			return map[string]any{
				"id":              c.ID,
				"sequence":        c.Sequence,
				"organisation_id": c.OrganisationID,
				"name":            c.Name,
				"slug":            c.Slug,
				"created_by":      c.CreatedBy,
				"created_at":      c.CreatedAt,
				"updated_at":      c.UpdatedAt,
			}
		},
		Assign: func(c *models.Campus, id string, sequence int, at time.Time) {
			c.ID = id
			c.Sequence = sequence
			c.CreatedAt = at
			c.UpdatedAt = at
		},
		Touch:    func(c *models.Campus, at time.Time) { c.UpdatedAt = at },
		SetActor: func(c *models.Campus, actorID string) { c.CreatedBy = actorID },
	}
}

func roomMapping() Mapping[models.Room] {
	return Mapping[models.Room]{
		Kind:      "room",
		Table:     "rooms",
		PK:        "id",
		Columns:   []string{"id", "sequence", "campus_id", "name", "capacity", "created_by", "created_at", "updated_at"},
		CreatedBy: "created_by",
		Sortable: map[string]string{
			"id":         "id",
			"sequence":   "sequence",
			"name":       "name",
			"capacity":   "capacity",
			"created_at": "created_at",
		},
		DefaultSort: &SortSpec{Field: "sequence", Direction: SortAsc},
		Scan: func(sc Scanner) (*models.Room, error) {
			var rm models.Room
			if err := sc.Scan(&rm.ID, &rm.Sequence, &rm.CampusID, &rm.Name, &rm.Capacity, &rm.CreatedBy, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
				return nil, err
			}
			return &rm, nil
		},
		Values: func(rm *models.Room) map[string]any {
			return map[string]any{
				"id":         rm.ID,
				"sequence":   rm.Sequence,
				"campus_id":  rm.CampusID,
				"name":       rm.Name,
				"capacity":   rm.Capacity,
				"created_by": rm.CreatedBy,
				"created_at": rm.CreatedAt,
				"updated_at": rm.UpdatedAt,
			}
		},
		Assign: func(rm *models.Room, id string, sequence int, at time.Time) {
			rm.ID = id
			rm.Sequence = sequence
			rm.CreatedAt = at
			rm.UpdatedAt = at
		},
		Touch:    func(rm *models.Room, at time.Time) { rm.UpdatedAt = at },
		SetActor: func(rm *models.Room, actorID string) { rm.CreatedBy = actorID },
	}
}

func claimMapping() Mapping[models.RoomClaim] {
	return Mapping[models.RoomClaim]{
		Kind:    "room_claim",
		Table:   "room_claims",
		PK:      "id",
		Columns: []string{"id", "sequence", "room_id", "actor_id", "created_at", "updated_at"},
		Sortable: map[string]string{
			"id":         "id",
			"sequence":   "sequence",
			"created_at": "created_at",
		},
		DefaultSort: &SortSpec{Field: "sequence", Direction: SortAsc},
		Scan: func(sc Scanner) (*models.RoomClaim, error) {
			var c models.RoomClaim
			if err := sc.Scan(&c.ID, &c.Sequence, &c.RoomID, &c.ActorID, &c.CreatedAt, &c.UpdatedAt); err != nil {
				return nil, err
			}
			return &c, nil
		},
		Values: func(c *models.RoomClaim) map[string]any {
			return map[string]any{
				"id":         c.ID,
				"sequence":   c.Sequence,
				"room_id":    c.RoomID,
				"actor_id":   c.ActorID,
				"created_at": c.CreatedAt,
				"updated_at": c.UpdatedAt,
			}
		},
		Assign: func(c *models.RoomClaim, id string, sequence int, at time.Time) {
			c.ID = id
			c.Sequence = sequence
			c.CreatedAt = at
			c.UpdatedAt = at
		},
		Touch: func(c *models.RoomClaim, at time.Time) { c.UpdatedAt = at },
	}
}
