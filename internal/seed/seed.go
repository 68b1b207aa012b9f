package seed

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/timetab/internal/models"
	"github.com/desertthunder/timetab/internal/repositories"
	"github.com/desertthunder/timetab/internal/shared"
)

// Action is the decision the seeder makes for one baseline record.
type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionSkip   Action = "skip"
)

// Phase enumerates the orchestrator's state transitions, surfaced in logs.
type Phase int

const (
	Planning Phase = iota
	PlanReady
	Reported
	Applying
	Committed
	RolledBack
	Aborted
)

func (p Phase) String() string {
	switch p {
	case Planning:
		return "planning"
	case PlanReady:
		return "plan_ready"
	case Reported:
		return "reported"
	case Applying:
		return "applying"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled_back"
	case Aborted:
		return "aborted"
	default:
		return ""
	}
}

// FieldChange is one attribute's proposed transition. From is empty for inserts.
type FieldChange struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`
}

// PlanItem is one decided action for one baseline record. Transient; never persisted.
type PlanItem struct {
	Action Action                 `json:"action"`
	Kind   string                 `json:"kind"`
	Key    string                 `json:"key"`
	Diff   map[string]FieldChange `json:"diff,omitempty"`
}

// Summary aggregates a full plan or apply run.
type Summary struct {
	Inserted int        `json:"inserted"`
	Updated  int        `json:"updated"`
	Skipped  int        `json:"skipped"`
	Items    []PlanItem `json:"items"`
}

func (s *Summary) record(item PlanItem) {
	switch item.Action {
	case ActionInsert:
		s.Inserted++
	case ActionUpdate:
		s.Updated++
	case ActionSkip:
		s.Skipped++
	}
	s.Items = append(s.Items, item)
}

// Options carries the guard overrides for one seeder run.
type Options struct {
	Force   bool // proceed against a production environment
	Upgrade bool // run pending migrations inline before seeding
}

// Seeder orchestrates baseline seeding against one database.
type Seeder struct {
	db     *sql.DB
	repos  *repositories.Repos
	config *shared.Config
	logger *log.Logger
}

// NewSeeder creates a seeder over the given database and repository set.
func NewSeeder(db *sql.DB, repos *repositories.Repos, config *shared.Config, logger *log.Logger) *Seeder {
	return &Seeder{db: db, repos: repos, config: config, logger: logger}
}

// Plan computes the action set read-only. No row is written; the guards still apply.
func (s *Seeder) Plan(ctx context.Context, baseline *Baseline, opts Options) (*Summary, error) {
	s.logger.Debug("seed phase", "phase", Planning)

	if err := s.guard(opts); err != nil {
		s.logger.Debug("seed phase", "phase", Aborted)
		return nil, err
	}

	summary, err := s.compute(ctx, s.db, baseline, false)
	if err != nil {
		s.logger.Debug("seed phase", "phase", Aborted)
		return nil, err
	}

	s.logger.Debug("seed phase", "phase", PlanReady)
	s.logger.Debug("seed phase", "phase", Reported)
	return summary, nil
}

// Apply executes the plan inside a single transaction. The decision logic is
// identical to [Seeder.Plan], re-run against the transaction's view; any step
// failure rolls back the whole invocation and a success commits exactly once.
func (s *Seeder) Apply(ctx context.Context, baseline *Baseline, opts Options) (*Summary, error) {
	s.logger.Debug("seed phase", "phase", Planning)

	if err := s.guard(opts); err != nil {
		s.logger.Debug("seed phase", "phase", Aborted)
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	s.logger.Debug("seed phase", "phase", Applying)

	// The attribution fallback for audited kinds is materialized here, at an
	// explicit initialization point, never lazily inside a generic create.
	if _, err := EnsureSystemActor(ctx, tx, s.repos, s.config); err != nil {
		s.logger.Debug("seed phase", "phase", RolledBack)
		return nil, err
	}

	summary, err := s.compute(ctx, tx, baseline, true)
	if err != nil {
		s.logger.Debug("seed phase", "phase", RolledBack)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Debug("seed phase", "phase", RolledBack)
		return nil, fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	s.logger.Debug("seed phase", "phase", Committed)
	s.logger.Info("seed complete",
		"inserted", summary.Inserted, "updated", summary.Updated, "skipped", summary.Skipped)
	return summary, nil
}

// guard enforces the environment and migration preconditions, in order, each short-circuiting.
func (s *Seeder) guard(opts Options) error {
	env := s.config.App.Environment
	if s.config.IsProduction() {
		if !opts.Force {
			return fmt.Errorf("%w: refusing to seed environment %q", shared.ErrSeedForbidden, env)
		}
		s.logger.Warn("seeding a production environment under force override", "environment", env)
	}

	atHead, err := shared.IsAtHead(s.db)
	if err != nil {
		return err
	}
	if !atHead {
		if !opts.Upgrade {
			return fmt.Errorf("%w: apply migrations first or request an inline upgrade", shared.ErrSchemaBehindHead)
		}
		s.logger.Info("upgrading schema to head before seeding")
		if err := shared.RunMigrations(s.db); err != nil {
			return err
		}
	}

	return nil
}

// compute walks entity kinds in dependency order and decides one action per
// record. With apply=false every lookup is read-only; with apply=true each
// decision executes immediately against dbtx, so parents exist before their
// children are keyed.
func (s *Seeder) compute(ctx context.Context, dbtx repositories.DBTX, baseline *Baseline, apply bool) (*Summary, error) {
	if err := baseline.Validate(); err != nil {
		return nil, err
	}

	summary := &Summary{}

	if err := s.seedActors(ctx, dbtx, baseline, apply, summary); err != nil {
		return nil, err
	}
	if err := s.seedOrganisations(ctx, dbtx, baseline, apply, summary); err != nil {
		return nil, err
	}
	if err := s.seedCampuses(ctx, dbtx, baseline, apply, summary); err != nil {
		return nil, err
	}
	if err := s.seedRooms(ctx, dbtx, baseline, apply, summary); err != nil {
		return nil, err
	}

	return summary, nil
}

func (s *Seeder) seedActors(ctx context.Context, dbtx repositories.DBTX, baseline *Baseline, apply bool, summary *Summary) error {
	for _, ba := range baseline.Actors {
		key := models.ActorKey{Email: ba.Email}

		existing, err := s.repos.Actors.GetOneByOrNone(ctx, dbtx, key)
		if err != nil {
			return err
		}

		switch {
		case existing == nil:
			item := PlanItem{Action: ActionInsert, Kind: "actor", Key: key.String(), Diff: map[string]FieldChange{
				"email": {To: ba.Email},
				"name":  {To: ba.Name},
			}}
			if apply {
				_, created, err := s.repos.Actors.GetOrCreate(ctx, dbtx, key, func() *models.Actor {
					return &models.Actor{Email: ba.Email, Name: ba.Name, System: ba.System}
				})
				if err != nil {
					return err
				}
				if !created {
					s.logger.Warn("lost seed race, keeping existing record", "key", key.String())
					item = PlanItem{Action: ActionSkip, Kind: "actor", Key: key.String()}
				}
			}
			summary.record(item)
		case existing.Name != ba.Name:
			item := PlanItem{Action: ActionUpdate, Kind: "actor", Key: key.String(), Diff: map[string]FieldChange{
				"name": {From: existing.Name, To: ba.Name},
			}}
			if apply {
				if _, err := s.repos.Actors.Update(ctx, dbtx, existing.ID, func(a *models.Actor) error {
					a.Name = ba.Name
					return nil
				}); err != nil {
					return err
				}
			}
			summary.record(item)
		default:
			summary.record(PlanItem{Action: ActionSkip, Kind: "actor", Key: key.String()})
		}
	}

	return nil
}

func (s *Seeder) seedOrganisations(ctx context.Context, dbtx repositories.DBTX, baseline *Baseline, apply bool, summary *Summary) error {
	for _, bo := range baseline.Organisations {
		slug := bo.Slug
		if slug == "" {
			slug = Slugify(bo.Name)
		}
		key := models.OrganisationKey{Name: bo.Name}

		existing, err := s.repos.Organisations.GetOneByOrNone(ctx, dbtx, key)
		if err != nil {
			return err
		}

		switch {
		case existing == nil:
			item := PlanItem{Action: ActionInsert, Kind: "organisation", Key: key.String(), Diff: map[string]FieldChange{
				"name": {To: bo.Name},
				"slug": {To: slug},
			}}
			if apply {
				_, created, err := s.repos.Organisations.GetOrCreate(ctx, dbtx, key, func() *models.Organisation {
					return &models.Organisation{Name: bo.Name, Slug: slug}
				})
				if err != nil {
					return err
				}
				if !created {
					s.logger.Warn("lost seed race, keeping existing record", "key", key.String())
					item = PlanItem{Action: ActionSkip, Kind: "organisation", Key: key.String()}
				}
			}
			summary.record(item)
		case existing.Slug != slug:
			item := PlanItem{Action: ActionUpdate, Kind: "organisation", Key: key.String(), Diff: map[string]FieldChange{
				"slug": {From: existing.Slug, To: slug},
			}}
			if apply {
				if _, err := s.repos.Organisations.Update(ctx, dbtx, existing.ID, func(o *models.Organisation) error {
					o.Slug = slug
					return nil
				}); err != nil {
					return err
				}
			}
			summary.record(item)
		default:
			summary.record(PlanItem{Action: ActionSkip, Kind: "organisation", Key: key.String()})
		}
	}

	return nil
}

func (s *Seeder) seedCampuses(ctx context.Context, dbtx repositories.DBTX, baseline *Baseline, apply bool, summary *Summary) error {
	for _, bc := range baseline.Campuses {
		slug := bc.Slug
		if slug == "" {
			slug = Slugify(bc.Name)
		}
		// Keyed by names so dry-run and apply describe the same item even
		// before the parent organisation exists.
		keyStr := fmt.Sprintf("campus organisation=%q name=%q", bc.Organisation, bc.Name)

		org, err := s.repos.Organisations.GetOneByOrNone(ctx, dbtx, models.OrganisationKey{Name: bc.Organisation})
		if err != nil {
			return err
		}
		if org == nil {
			if apply {
				return fmt.Errorf("%w: organisation %q missing during apply", shared.ErrInvalidInput, bc.Organisation)
			}
			// Parent is itself planned for insert; the campus cannot exist yet.
			summary.record(PlanItem{Action: ActionInsert, Kind: "campus", Key: keyStr, Diff: map[string]FieldChange{
				"name": {To: bc.Name},
				"slug": {To: slug},
			}})
			continue
		}

		key := models.CampusKey{OrganisationID: org.ID, Name: bc.Name}
		existing, err := s.repos.Campuses.GetOneByOrNone(ctx, dbtx, key)
		if err != nil {
			return err
		}

		switch {
		case existing == nil:
			item := PlanItem{Action: ActionInsert, Kind: "campus", Key: keyStr, Diff: map[string]FieldChange{
				"name": {To: bc.Name},
				"slug": {To: slug},
			}}
			if apply {
				_, created, err := s.repos.Campuses.GetOrCreate(ctx, dbtx, key, func() *models.Campus {
					return &models.Campus{OrganisationID: org.ID, Name: bc.Name, Slug: slug}
				})
				if err != nil {
					return err
				}
				if !created {
					s.logger.Warn("lost seed race, keeping existing record", "key", keyStr)
					item = PlanItem{Action: ActionSkip, Kind: "campus", Key: keyStr}
				}
			}
			summary.record(item)
		case existing.Slug != slug:
			item := PlanItem{Action: ActionUpdate, Kind: "campus", Key: keyStr, Diff: map[string]FieldChange{
				"slug": {From: existing.Slug, To: slug},
			}}
			if apply {
				if _, err := s.repos.Campuses.Update(ctx, dbtx, existing.ID, func(c *models.Campus) error {
					c.Slug = slug
					return nil
				}); err != nil {
					return err
				}
			}
			summary.record(item)
		default:
			summary.record(PlanItem{Action: ActionSkip, Kind: "campus", Key: keyStr})
		}
	}

	return nil
}

func (s *Seeder) seedRooms(ctx context.Context, dbtx repositories.DBTX, baseline *Baseline, apply bool, summary *Summary) error {
	for _, br := range baseline.Rooms {
		keyStr := fmt.Sprintf("room organisation=%q campus=%q name=%q", br.Organisation, br.Campus, br.Name)

		campus, err := s.lookupCampus(ctx, dbtx, br.Organisation, br.Campus)
		if err != nil {
			return err
		}
		if campus == nil {
			if apply {
				return fmt.Errorf("%w: campus %q missing during apply", shared.ErrInvalidInput, br.Campus)
			}
			summary.record(PlanItem{Action: ActionInsert, Kind: "room", Key: keyStr, Diff: map[string]FieldChange{
				"name":     {To: br.Name},
				"capacity": {To: strconv.Itoa(br.Capacity)},
			}})
			continue
		}

		key := models.RoomKey{CampusID: campus.ID, Name: br.Name}
		existing, err := s.repos.Rooms.GetOneByOrNone(ctx, dbtx, key)
		if err != nil {
			return err
		}

		switch {
		case existing == nil:
			item := PlanItem{Action: ActionInsert, Kind: "room", Key: keyStr, Diff: map[string]FieldChange{
				"name":     {To: br.Name},
				"capacity": {To: strconv.Itoa(br.Capacity)},
			}}
			if apply {
				_, created, err := s.repos.Rooms.GetOrCreate(ctx, dbtx, key, func() *models.Room {
					return &models.Room{CampusID: campus.ID, Name: br.Name, Capacity: br.Capacity}
				})
				if err != nil {
					return err
				}
				if !created {
					s.logger.Warn("lost seed race, keeping existing record", "key", keyStr)
					item = PlanItem{Action: ActionSkip, Kind: "room", Key: keyStr}
				}
			}
			summary.record(item)
		case existing.Capacity != br.Capacity:
			item := PlanItem{Action: ActionUpdate, Kind: "room", Key: keyStr, Diff: map[string]FieldChange{
				"capacity": {From: strconv.Itoa(existing.Capacity), To: strconv.Itoa(br.Capacity)},
			}}
			if apply {
				if _, err := s.repos.Rooms.Update(ctx, dbtx, existing.ID, func(r *models.Room) error {
					r.Capacity = br.Capacity
					return nil
				}); err != nil {
					return err
				}
			}
			summary.record(item)
		default:
			summary.record(PlanItem{Action: ActionSkip, Kind: "room", Key: keyStr})
		}
	}

	return nil
}

// lookupCampus resolves a campus by organisation name and campus name,
// returning nil when either link in the chain does not exist yet.
func (s *Seeder) lookupCampus(ctx context.Context, dbtx repositories.DBTX, orgName, campusName string) (*models.Campus, error) {
	org, err := s.repos.Organisations.GetOneByOrNone(ctx, dbtx, models.OrganisationKey{Name: orgName})
	if err != nil || org == nil {
		return nil, err
	}
	return s.repos.Campuses.GetOneByOrNone(ctx, dbtx, models.CampusKey{OrganisationID: org.ID, Name: campusName})
}

// EnsureSystemActor materializes the configured system actor and installs it
// as the attribution fallback. Called from explicit initialization paths
// (setup, seed apply), never lazily from a generic write path.
func EnsureSystemActor(ctx context.Context, dbtx repositories.DBTX, repos *repositories.Repos, config *shared.Config) (*models.Actor, error) {
	if config.Seed.SystemActorEmail == "" {
		return nil, fmt.Errorf("%w: seed.system_actor_email is not configured", shared.ErrInvalidConfig)
	}

	actor, _, err := repos.Actors.GetOrCreate(ctx, dbtx, models.ActorKey{Email: config.Seed.SystemActorEmail}, func() *models.Actor {
		return &models.Actor{
			Email:  config.Seed.SystemActorEmail,
			Name:   config.Seed.SystemActorName,
			System: true,
		}
	})
	if err != nil {
		return nil, err
	}

	repos.SetSystemActor(actor.ID)
	return actor, nil
}
