package seed

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/timetab/internal/shared"
)

//go:embed baseline.example.toml
var exampleBaseline []byte

// Baseline is the declarative set of records every environment starts from.
// Children reference parents by natural-key names, never by surrogate ids.
type Baseline struct {
	Actors        []BaselineActor        `toml:"actors"`
	Organisations []BaselineOrganisation `toml:"organisations"`
	Campuses      []BaselineCampus       `toml:"campuses"`
	Rooms         []BaselineRoom         `toml:"rooms"`
}

// BaselineActor seeds an actor keyed by email.
type BaselineActor struct {
	Email  string `toml:"email"`
	Name   string `toml:"name"`
	System bool   `toml:"system"`
}

// BaselineOrganisation seeds an organisation keyed by name.
// Slug is optional; empty derives it from the name.
type BaselineOrganisation struct {
	Name string `toml:"name"`
	Slug string `toml:"slug"`
}

// BaselineCampus seeds a campus keyed by (organisation, name).
type BaselineCampus struct {
	Organisation string `toml:"organisation"`
	Name         string `toml:"name"`
	Slug         string `toml:"slug"`
}

// BaselineRoom seeds a room keyed by (organisation, campus, name).
type BaselineRoom struct {
	Organisation string `toml:"organisation"`
	Campus       string `toml:"campus"`
	Name         string `toml:"name"`
	Capacity     int    `toml:"capacity"`
}

// Validate checks that every child references a parent declared in the
// baseline or already expected to exist, and that required fields are set.
func (b *Baseline) Validate() error {
	orgs := map[string]bool{}
	for i, org := range b.Organisations {
		if org.Name == "" {
			return fmt.Errorf("%w: organisations[%d] has no name", shared.ErrInvalidInput, i)
		}
		orgs[org.Name] = true
	}

	campuses := map[string]bool{}
	for i, campus := range b.Campuses {
		if campus.Name == "" || campus.Organisation == "" {
			return fmt.Errorf("%w: campuses[%d] needs name and organisation", shared.ErrInvalidInput, i)
		}
		if !orgs[campus.Organisation] {
			return fmt.Errorf("%w: campuses[%d] references undeclared organisation %q", shared.ErrInvalidInput, i, campus.Organisation)
		}
		campuses[campus.Organisation+"/"+campus.Name] = true
	}

	for i, room := range b.Rooms {
		if room.Name == "" || room.Campus == "" || room.Organisation == "" {
			return fmt.Errorf("%w: rooms[%d] needs name, campus, and organisation", shared.ErrInvalidInput, i)
		}
		if !campuses[room.Organisation+"/"+room.Campus] {
			return fmt.Errorf("%w: rooms[%d] references undeclared campus %q", shared.ErrInvalidInput, i, room.Campus)
		}
		if room.Capacity < 0 {
			return fmt.Errorf("%w: rooms[%d] has negative capacity", shared.ErrInvalidInput, i)
		}
	}

	for i, actor := range b.Actors {
		if actor.Email == "" || actor.Name == "" {
			return fmt.Errorf("%w: actors[%d] needs email and name", shared.ErrInvalidInput, i)
		}
	}

	return nil
}

// DefaultBaseline returns the baseline embedded in the binary.
func DefaultBaseline() *Baseline {
	var baseline Baseline
	if err := toml.Unmarshal(exampleBaseline, &baseline); err != nil {
		panic(fmt.Sprintf("failed to parse embedded baseline: %v", err))
	}
	return &baseline
}

// LoadBaseline reads and validates a baseline TOML file.
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline file: %w", err)
	}

	var baseline Baseline
	if err := toml.Unmarshal(data, &baseline); err != nil {
		return nil, fmt.Errorf("%w: failed to parse baseline: %v", shared.ErrInvalidInput, err)
	}

	if err := baseline.Validate(); err != nil {
		return nil, err
	}

	return &baseline, nil
}
