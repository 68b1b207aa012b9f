package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/timetab/internal/seed"
	"github.com/desertthunder/timetab/internal/shared"
	testdb "github.com/desertthunder/timetab/internal/testing"
	"github.com/urfave/cli/v3"
)

func testConfig() *shared.Config {
	config := shared.DefaultConfig()
	config.App.Environment = "test"
	config.Seed.SystemActorEmail = "system@timetab.local"
	config.Seed.SystemActorName = "Timetab System"
	config.Seed.BaselinePath = ""
	return config
}

func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer, *sql.DB) {
	t.Helper()

	db := testdb.MustOpenDB(t)
	var buf bytes.Buffer
	runner := NewRunner(RunnerOpts{
		Config: testConfig(),
		Logger: log.New(io.Discard),
		Output: &buf,
		DB:     db,
	})
	return runner, &buf, db
}

// run drives the full CLI surface the way main does, against the injected database.
func run(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()

	app := &cli.Command{Name: "timetab", Commands: runner.register()}
	return app.Run(context.Background(), append([]string{"timetab"}, args...))
}

func TestWriteJSON(t *testing.T) {
	t.Run("Compact", func(t *testing.T) {
		runner, buf, _ := newTestRunner(t)
		if err := runner.writeJSON(map[string]int{"n": 1}, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := buf.String(); got != "{\"n\":1}\n" {
			t.Errorf("unexpected output %q", got)
		}
	})

	t.Run("Pretty", func(t *testing.T) {
		runner, buf, _ := newTestRunner(t)
		if err := runner.writeJSON(map[string]int{"n": 1}, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "  \"n\": 1") {
			t.Errorf("expected indented output, got %q", buf.String())
		}
	})
}

func TestWritePlain(t *testing.T) {
	runner, buf, _ := newTestRunner(t)
	if err := runner.writePlain("room %s has %d seats\n", "101", 30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.String(); got != "room 101 has 30 seats\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestWriteSummary(t *testing.T) {
	runner, buf, _ := newTestRunner(t)
	summary := &seed.Summary{
		Inserted: 1,
		Skipped:  2,
		Items: []seed.PlanItem{
			{Action: seed.ActionInsert, Kind: "organisation", Key: `organisation name="Demo Org"`},
		},
	}

	t.Run("Text", func(t *testing.T) {
		buf.Reset()
		if err := runner.writeSummary(summary, "text", false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "inserted=1 updated=0 skipped=2") {
			t.Errorf("expected counters line, got %q", out)
		}
		if !strings.Contains(out, `organisation name="Demo Org"`) {
			t.Errorf("expected per-item lines, got %q", out)
		}
	})

	t.Run("CSV", func(t *testing.T) {
		buf.Reset()
		if err := runner.writeSummary(summary, "csv", false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(buf.String(), "Action,Kind,Key,Changes") {
			t.Errorf("expected CSV output, got %q", buf.String())
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		buf.Reset()
		if err := runner.writeSummary(summary, "markdown", false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "| Action | Kind | Key | Changes |") {
			t.Errorf("expected a Markdown table, got %q", buf.String())
		}
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		if err := runner.writeSummary(summary, "yaml", false); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Fatalf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestLoadBaseline(t *testing.T) {
	content := `
[[organisations]]
name = "From File"
`

	t.Run("FlagWins", func(t *testing.T) {
		runner, _, _ := newTestRunner(t)
		path := filepath.Join(t.TempDir(), "baseline.toml")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		baseline, err := runner.loadBaseline(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if baseline.Organisations[0].Name != "From File" {
			t.Errorf("expected the file baseline, got %+v", baseline)
		}
	})

	t.Run("FallsBackToConfig", func(t *testing.T) {
		runner, _, _ := newTestRunner(t)
		path := filepath.Join(t.TempDir(), "configured.toml")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		runner.config.Seed.BaselinePath = path

		baseline, err := runner.loadBaseline("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if baseline.Organisations[0].Name != "From File" {
			t.Errorf("expected the configured baseline, got %+v", baseline)
		}
	})

	t.Run("EmbeddedDefault", func(t *testing.T) {
		runner, _, _ := newTestRunner(t)
		baseline, err := runner.loadBaseline("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(baseline.Organisations) == 0 {
			t.Error("expected the embedded baseline to declare an organisation")
		}
	})
}

func TestRegister(t *testing.T) {
	runner, _, _ := newTestRunner(t)
	commands := runner.register()

	expected := []string{"setup", "db", "seed", "org", "room"}
	if len(commands) != len(expected) {
		t.Fatalf("expected %d commands, got %d", len(expected), len(commands))
	}
	for i, name := range expected {
		if commands[i].Name != name {
			t.Errorf("command %d: expected %q, got %q", i, name, commands[i].Name)
		}
	}
}

func TestSetupConfig(t *testing.T) {
	runner, buf, _ := newTestRunner(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	t.Run("WritesExample", func(t *testing.T) {
		if err := run(t, runner, "setup", "config", "--config", path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "wrote "+path) {
			t.Errorf("unexpected output %q", buf.String())
		}

		config, err := shared.LoadConfig(path)
		if err != nil {
			t.Fatalf("written config must load: %v", err)
		}
		if config.App.Environment != "development" {
			t.Errorf("expected the example environment, got %q", config.App.Environment)
		}
	})

	t.Run("RefusesOverwrite", func(t *testing.T) {
		err := run(t, runner, "setup", "config", "--config", path)
		if !errors.Is(err, fs.ErrExist) {
			t.Fatalf("expected fs.ErrExist, got %v", err)
		}
	})
}

func TestConfigFlag(t *testing.T) {
	runner, _, _ := newTestRunner(t)

	path := filepath.Join(t.TempDir(), "staging.toml")
	content := `
[app]
environment = "production"

[seed]
system_actor_email = "system@timetab.local"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The runner was built with a non-production config; the flag's file must
	// govern the guard decision.
	err := run(t, runner, "seed", "apply", "--config", path)
	if !errors.Is(err, shared.ErrSeedForbidden) {
		t.Fatalf("expected ErrSeedForbidden from the flag-loaded config, got %v", err)
	}
}

func TestSetupDatabase(t *testing.T) {
	runner, buf, db := newTestRunner(t)

	if err := run(t, runner, "setup", "database"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "database ready at schema version") {
		t.Errorf("unexpected output %q", buf.String())
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM actors WHERE is_system = 1").Scan(&n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected the system actor to be materialized, got %d", n)
	}
}

func TestDBStatus(t *testing.T) {
	runner, buf, _ := newTestRunner(t)

	if err := run(t, runner, "db", "status", "--json", "--pretty=false"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"at_head":true`) {
		t.Errorf("expected at_head true, got %q", out)
	}
}

func TestSeedCommands(t *testing.T) {
	runner, buf, _ := newTestRunner(t)

	t.Run("Apply", func(t *testing.T) {
		buf.Reset()
		if err := run(t, runner, "seed", "apply"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "inserted=") {
			t.Errorf("expected a summary, got %q", buf.String())
		}
	})

	t.Run("SecondApplySkips", func(t *testing.T) {
		buf.Reset()
		if err := run(t, runner, "seed", "apply"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "inserted=0 updated=0") {
			t.Errorf("expected an all-skip summary, got %q", buf.String())
		}
	})

	t.Run("PlanJSON", func(t *testing.T) {
		buf.Reset()
		if err := run(t, runner, "seed", "plan", "--json", "--pretty=false"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"inserted":0`) {
			t.Errorf("expected JSON output, got %q", buf.String())
		}
	})

	t.Run("ProductionRefused", func(t *testing.T) {
		runner.config.App.Environment = shared.EnvProduction
		defer func() { runner.config.App.Environment = "test" }()

		err := run(t, runner, "seed", "apply")
		if !errors.Is(err, shared.ErrSeedForbidden) {
			t.Fatalf("expected ErrSeedForbidden, got %v", err)
		}
	})
}

func TestOrgList(t *testing.T) {
	runner, buf, _ := newTestRunner(t)
	if err := run(t, runner, "seed", "apply"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("Plain", func(t *testing.T) {
		buf.Reset()
		if err := run(t, runner, "org", "list", "--sort", "name:asc"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "demo-org") {
			t.Errorf("expected the seeded organisation, got %q", buf.String())
		}
	})

	t.Run("CSV", func(t *testing.T) {
		buf.Reset()
		if err := run(t, runner, "org", "list", "--format", "csv"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(buf.String(), "Sequence,Name,Slug,CreatedAt") {
			t.Errorf("expected CSV output, got %q", buf.String())
		}
	})

	t.Run("BadSortField", func(t *testing.T) {
		err := run(t, runner, "org", "list", "--sort", "password")
		if !errors.Is(err, shared.ErrInvalidSortKey) {
			t.Fatalf("expected ErrInvalidSortKey, got %v", err)
		}
	})

	t.Run("BadSortDirection", func(t *testing.T) {
		err := run(t, runner, "org", "list", "--sort", "name:sideways")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Fatalf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("BadPage", func(t *testing.T) {
		err := run(t, runner, "org", "list", "--page", "0")
		if !errors.Is(err, shared.ErrInvalidPageParams) {
			t.Fatalf("expected ErrInvalidPageParams, got %v", err)
		}
	})
}

func TestRoomCommands(t *testing.T) {
	runner, buf, db := newTestRunner(t)
	if err := run(t, runner, "seed", "apply"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var roomID string
	if err := db.QueryRow("SELECT id FROM rooms WHERE name = 'Room 101'").Scan(&roomID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("Claim", func(t *testing.T) {
		buf.Reset()
		if err := run(t, runner, "room", "claim", "--actor", "demo@timetab.local", roomID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "claimed room Room 101") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("ClaimIsExclusive", func(t *testing.T) {
		buf.Reset()
		if err := run(t, runner, "room", "claim", "--actor", "system@timetab.local", roomID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "already claimed") {
			t.Errorf("expected contention to be reported, got %q", buf.String())
		}
	})

	t.Run("Release", func(t *testing.T) {
		buf.Reset()
		if err := run(t, runner, "room", "release", roomID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "released claim") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("ReclaimAfterRelease", func(t *testing.T) {
		buf.Reset()
		if err := run(t, runner, "room", "claim", "--actor", "system@timetab.local", roomID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "claimed room Room 101") {
			t.Errorf("expected the claim to be reacquired, got %q", buf.String())
		}
	})

	t.Run("ReleaseUnclaimed", func(t *testing.T) {
		if err := run(t, runner, "room", "release", roomID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		err := run(t, runner, "room", "release", roomID)
		if !errors.Is(err, shared.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("MissingRoomID", func(t *testing.T) {
		err := run(t, runner, "room", "release")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Fatalf("expected ErrMissingArgument, got %v", err)
		}
	})
}
