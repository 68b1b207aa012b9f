package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/desertthunder/timetab/internal/models"
	"github.com/desertthunder/timetab/internal/repositories"
	"github.com/desertthunder/timetab/internal/shared"
	testdb "github.com/desertthunder/timetab/internal/testing"
)

func TestParseSortSpec(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		spec, err := repositories.ParseSortSpec("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if spec != nil {
			t.Errorf("expected nil spec, got %+v", spec)
		}
	})

	t.Run("FieldOnly", func(t *testing.T) {
		spec, err := repositories.ParseSortSpec("name")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if spec.Field != "name" || spec.Direction != repositories.SortAsc {
			t.Errorf("expected name ascending, got %+v", spec)
		}
	})

	t.Run("FieldAndDirection", func(t *testing.T) {
		spec, err := repositories.ParseSortSpec("created_at:desc")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if spec.Field != "created_at" || spec.Direction != repositories.SortDesc {
			t.Errorf("expected created_at descending, got %+v", spec)
		}
	})

	t.Run("BadDirection", func(t *testing.T) {
		_, err := repositories.ParseSortSpec("name:sideways")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Fatalf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestApplySorting(t *testing.T) {
	repos := repositories.New()

	t.Run("NilFallsBackToDefault", func(t *testing.T) {
		q := repos.Actors.Select()
		if err := repos.Actors.ApplySorting(q, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		query, _ := q.SelectSQL()
		if !strings.Contains(query, "ORDER BY sequence ASC, id ASC") {
			t.Errorf("expected default sort with tie-break, got %q", query)
		}
	})

	t.Run("ExplicitFieldGetsTieBreak", func(t *testing.T) {
		q := repos.Actors.Select()
		err := repos.Actors.ApplySorting(q, &repositories.SortSpec{Field: "name", Direction: repositories.SortDesc})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		query, _ := q.SelectSQL()
		if !strings.Contains(query, "ORDER BY name DESC, id ASC") {
			t.Errorf("expected tie-break after name, got %q", query)
		}
	})

	t.Run("MissingDirectionDefaultsAscending", func(t *testing.T) {
		q := repos.Actors.Select()
		if err := repos.Actors.ApplySorting(q, &repositories.SortSpec{Field: "email"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		query, _ := q.SelectSQL()
		if !strings.Contains(query, "ORDER BY email ASC, id ASC") {
			t.Errorf("expected ascending email with tie-break, got %q", query)
		}
	})

	t.Run("PrimaryKeySortSkipsTieBreak", func(t *testing.T) {
		q := repos.Actors.Select()
		err := repos.Actors.ApplySorting(q, &repositories.SortSpec{Field: "id", Direction: repositories.SortDesc})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		query, _ := q.SelectSQL()
		if !strings.Contains(query, "ORDER BY id DESC") {
			t.Errorf("expected primary-key sort, got %q", query)
		}
		if strings.Contains(query, "id DESC, id ASC") {
			t.Errorf("primary-key sort must not add a duplicate tie-break: %q", query)
		}
	})

	t.Run("UnknownFieldRejected", func(t *testing.T) {
		q := repos.Actors.Select()
		err := repos.Actors.ApplySorting(q, &repositories.SortSpec{Field: "password"})
		if !errors.Is(err, shared.ErrInvalidSortKey) {
			t.Fatalf("expected ErrInvalidSortKey, got %v", err)
		}
	})
}

func TestPaginateValidation(t *testing.T) {
	db := testdb.MustOpenDB(t)
	repos := repositories.New()
	ctx := context.Background()

	cases := []struct {
		name    string
		page    int
		perPage int
	}{
		{"PageZero", 0, 10},
		{"PageNegative", -1, 10},
		{"PerPageZero", 1, 0},
		{"PerPageOverMax", 1, repositories.MaxPerPage + 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repos.Actors.Paginate(ctx, db, nil, tc.page, tc.perPage)
			if !errors.Is(err, shared.ErrInvalidPageParams) {
				t.Fatalf("expected ErrInvalidPageParams, got %v", err)
			}
		})
	}
}

func TestPaginationDeterminism(t *testing.T) {
	db := testdb.MustOpenDB(t)
	repos := repositories.New()
	ctx := context.Background()

	// Every actor shares one name so a name sort is decided entirely by the
	// primary-key tie-break.
	const total = 23
	for i := range total {
		actor := &models.Actor{Email: fmt.Sprintf("page%02d@example.com", i), Name: "Same Name"}
		if err := repos.Actors.Create(ctx, db, actor); err != nil {
			t.Fatalf("failed to seed actor %d: %v", i, err)
		}
	}

	walk := func() []string {
		var ids []string
		for page := 1; ; page++ {
			q := repos.Actors.Select()
			if err := repos.Actors.ApplySorting(q, &repositories.SortSpec{Field: "name"}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			result, err := repos.Actors.Paginate(ctx, db, q, page, 10)
			if err != nil {
				t.Fatalf("failed to fetch page %d: %v", page, err)
			}
			if result.Total != total {
				t.Errorf("page %d: expected total %d, got %d", page, total, result.Total)
			}
			for _, a := range result.Items {
				ids = append(ids, a.ID)
			}
			if len(result.Items) < 10 {
				return ids
			}
		}
	}

	first := walk()
	if len(first) != total {
		t.Fatalf("expected %d rows across pages, got %d", total, len(first))
	}

	seen := make(map[string]bool, total)
	for _, id := range first {
		if seen[id] {
			t.Fatalf("row %s appeared on two pages", id)
		}
		seen[id] = true
	}

	second := walk()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("page walk is not stable at position %d: %s vs %s", i, first[i], second[i])
		}
	}
}
