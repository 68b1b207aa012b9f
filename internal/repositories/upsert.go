package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/timetab/internal/errs"
	"github.com/desertthunder/timetab/internal/models"
	"github.com/desertthunder/timetab/internal/shared"
)

// GetOrCreate returns the record matching the natural key, inserting one built
// by build when none exists. The boolean reports whether this call inserted.
//
// When the insert hits a uniqueness conflict, a concurrent writer may have won
// the race: the key is re-read exactly once, and a hit resolves to that row
// with created=false. A miss after the retry means a different uniqueness
// constraint fired, so the original conflict error is surfaced unchanged.
// One retry, never a loop.
func (r *Repo[T]) GetOrCreate(ctx context.Context, dbtx DBTX, key models.NaturalKey, build func() *T) (*T, bool, error) {
	existing, err := r.GetOneByOrNone(ctx, dbtx, key)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	rec := build()
	createErr := r.Create(ctx, dbtx, rec)
	if createErr == nil {
		return rec, true, nil
	}
	if !errs.IsKind(createErr, errs.KindConflict) {
		return nil, false, createErr
	}

	existing, err = r.GetOneByOrNone(ctx, dbtx, key)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	return nil, false, createErr
}

// GetOneBy returns the record matching the natural key, failing with
// [shared.ErrNotFound] when absent. Absence is always signaled, never a silent nil.
func (r *Repo[T]) GetOneBy(ctx context.Context, dbtx DBTX, key models.NaturalKey) (*T, error) {
	rec, err := r.GetOneByOrNone(ctx, dbtx, key)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%s: %w", key.String(), shared.ErrNotFound)
	}
	return rec, nil
}

// GetOneByOrNone returns the record matching the natural key, or (nil, nil) when absent.
func (r *Repo[T]) GetOneByOrNone(ctx context.Context, dbtx DBTX, key models.NaturalKey) (*T, error) {
	return r.one(ctx, dbtx, r.ByKey(key))
}
