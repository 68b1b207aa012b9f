package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/timetab/internal/models"
	"github.com/desertthunder/timetab/internal/shared"
	"github.com/urfave/cli/v3"
)

// RoomClaim acquires the exclusive claim on a room for an actor. Contention is
// settled entirely by the unique constraint on room_id; there is no lock here.
func (r *Runner) RoomClaim(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd)

	roomID := cmd.StringArg("room-id")
	if roomID == "" {
		return fmt.Errorf("%w: room-id", shared.ErrMissingArgument)
	}

	db, err := r.openDB()
	if err != nil {
		return err
	}

	room, err := r.repos.Rooms.Get(ctx, db, roomID)
	if err != nil {
		return err
	}

	actor, err := r.repos.Actors.GetOneBy(ctx, db, models.ActorKey{Email: cmd.String("actor")})
	if err != nil {
		return err
	}

	claim, created, err := r.repos.Claims.GetOrCreate(ctx, db, models.RoomClaimKey{RoomID: room.ID}, func() *models.RoomClaim {
		return &models.RoomClaim{RoomID: room.ID, ActorID: actor.ID}
	})
	if err != nil {
		return err
	}

	if !created {
		return r.writePlain("room %s already claimed (claim %s, actor %s)\n", room.Name, claim.ID, claim.ActorID)
	}
	return r.writePlain("claimed room %s for %s\n", room.Name, actor.Email)
}

// RoomRelease releases a room's claim by deleting it.
func (r *Runner) RoomRelease(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd)

	roomID := cmd.StringArg("room-id")
	if roomID == "" {
		return fmt.Errorf("%w: room-id", shared.ErrMissingArgument)
	}

	db, err := r.openDB()
	if err != nil {
		return err
	}

	claim, err := r.repos.Claims.GetOneBy(ctx, db, models.RoomClaimKey{RoomID: roomID})
	if err != nil {
		return err
	}

	if err := r.repos.Claims.Delete(ctx, db, claim.ID); err != nil {
		return err
	}

	return r.writePlain("released claim on room %s\n", roomID)
}
