// Package likes manages the user "liked" edges on documents and comments.
//
// Each command pairs the edge mutation with its counter update on the
// transaction-bound store it is given; nothing relies on ORM change tracking
// to infer either side.
package likes

import (
	"context"

	"github.com/inkwell-dev/inkwell/internal/apperrors"
	"github.com/inkwell-dev/inkwell/internal/counters"
	"github.com/inkwell-dev/inkwell/internal/models"
	"github.com/inkwell-dev/inkwell/internal/store"
)

// Target describes a likeable entity kind
type Target struct {
	Kind    string
	Model   interface{}
	Edge    store.Edge
	Counter counters.Field // empty when the liker has no counter for this kind
}

var (
	Document = Target{
		Kind:  "document",
		Model: &models.Document{},
		Edge:  store.DocumentLikes,
	}
	Comment = Target{
		Kind:    "comment",
		Model:   &models.Comment{},
		Edge:    store.CommentLikes,
		Counter: counters.LikedCommentsCount,
	}
)

func ensureExists(ctx context.Context, tx *store.Store, target Target, targetID, userID uint) error {
	exists, err := tx.Exists(ctx, target.Model, targetID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFound("%s %d not found", target.Kind, targetID)
	}

	exists, err = tx.Exists(ctx, &models.User{}, userID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFound("user %d not found", userID)
	}
	return nil
}

// Add records that userID likes targetID. Liking twice leaves both the edge
// and the counter as they were. Returns the refreshed likers.
func Add(ctx context.Context, tx *store.Store, target Target, targetID, userID uint) ([]models.User, error) {
	if err := ensureExists(ctx, tx, target, targetID, userID); err != nil {
		return nil, err
	}

	liked, err := tx.HasEdge(ctx, target.Edge, targetID, userID)
	if err != nil {
		return nil, err
	}

	if !liked {
		if err := tx.AddEdge(ctx, target.Edge, targetID, userID); err != nil {
			return nil, err
		}
		if err := counters.Increment(ctx, tx, userID, target.Counter); err != nil {
			return nil, err
		}
	}

	return tx.EdgeUsers(ctx, target.Edge, targetID)
}

// Remove deletes the like edge. A missing edge is an InvariantViolation and
// leaves the counter untouched.
func Remove(ctx context.Context, tx *store.Store, target Target, targetID, userID uint) ([]models.User, error) {
	if err := ensureExists(ctx, tx, target, targetID, userID); err != nil {
		return nil, err
	}

	removed, err := tx.RemoveEdge(ctx, target.Edge, targetID, userID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, apperrors.InvariantViolation("user %d does not like %s %d", userID, target.Kind, targetID)
	}

	if err := counters.Decrement(ctx, tx, userID, target.Counter); err != nil {
		return nil, err
	}

	return tx.EdgeUsers(ctx, target.Edge, targetID)
}

// Likers returns the users currently liking targetID
func Likers(ctx context.Context, s *store.Store, target Target, targetID uint) ([]models.User, error) {
	exists, err := s.Exists(ctx, target.Model, targetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFound("%s %d not found", target.Kind, targetID)
	}
	return s.EdgeUsers(ctx, target.Edge, targetID)
}

// UnlinkUser drops every like held by userID on this target kind. The
// liker's own counter is reset by the same amount.
func UnlinkUser(ctx context.Context, tx *store.Store, target Target, userID uint) (int64, error) {
	removed, err := tx.RemoveEdgesOfUser(ctx, target.Edge, userID)
	if err != nil {
		return 0, err
	}
	if err := counters.Adjust(ctx, tx, userID, target.Counter, -int(removed)); err != nil {
		return 0, err
	}
	return removed, nil
}
