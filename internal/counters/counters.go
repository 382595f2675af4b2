// Package counters maintains the denormalized aggregates on users.
//
// Callers pass the transaction-bound store that performed the relation
// change, so the counter update commits or rolls back with it.
package counters

import (
	"context"

	"github.com/inkwell-dev/inkwell/internal/store"
)

// Field is a counter column on the users table
type Field string

const (
	CommentsCount      Field = "comments_count"
	LikedCommentsCount Field = "liked_comments_count"
	NumberOfDocuments  Field = "number_of_documents"
)

func Increment(ctx context.Context, tx *store.Store, userID uint, field Field) error {
	return Adjust(ctx, tx, userID, field, 1)
}

func Decrement(ctx context.Context, tx *store.Store, userID uint, field Field) error {
	return Adjust(ctx, tx, userID, field, -1)
}

// Adjust applies delta; an empty field is a no-op for relations without a counter
func Adjust(ctx context.Context, tx *store.Store, userID uint, field Field, delta int) error {
	if field == "" {
		return nil
	}
	return tx.AdjustCounter(ctx, userID, string(field), delta)
}
