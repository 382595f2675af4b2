// Package leaver implements the reassignment of authored content to the
// reserved account that stands in for deleted users.
package leaver

import (
	"context"
	"errors"

	"github.com/inkwell-dev/inkwell/internal/apperrors"
	"github.com/inkwell-dev/inkwell/internal/counters"
	"github.com/inkwell-dev/inkwell/internal/models"
	"github.com/inkwell-dev/inkwell/internal/store"
	"gorm.io/gorm/clause"
)

// Stored instead of a bcrypt hash, so no password ever matches
const lockedPassword = "!locked"

// Sentinel is the resolved leaver account. It is looked up once at startup
// and handed to every component that reassigns authorship.
type Sentinel struct {
	ID       uint
	Username string
}

// Resolve loads the leaver account by username, creating it when missing
func Resolve(ctx context.Context, s *store.Store, username string) (Sentinel, error) {
	var sentinel Sentinel

	err := s.Transaction(ctx, func(tx *store.Store) error {
		user, err := tx.FindUserByUsername(ctx, username)
		if err == nil {
			sentinel = Sentinel{ID: user.ID, Username: user.Username}
			return nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		user = &models.User{
			Username:     username,
			PasswordHash: lockedPassword,
			Fullname:     "Deleted user",
		}
		if err := tx.Create(ctx, user); err != nil {
			return err
		}
		sentinel = Sentinel{ID: user.ID, Username: user.Username}
		return nil
	})

	return sentinel, err
}

// Is reports whether id is the leaver account
func (s Sentinel) Is(id uint) bool {
	return id == s.ID
}

// Ownership describes one kind of authored row
type Ownership struct {
	Name    string
	Model   interface{}
	Column  string
	Counter counters.Field
}

var (
	Documents = Ownership{
		Name:    "document",
		Model:   &models.Document{},
		Column:  "author_id",
		Counter: counters.NumberOfDocuments,
	}
	Comments = Ownership{
		Name:    "comment",
		Model:   &models.Comment{},
		Column:  "author_id",
		Counter: counters.CommentsCount,
	}
)

// ReassignAll hands every row of the given kind authored by userID to the
// leaver and lowers the former author's counter by the number moved. The
// leaver's own counters are left alone.
func (s Sentinel) ReassignAll(ctx context.Context, tx *store.Store, o Ownership, userID uint) (int64, error) {
	if s.Is(userID) {
		return 0, apperrors.InvariantViolation("the leaver account cannot give up its content")
	}

	moved, err := tx.Reassign(ctx, o.Model, o.Column, userID, s.ID)
	if err != nil {
		return 0, err
	}

	if err := counters.Adjust(ctx, tx, userID, o.Counter, -int(moved)); err != nil {
		return 0, err
	}

	return moved, nil
}

// ReassignOne hands a single row to the leaver. authorID must be the row's
// current author; a row already owned by the leaver counts as deleted.
func (s Sentinel) ReassignOne(ctx context.Context, tx *store.Store, o Ownership, id, authorID uint) error {
	if s.Is(authorID) {
		return apperrors.InvariantViolation("%s %d is already deleted", o.Name, id)
	}

	moved, err := tx.Reassign(ctx, o.Model, o.Column, authorID, s.ID,
		clause.Eq{Column: clause.Column{Name: "id"}, Value: id})
	if err != nil {
		return err
	}
	if moved == 0 {
		return apperrors.NotFound("%s %d by user %d not found", o.Name, id, authorID)
	}

	return counters.Decrement(ctx, tx, authorID, o.Counter)
}
