package community

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/inkwell-dev/inkwell/internal/apperrors"
	"github.com/inkwell-dev/inkwell/internal/auth"
	"github.com/inkwell-dev/inkwell/internal/cascade"
	"github.com/inkwell-dev/inkwell/internal/models"
	"github.com/inkwell-dev/inkwell/internal/store"
	"go.uber.org/zap"
)

const minPasswordLength = 8

// Profile holds the self-described fields of a member
type Profile struct {
	Fullname          string
	Generation        int
	DateOfBirth       *time.Time
	Department        string
	StudentNumber     string
	Email             string
	PhoneNumber       string
	ProfileText       string
	FavoriteComic     string
	FavoriteCharacter string
}

type NewUser struct {
	Username string
	Password string
	Profile
}

// UserPatch changes only the fields that are set
type UserPatch struct {
	Fullname          *string
	Generation        *int
	DateOfBirth       *time.Time
	Department        *string
	StudentNumber     *string
	Email             *string
	PhoneNumber       *string
	ProfileText       *string
	FavoriteComic     *string
	FavoriteCharacter *string
	Password          *string
}

func (p UserPatch) updates() (map[string]interface{}, error) {
	updates := make(map[string]interface{})

	set := func(column string, v *string) {
		if v != nil {
			updates[column] = strings.TrimSpace(*v)
		}
	}
	set("fullname", p.Fullname)
	set("department", p.Department)
	set("student_number", p.StudentNumber)
	set("email", p.Email)
	set("phone_number", p.PhoneNumber)
	set("profile_text", p.ProfileText)
	set("favorite_comic", p.FavoriteComic)
	set("favorite_character", p.FavoriteCharacter)

	if p.Generation != nil {
		updates["generation"] = *p.Generation
	}
	if p.DateOfBirth != nil {
		updates["date_of_birth"] = *p.DateOfBirth
	}

	if p.Password != nil {
		if len(*p.Password) < minPasswordLength {
			return nil, apperrors.Validation("password must be at least %d characters", minPasswordLength)
		}
		hash, err := auth.HashPassword(*p.Password)
		if err != nil {
			return nil, apperrors.Persistence("failed to hash password", err)
		}
		updates["password_hash"] = hash
	}

	return updates, nil
}

// CreateUser registers a member, optionally with a profile image
func (s *Service) CreateUser(ctx context.Context, in NewUser, image *Upload) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, apperrors.Validation("username is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperrors.Validation("password must be at least %d characters", minPasswordLength)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.Persistence("failed to hash password", err)
	}

	p := in.Profile
	user := &models.User{
		Username:          username,
		PasswordHash:      hash,
		Fullname:          strings.TrimSpace(p.Fullname),
		Generation:        p.Generation,
		DateOfBirth:       p.DateOfBirth,
		Department:        p.Department,
		StudentNumber:     p.StudentNumber,
		Email:             strings.ToLower(strings.TrimSpace(p.Email)),
		PhoneNumber:       p.PhoneNumber,
		ProfileText:       p.ProfileText,
		FavoriteComic:     p.FavoriteComic,
		FavoriteCharacter: p.FavoriteCharacter,
	}

	insert := func(tx *store.Store) error {
		_, err := tx.FindUserByUsername(ctx, username)
		if err == nil {
			return apperrors.Conflict("username %s is already taken", username)
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return tx.Create(ctx, user)
	}

	if image == nil {
		err = s.store.Transaction(ctx, insert)
	} else {
		err = s.withPayload(*image, PurposeProfileImage, func(f *models.File) error {
			return s.store.Transaction(ctx, func(tx *store.Store) error {
				if err := insert(tx); err != nil {
					return err
				}
				f.UserID = &user.ID
				return tx.Create(ctx, f)
			})
		})
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("User created", zap.Uint("user_id", user.ID), zap.String("username", username))
	return s.GetUser(ctx, user.ID)
}

func (s *Service) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	return s.store.FindUser(ctx, userID, "ProfileImage")
}

func (s *Service) UpdateUser(ctx context.Context, userID uint, patch UserPatch) (*models.User, error) {
	updates, err := patch.updates()
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, apperrors.Validation("no valid fields to update")
	}

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		user, err := tx.FindUser(ctx, userID)
		if err != nil {
			return err
		}
		return tx.Updates(ctx, user, updates)
	})
	if err != nil {
		return nil, err
	}

	return s.GetUser(ctx, userID)
}

// SetProfileImage replaces the user's profile image. The previous payload
// is removed once the new row is committed.
func (s *Service) SetProfileImage(ctx context.Context, userID uint, image Upload) (*models.User, error) {
	var previous []string
	err := s.withPayload(image, PurposeProfileImage, func(f *models.File) error {
		return s.store.Transaction(ctx, func(tx *store.Store) error {
			if _, err := tx.FindUser(ctx, userID); err != nil {
				return err
			}

			paths, err := tx.FilePathsOwnedBy(ctx, userID)
			if err != nil {
				return err
			}
			if _, err := tx.DeleteWhere(ctx, &models.File{}, "user_id", userID); err != nil {
				return err
			}

			f.UserID = &userID
			if err := tx.Create(ctx, f); err != nil {
				return err
			}
			previous = paths
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.removePayloads(previous)
	return s.GetUser(ctx, userID)
}

func (s *Service) ListUserDocuments(ctx context.Context, userID uint) ([]models.Document, error) {
	if _, err := s.store.FindUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListDocumentsByAuthor(ctx, userID)
}

func (s *Service) ListUserComments(ctx context.Context, userID uint) ([]models.Comment, error) {
	if _, err := s.store.FindUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListCommentsByAuthor(ctx, userID)
}

// DeleteUser removes the account and everything hanging off it in one
// transaction. Authored documents and comments survive under the leaver
// account. Stored payloads of the user's files are removed after commit.
func (s *Service) DeleteUser(ctx context.Context, userID uint) (*cascade.Result, error) {
	var result *cascade.Result
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		result, err = s.cascade.Run(ctx, tx, userID)
		return err
	})
	if err != nil {
		s.log.Warn("User deletion aborted", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.removePayloads(result.FilePaths)
	s.log.Info("User deleted",
		zap.Uint("user_id", userID),
		zap.Int64("documents", result.Affected["documents"]),
		zap.Int64("comments", result.Affected["comments"]),
	)
	return result, nil
}

// DeleteAccount is DeleteUser guarded by the account password
func (s *Service) DeleteAccount(ctx context.Context, userID uint, password string) (*cascade.Result, error) {
	user, err := s.store.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.Validation("incorrect password")
	}
	return s.DeleteUser(ctx, userID)
}
