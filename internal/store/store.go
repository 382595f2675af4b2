// Package store is the entity store: the only code that talks to gorm.
//
// Every method maps gorm.ErrRecordNotFound to an apperrors NotFound and any
// other driver failure to a PersistenceFailure, so callers branch on kinds
// instead of driver errors. A Store returned inside Transaction is bound to
// that transaction; all of its calls commit or roll back together.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inkwell-dev/inkwell/internal/apperrors"
	"github.com/inkwell-dev/inkwell/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction runs fn inside a single database transaction. Any error
// returned by fn rolls back every write made through tx.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
	if err != nil {
		return apperrors.Persistence("transaction failed", err)
	}
	return nil
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func notFoundOr(err error, kind string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("%s %v not found", kind, id)
	}
	return apperrors.Persistence(fmt.Sprintf("failed to load %s", kind), err)
}

func (s *Store) find(ctx context.Context, dest interface{}, kind string, id uint, preload []string) error {
	q := s.conn(ctx)
	for _, relation := range preload {
		q = q.Preload(relation)
	}
	if err := q.First(dest, id).Error; err != nil {
		return notFoundOr(err, kind, id)
	}
	return nil
}

func (s *Store) FindUser(ctx context.Context, id uint, preload ...string) (*models.User, error) {
	var user models.User
	if err := s.find(ctx, &user, "user", id, preload); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Preload("ProfileImage").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "user", username)
	}
	return &user, nil
}

func (s *Store) FindDocument(ctx context.Context, id uint, preload ...string) (*models.Document, error) {
	var doc models.Document
	if err := s.find(ctx, &doc, "document", id, preload); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) FindComment(ctx context.Context, id uint, preload ...string) (*models.Comment, error) {
	var comment models.Comment
	if err := s.find(ctx, &comment, "comment", id, preload); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *Store) FindFile(ctx context.Context, id uint) (*models.File, error) {
	var file models.File
	if err := s.find(ctx, &file, "file", id, nil); err != nil {
		return nil, err
	}
	return &file, nil
}

func (s *Store) FindToken(ctx context.Context, id uint) (*models.AuthenticationToken, error) {
	var token models.AuthenticationToken
	if err := s.find(ctx, &token, "authentication token", id, nil); err != nil {
		return nil, err
	}
	return &token, nil
}

func (s *Store) FindTokenByAccess(ctx context.Context, accessToken string) (*models.AuthenticationToken, error) {
	var token models.AuthenticationToken
	if err := s.conn(ctx).Where("access_token = ?", accessToken).First(&token).Error; err != nil {
		return nil, notFoundOr(err, "authentication token", "for access token")
	}
	return &token, nil
}

func (s *Store) FindTokenByRefresh(ctx context.Context, refreshToken string) (*models.AuthenticationToken, error) {
	var token models.AuthenticationToken
	if err := s.conn(ctx).Where("refresh_token = ?", refreshToken).First(&token).Error; err != nil {
		return nil, notFoundOr(err, "authentication token", "for refresh token")
	}
	return &token, nil
}

// Exists reports whether a row of model's table has the given primary key
func (s *Store) Exists(ctx context.Context, model interface{}, id uint) (bool, error) {
	var count int64
	if err := s.conn(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperrors.Persistence("failed to check existence", err)
	}
	return count > 0, nil
}

// Create inserts value without touching its associations
func (s *Store) Create(ctx context.Context, value interface{}) error {
	if err := s.conn(ctx).Omit(clause.Associations).Create(value).Error; err != nil {
		return apperrors.Persistence("failed to create record", err)
	}
	return nil
}

// Save updates every column of value without touching its associations
func (s *Store) Save(ctx context.Context, value interface{}) error {
	if err := s.conn(ctx).Omit(clause.Associations).Save(value).Error; err != nil {
		return apperrors.Persistence("failed to save record", err)
	}
	return nil
}

// Updates applies a partial column update to the row identified by model's key
func (s *Store) Updates(ctx context.Context, model interface{}, updates map[string]interface{}) error {
	if err := s.conn(ctx).Model(model).Omit(clause.Associations).Updates(updates).Error; err != nil {
		return apperrors.Persistence("failed to update record", err)
	}
	return nil
}

// DeleteWhere removes every row of model's table whose column equals value
func (s *Store) DeleteWhere(ctx context.Context, model interface{}, column string, value interface{}) (int64, error) {
	res := s.conn(ctx).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).Delete(model)
	if res.Error != nil {
		return 0, apperrors.Persistence(fmt.Sprintf("failed to delete by %s", column), res.Error)
	}
	return res.RowsAffected, nil
}

// Reassign moves column from one value to another on every matching row of
// model's table, narrowed by any extra conditions.
func (s *Store) Reassign(ctx context.Context, model interface{}, column string, from, to uint, conds ...clause.Expression) (int64, error) {
	q := s.conn(ctx).Model(model).Where(clause.Eq{Column: clause.Column{Name: column}, Value: from})
	for _, cond := range conds {
		q = q.Where(cond)
	}
	res := q.Update(column, to)
	if res.Error != nil {
		return 0, apperrors.Persistence(fmt.Sprintf("failed to reassign %s", column), res.Error)
	}
	return res.RowsAffected, nil
}

// AdjustCounter adds delta to a user counter column. The update is guarded
// in SQL so a counter can never drop below zero; a guarded miss is reported
// as an InvariantViolation.
func (s *Store) AdjustCounter(ctx context.Context, userID uint, column string, delta int) error {
	if delta == 0 {
		return nil
	}

	col := clause.Column{Name: column}
	res := s.conn(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Where(clause.Gte{Column: col, Value: -delta}).
		UpdateColumn(column, gorm.Expr("? + ?", col, delta))
	if res.Error != nil {
		return apperrors.Persistence(fmt.Sprintf("failed to update %s", column), res.Error)
	}

	if res.RowsAffected == 0 {
		exists, err := s.Exists(ctx, &models.User{}, userID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.NotFound("user %d not found", userID)
		}
		return apperrors.InvariantViolation("%s of user %d cannot go below zero", column, userID)
	}

	return nil
}

func (s *Store) ListDocumentsByAuthor(ctx context.Context, authorID uint) ([]models.Document, error) {
	var docs []models.Document
	err := s.conn(ctx).Preload("Author").Where("author_id = ?", authorID).Order("created_at DESC").Find(&docs).Error
	if err != nil {
		return nil, apperrors.Persistence("failed to list documents", err)
	}
	return docs, nil
}

func (s *Store) ListCommentsByAuthor(ctx context.Context, authorID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.conn(ctx).Preload("Author").Where("author_id = ?", authorID).Order("created_at DESC").Find(&comments).Error
	if err != nil {
		return nil, apperrors.Persistence("failed to list comments", err)
	}
	return comments, nil
}

func (s *Store) ListFiles(ctx context.Context) ([]models.File, error) {
	var files []models.File
	if err := s.conn(ctx).Order("id").Find(&files).Error; err != nil {
		return nil, apperrors.Persistence("failed to list files", err)
	}
	return files, nil
}

// FilePathsOwnedBy returns the stored paths of every file owned by userID
func (s *Store) FilePathsOwnedBy(ctx context.Context, userID uint) ([]string, error) {
	var paths []string
	if err := s.conn(ctx).Model(&models.File{}).Where("user_id = ?", userID).Pluck("saved_path", &paths).Error; err != nil {
		return nil, apperrors.Persistence("failed to list user files", err)
	}
	return paths, nil
}

// DeleteExpiredTokens removes authentication tokens that expired before now
func (s *Store) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	res := s.conn(ctx).Where("expires_at < ?", now).Delete(&models.AuthenticationToken{})
	if res.Error != nil {
		return 0, apperrors.Persistence("failed to delete expired tokens", res.Error)
	}
	return res.RowsAffected, nil
}
