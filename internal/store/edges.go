package store

import (
	"context"

	"github.com/inkwell-dev/inkwell/internal/apperrors"
	"github.com/inkwell-dev/inkwell/internal/models"
	"gorm.io/gorm/clause"
)

// Edge names a user membership join table
type Edge struct {
	JoinTable   string
	OwnerColumn string
	UserColumn  string
}

// Join tables created by the many2many tags on Document and Comment
var (
	DocumentLikes = Edge{JoinTable: "document_liked_users", OwnerColumn: "document_id", UserColumn: "user_id"}
	CommentLikes  = Edge{JoinTable: "comment_liked_users", OwnerColumn: "comment_id", UserColumn: "user_id"}
)

func (e Edge) owner(id uint) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: e.OwnerColumn}, Value: id}
}

func (e Edge) user(id uint) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: e.UserColumn}, Value: id}
}

func (s *Store) HasEdge(ctx context.Context, e Edge, ownerID, userID uint) (bool, error) {
	var count int64
	err := s.conn(ctx).Table(e.JoinTable).Where(e.owner(ownerID)).Where(e.user(userID)).Count(&count).Error
	if err != nil {
		return false, apperrors.Persistence("failed to check "+e.JoinTable, err)
	}
	return count > 0, nil
}

func (s *Store) AddEdge(ctx context.Context, e Edge, ownerID, userID uint) error {
	err := s.conn(ctx).Table(e.JoinTable).Create(map[string]interface{}{
		e.OwnerColumn: ownerID,
		e.UserColumn:  userID,
	}).Error
	if err != nil {
		return apperrors.Persistence("failed to insert into "+e.JoinTable, err)
	}
	return nil
}

// RemoveEdge deletes a single membership and reports whether it existed
func (s *Store) RemoveEdge(ctx context.Context, e Edge, ownerID, userID uint) (bool, error) {
	res := s.conn(ctx).Exec("DELETE FROM ? WHERE ? = ? AND ? = ?",
		clause.Table{Name: e.JoinTable},
		clause.Column{Name: e.OwnerColumn}, ownerID,
		clause.Column{Name: e.UserColumn}, userID,
	)
	if res.Error != nil {
		return false, apperrors.Persistence("failed to delete from "+e.JoinTable, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// RemoveEdgesOfUser deletes every membership held by userID
func (s *Store) RemoveEdgesOfUser(ctx context.Context, e Edge, userID uint) (int64, error) {
	res := s.conn(ctx).Exec("DELETE FROM ? WHERE ? = ?",
		clause.Table{Name: e.JoinTable},
		clause.Column{Name: e.UserColumn}, userID,
	)
	if res.Error != nil {
		return 0, apperrors.Persistence("failed to delete from "+e.JoinTable, res.Error)
	}
	return res.RowsAffected, nil
}

// EdgeUsers loads the users holding a membership on ownerID, ordered by id
func (s *Store) EdgeUsers(ctx context.Context, e Edge, ownerID uint) ([]models.User, error) {
	members := s.conn(ctx).Table(e.JoinTable).Select(e.UserColumn).Where(e.owner(ownerID))

	users := []models.User{}
	if err := s.conn(ctx).Preload("ProfileImage").Where("id IN (?)", members).Order("id").Find(&users).Error; err != nil {
		return nil, apperrors.Persistence("failed to load "+e.JoinTable, err)
	}
	return users, nil
}
