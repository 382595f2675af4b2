package community

import (
	"context"

	"github.com/inkwell-dev/inkwell/internal/likes"
	"github.com/inkwell-dev/inkwell/internal/models"
	"github.com/inkwell-dev/inkwell/internal/store"
)

func (s *Service) LikeComment(ctx context.Context, commentID, userID uint) ([]models.User, error) {
	return s.toggle(ctx, likes.Comment, commentID, userID, true)
}

func (s *Service) UnlikeComment(ctx context.Context, commentID, userID uint) ([]models.User, error) {
	return s.toggle(ctx, likes.Comment, commentID, userID, false)
}

func (s *Service) LikeDocument(ctx context.Context, documentID, userID uint) ([]models.User, error) {
	return s.toggle(ctx, likes.Document, documentID, userID, true)
}

func (s *Service) UnlikeDocument(ctx context.Context, documentID, userID uint) ([]models.User, error) {
	return s.toggle(ctx, likes.Document, documentID, userID, false)
}

func (s *Service) toggle(ctx context.Context, target likes.Target, targetID, userID uint, like bool) ([]models.User, error) {
	var (
		likers     []models.User
		documentID uint
	)

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		if like {
			likers, err = likes.Add(ctx, tx, target, targetID, userID)
		} else {
			likers, err = likes.Remove(ctx, tx, target, targetID, userID)
		}
		if err != nil {
			return err
		}

		documentID, err = s.documentOf(ctx, tx, target, targetID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if like {
		s.notify(documentID, target.Kind+" liked")
	} else {
		s.notify(documentID, target.Kind+" unliked")
	}
	return likers, nil
}

func (s *Service) documentOf(ctx context.Context, tx *store.Store, target likes.Target, targetID uint) (uint, error) {
	if target.Kind != likes.Comment.Kind {
		return targetID, nil
	}
	comment, err := tx.FindComment(ctx, targetID)
	if err != nil {
		return 0, err
	}
	return comment.RootDocumentID, nil
}
