package community

import (
	"context"
	"strings"

	"github.com/inkwell-dev/inkwell/internal/apperrors"
	"github.com/inkwell-dev/inkwell/internal/counters"
	"github.com/inkwell-dev/inkwell/internal/leaver"
	"github.com/inkwell-dev/inkwell/internal/likes"
	"github.com/inkwell-dev/inkwell/internal/models"
	"github.com/inkwell-dev/inkwell/internal/store"
	"github.com/inkwell-dev/inkwell/internal/threading"
	"go.uber.org/zap"
)

type NewComment struct {
	AuthorID        uint
	DocumentID      *uint
	ParentCommentID *uint
	Content         string
}

// CreateComment posts a comment on a document, or a reply when a parent is
// named. The author's comment counter moves with the insert.
func (s *Service) CreateComment(ctx context.Context, in NewComment) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperrors.Validation("comment content is required")
	}

	var created *models.Comment
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		root, err := threading.Resolve(ctx, tx, in.DocumentID, in.ParentCommentID)
		if err != nil {
			return err
		}

		if _, err := tx.FindUser(ctx, in.AuthorID); err != nil {
			return err
		}

		comment := &models.Comment{Content: content, AuthorID: in.AuthorID}
		root.Apply(comment)

		if err := tx.Create(ctx, comment); err != nil {
			return err
		}
		if err := counters.Increment(ctx, tx, in.AuthorID, counters.CommentsCount); err != nil {
			return err
		}

		created, err = tx.FindComment(ctx, comment.ID, "Author")
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Comment created",
		zap.Uint("comment_id", created.ID),
		zap.Uint("document_id", created.RootDocumentID),
		zap.Uint("author_id", created.AuthorID),
	)
	s.notify(created.RootDocumentID, "comment created")

	return created, nil
}

// DeleteComment hands the comment to the leaver account so its thread stays
// intact. Only the author may delete it.
func (s *Service) DeleteComment(ctx context.Context, actorID, commentID uint) error {
	var documentID uint
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		comment, err := tx.FindComment(ctx, commentID)
		if err != nil {
			return err
		}
		if s.sentinel.Is(comment.AuthorID) {
			return apperrors.InvariantViolation("comment %d is already deleted", commentID)
		}
		if comment.AuthorID != actorID {
			return apperrors.Forbidden("only the author can delete comment %d", commentID)
		}

		documentID = comment.RootDocumentID
		return s.sentinel.ReassignOne(ctx, tx, leaver.Comments, commentID, comment.AuthorID)
	})
	if err != nil {
		return err
	}

	s.notify(documentID, "comment deleted")
	return nil
}

// GetComment loads a comment with its author, thread position, replies and likers
func (s *Service) GetComment(ctx context.Context, commentID uint) (*models.Comment, error) {
	return s.store.FindComment(ctx, commentID,
		"Author", "RootDocument", "RootComment", "Replies", "Replies.Author", "LikedUsers")
}

func (s *Service) GetCommentLikes(ctx context.Context, commentID uint) ([]models.User, error) {
	return likes.Likers(ctx, s.store, likes.Comment, commentID)
}
