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
	"go.uber.org/zap"
)

func (s *Service) CreateDocument(ctx context.Context, authorID uint, title, text string) (*models.Document, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.Validation("document text is required")
	}

	var created *models.Document
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := tx.FindUser(ctx, authorID); err != nil {
			return err
		}

		doc := &models.Document{Title: strings.TrimSpace(title), Text: text, AuthorID: authorID}
		if err := tx.Create(ctx, doc); err != nil {
			return err
		}
		if err := counters.Increment(ctx, tx, authorID, counters.NumberOfDocuments); err != nil {
			return err
		}

		var err error
		created, err = tx.FindDocument(ctx, doc.ID, "Author")
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Document created", zap.Uint("document_id", created.ID), zap.Uint("author_id", authorID))
	return created, nil
}

// GetDocument loads a document with its author, comment thread and likers
func (s *Service) GetDocument(ctx context.Context, documentID uint) (*models.Document, error) {
	return s.store.FindDocument(ctx, documentID, "Author", "Comments", "Comments.Author", "LikedUsers")
}

// DeleteDocument hands the document to the leaver account. Its comments and
// likes stay where they are.
func (s *Service) DeleteDocument(ctx context.Context, actorID, documentID uint) error {
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		doc, err := tx.FindDocument(ctx, documentID)
		if err != nil {
			return err
		}
		if s.sentinel.Is(doc.AuthorID) {
			return apperrors.InvariantViolation("document %d is already deleted", documentID)
		}
		if doc.AuthorID != actorID {
			return apperrors.Forbidden("only the author can delete document %d", documentID)
		}

		return s.sentinel.ReassignOne(ctx, tx, leaver.Documents, documentID, doc.AuthorID)
	})
	if err != nil {
		return err
	}

	s.notify(documentID, "document deleted")
	return nil
}

func (s *Service) GetDocumentLikes(ctx context.Context, documentID uint) ([]models.User, error) {
	return likes.Likers(ctx, s.store, likes.Document, documentID)
}

// EnsureDocument returns NotFound unless documentID exists
func (s *Service) EnsureDocument(ctx context.Context, documentID uint) error {
	exists, err := s.store.Exists(ctx, &models.Document{}, documentID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFound("document %d not found", documentID)
	}
	return nil
}
