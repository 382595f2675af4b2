package threading

import (
	"context"

	"github.com/inkwell-dev/inkwell/internal/apperrors"
	"github.com/inkwell-dev/inkwell/internal/models"
	"github.com/inkwell-dev/inkwell/internal/store"
)

// Root is where a new comment hangs: always a document, plus the top-level
// comment it replies to when it is a reply.
type Root struct {
	DocumentID uint
	CommentID  *uint
}

// Resolve finds the root for a new comment. A named parent wins over any
// document reference, so a reply can never land in a different document
// than its parent. Replying to a reply attaches to that reply's own root,
// keeping threads two levels deep.
func Resolve(ctx context.Context, tx *store.Store, documentID, parentCommentID *uint) (Root, error) {
	if parentCommentID != nil {
		parent, err := tx.FindComment(ctx, *parentCommentID)
		if err != nil {
			return Root{}, err
		}

		rootCommentID := parent.ID
		if parent.RootCommentID != nil {
			rootCommentID = *parent.RootCommentID
		}

		return Root{DocumentID: parent.RootDocumentID, CommentID: &rootCommentID}, nil
	}

	if documentID == nil {
		return Root{}, apperrors.NotFound("comment needs a document or a parent comment")
	}

	exists, err := tx.Exists(ctx, &models.Document{}, *documentID)
	if err != nil {
		return Root{}, err
	}
	if !exists {
		return Root{}, apperrors.NotFound("document %d not found", *documentID)
	}

	return Root{DocumentID: *documentID}, nil
}

// Apply copies the resolved root onto comment
func (r Root) Apply(comment *models.Comment) {
	comment.RootDocumentID = r.DocumentID
	comment.RootCommentID = r.CommentID
}

// IsReply reports whether the root places the comment under another comment
func (r Root) IsReply() bool {
	return r.CommentID != nil
}
