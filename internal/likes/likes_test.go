package likes_test

import (
	"context"
	"errors"
	"testing"

	"github.com/inkwell-dev/inkwell/internal/apperrors"
	"github.com/inkwell-dev/inkwell/internal/likes"
	"github.com/inkwell-dev/inkwell/internal/models"
	"github.com/inkwell-dev/inkwell/internal/store"
	"github.com/inkwell-dev/inkwell/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedComment(t *testing.T, gdb *gorm.DB) (*models.User, *models.Comment) {
	t.Helper()

	author := testutil.CreateUser(t, gdb, "author")
	doc := testutil.CreateDocument(t, gdb, author, "doc")
	comment := &models.Comment{Content: "first", AuthorID: author.ID, RootDocumentID: doc.ID}
	require.NoError(t, store.New(gdb).Create(context.Background(), comment))
	return author, comment
}

func TestAddCommentLikeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.OpenDB(t)
	s := store.New(gdb)
	_, comment := seedComment(t, gdb)
	fan := testutil.CreateUser(t, gdb, "fan")

	likers, err := likes.Add(ctx, s, likes.Comment, comment.ID, fan.ID)
	require.NoError(t, err)
	require.Len(t, likers, 1)
	assert.Equal(t, fan.ID, likers[0].ID)

	likers, err = likes.Add(ctx, s, likes.Comment, comment.ID, fan.ID)
	require.NoError(t, err)
	assert.Len(t, likers, 1)

	assert.Equal(t, 1, testutil.Reload(t, gdb, fan.ID).LikedCommentsCount)
}

func TestRemoveMissingEdgeFails(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.OpenDB(t)
	s := store.New(gdb)
	_, comment := seedComment(t, gdb)
	fan := testutil.CreateUser(t, gdb, "fan")

	_, err := likes.Add(ctx, s, likes.Comment, comment.ID, fan.ID)
	require.NoError(t, err)

	likers, err := likes.Remove(ctx, s, likes.Comment, comment.ID, fan.ID)
	require.NoError(t, err)
	assert.Empty(t, likers)
	assert.Equal(t, 0, testutil.Reload(t, gdb, fan.ID).LikedCommentsCount)

	_, err = likes.Remove(ctx, s, likes.Comment, comment.ID, fan.ID)
	assert.True(t, errors.Is(err, apperrors.ErrInvariantViolation))
	assert.Equal(t, 0, testutil.Reload(t, gdb, fan.ID).LikedCommentsCount)
}

func TestDocumentLikesHaveNoCounter(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.OpenDB(t)
	s := store.New(gdb)
	author := testutil.CreateUser(t, gdb, "author")
	doc := testutil.CreateDocument(t, gdb, author, "doc")

	likers, err := likes.Add(ctx, s, likes.Document, doc.ID, author.ID)
	require.NoError(t, err)
	assert.Len(t, likers, 1)

	reloaded := testutil.Reload(t, gdb, author.ID)
	assert.Equal(t, 0, reloaded.LikedCommentsCount)

	_, err = likes.Remove(ctx, s, likes.Document, doc.ID, author.ID)
	require.NoError(t, err)
}

func TestMissingTargetOrUser(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.OpenDB(t)
	s := store.New(gdb)
	user := testutil.CreateUser(t, gdb, "user")

	_, err := likes.Add(ctx, s, likes.Document, 404, user.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	doc := testutil.CreateDocument(t, gdb, user, "doc")
	_, err = likes.Add(ctx, s, likes.Document, doc.ID, 404)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	_, err = likes.Likers(ctx, s, likes.Comment, 404)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestUnlinkUserResetsCounter(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.OpenDB(t)
	s := store.New(gdb)
	_, comment := seedComment(t, gdb)
	fan := testutil.CreateUser(t, gdb, "fan")

	_, err := likes.Add(ctx, s, likes.Comment, comment.ID, fan.ID)
	require.NoError(t, err)

	removed, err := likes.UnlinkUser(ctx, s, likes.Comment, fan.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
	assert.Equal(t, 0, testutil.Reload(t, gdb, fan.ID).LikedCommentsCount)

	likers, err := likes.Likers(ctx, s, likes.Comment, comment.ID)
	require.NoError(t, err)
	assert.Empty(t, likers)
}
