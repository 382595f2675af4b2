package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/inkwell-dev/inkwell/internal/apperrors"
	"github.com/inkwell-dev/inkwell/internal/models"
	"github.com/inkwell-dev/inkwell/internal/store"
	"github.com/inkwell-dev/inkwell/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMapsMissingRowsToNotFound(t *testing.T) {
	gdb := testutil.OpenDB(t)
	s := store.New(gdb)

	_, err := s.FindDocument(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Equal(t, "document 42 not found", apperrors.MessageOf(err))
}

func TestEdgesRoundTrip(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.OpenDB(t)
	s := store.New(gdb)

	author := testutil.CreateUser(t, gdb, "author")
	fan := testutil.CreateUser(t, gdb, "fan")
	doc := testutil.CreateDocument(t, gdb, author, "hello")

	has, err := s.HasEdge(ctx, store.DocumentLikes, doc.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, s.AddEdge(ctx, store.DocumentLikes, doc.ID, fan.ID))

	users, err := s.EdgeUsers(ctx, store.DocumentLikes, doc.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, fan.ID, users[0].ID)

	removed, err := s.RemoveEdge(ctx, store.DocumentLikes, doc.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.RemoveEdge(ctx, store.DocumentLikes, doc.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestAdjustCounterNeverNegative(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.OpenDB(t)
	s := store.New(gdb)
	user := testutil.CreateUser(t, gdb, "counter")

	require.NoError(t, s.AdjustCounter(ctx, user.ID, "comments_count", 2))
	require.NoError(t, s.AdjustCounter(ctx, user.ID, "comments_count", -1))
	assert.Equal(t, 1, testutil.Reload(t, gdb, user.ID).CommentsCount)

	err := s.AdjustCounter(ctx, user.ID, "comments_count", -2)
	assert.True(t, errors.Is(err, apperrors.ErrInvariantViolation))
	assert.Equal(t, 1, testutil.Reload(t, gdb, user.ID).CommentsCount)

	err = s.AdjustCounter(ctx, 9999, "comments_count", 1)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.OpenDB(t)
	s := store.New(gdb)
	user := testutil.CreateUser(t, gdb, "rollback")

	boom := apperrors.InvariantViolation("boom")
	err := s.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.AdjustCounter(ctx, user.ID, "liked_comments_count", 1); err != nil {
			return err
		}
		return boom
	})

	assert.True(t, errors.Is(err, apperrors.ErrInvariantViolation))
	assert.Equal(t, 0, testutil.Reload(t, gdb, user.ID).LikedCommentsCount)
}

func TestReassignAndDeleteWhere(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.OpenDB(t)
	s := store.New(gdb)

	from := testutil.CreateUser(t, gdb, "from")
	to := testutil.CreateUser(t, gdb, "to")
	testutil.CreateDocument(t, gdb, from, "one")
	testutil.CreateDocument(t, gdb, from, "two")

	moved, err := s.Reassign(ctx, &models.Document{}, "author_id", from.ID, to.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, moved)

	docs, err := s.ListDocumentsByAuthor(ctx, to.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	require.NoError(t, s.Create(ctx, &models.AuthenticationToken{
		AccessToken: "a", RefreshToken: "r", UserID: from.ID, ExpiresAt: time.Now().Add(-time.Minute),
	}))
	require.NoError(t, s.Create(ctx, &models.AuthenticationToken{
		AccessToken: "b", RefreshToken: "s", UserID: from.ID, ExpiresAt: time.Now().Add(time.Hour),
	}))

	expired, err := s.DeleteExpiredTokens(ctx, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, expired)

	deleted, err := s.DeleteWhere(ctx, &models.AuthenticationToken{}, "user_id", from.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)
}
