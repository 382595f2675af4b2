package cascade_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/inkwell-dev/inkwell/internal/apperrors"
	"github.com/inkwell-dev/inkwell/internal/cascade"
	"github.com/inkwell-dev/inkwell/internal/counters"
	"github.com/inkwell-dev/inkwell/internal/leaver"
	"github.com/inkwell-dev/inkwell/internal/likes"
	"github.com/inkwell-dev/inkwell/internal/models"
	"github.com/inkwell-dev/inkwell/internal/store"
	"github.com/inkwell-dev/inkwell/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	gdb      *gorm.DB
	store    *store.Store
	sentinel leaver.Sentinel
	victim   *models.User
	other    *models.User
	doc      *models.Document
	comment  *models.Comment
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	gdb := testutil.OpenDB(t)
	s := store.New(gdb)

	sentinel, err := leaver.Resolve(ctx, s, "leaver")
	require.NoError(t, err)

	victim := testutil.CreateUser(t, gdb, "victim")
	other := testutil.CreateUser(t, gdb, "other")

	doc := testutil.CreateDocument(t, gdb, victim, "victim's doc")
	require.NoError(t, counters.Increment(ctx, s, victim.ID, counters.NumberOfDocuments))

	otherDoc := testutil.CreateDocument(t, gdb, other, "other's doc")
	comment := &models.Comment{Content: "hi", AuthorID: victim.ID, RootDocumentID: otherDoc.ID}
	require.NoError(t, s.Create(ctx, comment))
	require.NoError(t, counters.Increment(ctx, s, victim.ID, counters.CommentsCount))

	otherComment := &models.Comment{Content: "yo", AuthorID: other.ID, RootDocumentID: doc.ID}
	require.NoError(t, s.Create(ctx, otherComment))

	_, err = likes.Add(ctx, s, likes.Document, otherDoc.ID, victim.ID)
	require.NoError(t, err)
	_, err = likes.Add(ctx, s, likes.Comment, otherComment.ID, victim.ID)
	require.NoError(t, err)
	_, err = likes.Add(ctx, s, likes.Comment, comment.ID, other.ID)
	require.NoError(t, err)

	victimID := victim.ID
	require.NoError(t, s.Create(ctx, &models.File{SavedPath: "uploads/victim.png", UserID: &victimID}))
	require.NoError(t, s.Create(ctx, &models.AuthenticationToken{
		AccessToken: "a", RefreshToken: "r", UserID: victim.ID, ExpiresAt: time.Now().Add(time.Hour),
	}))

	return fixture{gdb: gdb, store: s, sentinel: sentinel, victim: victim, other: other, doc: doc, comment: comment}
}

func count(t *testing.T, gdb *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func TestUserDeletionCascade(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	o := cascade.NewOrchestrator(cascade.UserDeletion, f.sentinel, zap.NewNop())

	var result *cascade.Result
	err := f.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		result, err = o.Run(ctx, tx, f.victim.ID)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"uploads/victim.png"}, result.FilePaths)
	assert.EqualValues(t, 1, result.Affected["documents"])
	assert.EqualValues(t, 1, result.Affected["comments"])
	assert.EqualValues(t, 1, result.Affected["comment likes"])

	assert.Zero(t, count(t, f.gdb, &models.Document{}, "author_id = ?", f.victim.ID))
	assert.Zero(t, count(t, f.gdb, &models.Comment{}, "author_id = ?", f.victim.ID))
	assert.EqualValues(t, 1, count(t, f.gdb, &models.Document{}, "author_id = ?", f.sentinel.ID))
	assert.EqualValues(t, 1, count(t, f.gdb, &models.Comment{}, "author_id = ?", f.sentinel.ID))
	assert.Zero(t, count(t, f.gdb, &models.File{}, "user_id = ?", f.victim.ID))
	assert.Zero(t, count(t, f.gdb, &models.AuthenticationToken{}, "user_id = ?", f.victim.ID))
	assert.Zero(t, count(t, f.gdb, &models.User{}, "id = ?", f.victim.ID))

	// likes on the victim's former content survive the reassignment
	likers, err := likes.Likers(ctx, f.store, likes.Comment, f.comment.ID)
	require.NoError(t, err)
	require.Len(t, likers, 1)
	assert.Equal(t, f.other.ID, likers[0].ID)

	sentinel := testutil.Reload(t, f.gdb, f.sentinel.ID)
	assert.Zero(t, sentinel.CommentsCount)
	assert.Zero(t, sentinel.NumberOfDocuments)
}

func TestCascadeAbortsAsAWhole(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	steps := append([]cascade.Step{}, cascade.UserDeletion[:4]...)
	steps = append(steps, cascade.Step{Name: "broken", Action: cascade.Delete, Model: &models.File{}, Column: "no_such_column"})
	o := cascade.NewOrchestrator(steps, f.sentinel, zap.NewNop())

	err := f.store.Transaction(ctx, func(tx *store.Store) error {
		_, err := o.Run(ctx, tx, f.victim.ID)
		return err
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrPersistenceFailure))

	victim := testutil.Reload(t, f.gdb, f.victim.ID)
	assert.Equal(t, 1, victim.CommentsCount)
	assert.Equal(t, 1, victim.NumberOfDocuments)
	assert.Equal(t, 1, victim.LikedCommentsCount)
	assert.EqualValues(t, 1, count(t, f.gdb, &models.Document{}, "author_id = ?", f.victim.ID))
	assert.EqualValues(t, 1, count(t, f.gdb, &models.Comment{}, "author_id = ?", f.victim.ID))
}

func TestSentinelAndMissingUsers(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	o := cascade.NewOrchestrator(cascade.UserDeletion, f.sentinel, zap.NewNop())

	_, err := o.Run(ctx, f.store, f.sentinel.ID)
	assert.True(t, errors.Is(err, apperrors.ErrInvariantViolation))

	_, err = o.Run(ctx, f.store, 4242)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
