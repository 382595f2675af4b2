// Package testutil opens throwaway entity stores for package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/inkwell-dev/inkwell/db"
	"github.com/inkwell-dev/inkwell/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var counter atomic.Int64

// OpenDB returns a migrated in-memory sqlite database private to t
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, counter.Add(1))

	gdb, err := db.ConnectDatabase("sqlite", dsn, gormlogger.Silent)
	require.NoError(t, err)
	require.NoError(t, db.MigrateDatabase(gdb))

	t.Cleanup(func() {
		_ = db.Close(gdb)
	})

	return gdb
}

// CreateUser inserts a user with password "password123"
func CreateUser(t *testing.T, gdb *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{Username: username, PasswordHash: string(hash)}
	require.NoError(t, gdb.Create(user).Error)
	return user
}

func CreateDocument(t *testing.T, gdb *gorm.DB, author *models.User, text string) *models.Document {
	t.Helper()

	doc := &models.Document{Title: text, Text: text, AuthorID: author.ID}
	require.NoError(t, gdb.Omit("Author").Create(doc).Error)
	return doc
}

// Reload fetches the current row for a user
func Reload(t *testing.T, gdb *gorm.DB, id uint) models.User {
	t.Helper()

	var user models.User
	require.NoError(t, gdb.First(&user, id).Error)
	return user
}
