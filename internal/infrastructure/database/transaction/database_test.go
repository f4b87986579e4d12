package transaction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type note struct {
	ID   uint `gorm:"primaryKey"`
	Text string
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&note{}))
	return db
}

func TestRunInTxCommitsAndRollsBack(t *testing.T) {
	db := openDB(t)
	txdb := NewDatabase(db)
	ctx := context.Background()

	require.NoError(t, txdb.RunInTx(ctx, func(ctx context.Context) error {
		return txdb.GetTx(ctx).Create(&note{Text: "kept"}).Error
	}))

	err := txdb.RunInTx(ctx, func(ctx context.Context) error {
		if err := txdb.GetTx(ctx).Create(&note{Text: "dropped"}).Error; err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.EqualError(t, err, "abort")

	var texts []string
	require.NoError(t, db.Model(&note{}).Order("id").Pluck("text", &texts).Error)
	assert.Equal(t, []string{"kept"}, texts)
}

func TestRunInTxJoinsOuterTransaction(t *testing.T) {
	db := openDB(t)
	txdb := NewDatabase(db)

	err := txdb.RunInTx(context.Background(), func(ctx context.Context) error {
		outer := txdb.GetTx(ctx)
		return txdb.RunInTx(ctx, func(inner context.Context) error {
			assert.Same(t, outer.Statement.ConnPool, txdb.GetTx(inner).Statement.ConnPool)
			return nil
		})
	})
	require.NoError(t, err)
}
