package db

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type txRow struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex"`
}

func memoryConfig(t *testing.T) *Config {
	return &Config{
		Driver:  DriverSQLite,
		DSN:     fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano()),
		LogConf: LogConf{Level: "silent"},
	}
}

func TestInitAndClose(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, Init(ctx, memoryConfig(t)))
	require.NotNil(t, DB())
	assert.Equal(t, DriverSQLite, DB().Driver())
	Close(ctx)
	assert.Nil(t, DB())
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := NewDatastore(context.Background(), &Config{Driver: "oracle"})
	assert.Error(t, err)
}

func TestExecTx(t *testing.T) {
	ctx := context.Background()
	ds, err := NewDatastore(ctx, memoryConfig(t))
	require.NoError(t, err)
	require.NoError(t, ds.DBIns().AutoMigrate(&txRow{}))

	t.Run("commit", func(t *testing.T) {
		err := ds.ExecTx(ctx, func(txCtx context.Context) error {
			return ds.DBWithContext(txCtx).Create(&txRow{Name: "a"}).Error
		})
		require.NoError(t, err)
	})

	t.Run("rollback", func(t *testing.T) {
		boom := errors.New("boom")
		err := ds.ExecTx(ctx, func(txCtx context.Context) error {
			if err := ds.DBWithContext(txCtx).Create(&txRow{Name: "b"}).Error; err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("nested joins outer", func(t *testing.T) {
		err := ds.ExecTx(ctx, func(txCtx context.Context) error {
			return ds.ExecTx(txCtx, func(inner context.Context) error {
				return ds.DBWithContext(inner).Create(&txRow{Name: "c"}).Error
			})
		})
		require.NoError(t, err)
	})

	t.Run("duplicate rejected", func(t *testing.T) {
		err := ds.DBWithContext(ctx).Create(&txRow{Name: "a"}).Error
		assert.Error(t, err)
	})

	var names []string
	require.NoError(t, ds.DBWithContext(ctx).Model(&txRow{}).Order("name").Pluck("name", &names).Error)
	assert.Equal(t, []string{"a", "c"}, names)
}
