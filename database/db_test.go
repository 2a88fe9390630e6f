package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/BinLe1988/member-admin/configs"
	"github.com/BinLe1988/member-admin/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitialize_SQLite(t *testing.T) {
	cfg := configs.Database{
		Driver:      "sqlite",
		Path:        filepath.Join(t.TempDir(), "data", "test.db"),
		AutoMigrate: true,
	}
	db, err := Initialize(cfg, zap.NewNop())
	require.NoError(t, err)
	defer Close(db, zap.NewNop())

	for _, table := range []any{&models.Member{}, &models.Tag{}, &models.ScaleTag{}, &models.ModelType{}, &models.AiModel{}} {
		assert.True(t, db.Migrator().HasTable(table))
	}
}

func TestInitialize_UnsupportedDriver(t *testing.T) {
	_, err := Initialize(configs.Database{Driver: "oracle"}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(context.Background(), configs.Redis{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	mr.CheckGet(t, "k", "v")
}
