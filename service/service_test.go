package service

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/BinLe1988/member-admin/configs"
	"github.com/BinLe1988/member-admin/database"
	"github.com/BinLe1988/member-admin/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db  *gorm.DB
	mr  *miniredis.Miniredis
	rdb *redis.Client
	jwt *utils.JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "service.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return &testEnv{db: db, mr: mr, rdb: rdb, jwt: utils.NewJWT("test-secret", 1)}
}

func (e *testEnv) memberService() *MemberService {
	return NewMemberService(e.db, e.rdb, configs.Member{InitPassword: "123456", ProfileCacheTTL: 3600}, zap.NewNop())
}

func ptr[T any](v T) *T {
	return &v
}

// requireServiceError 断言为业务异常并返回消息
func requireServiceError(t *testing.T, err error) string {
	t.Helper()
	var se *ServiceError
	require.True(t, errors.As(err, &se), "expected ServiceError, got %v", err)
	return se.Message
}
