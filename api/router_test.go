package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/BinLe1988/member-admin/api/handlers"
	"github.com/BinLe1988/member-admin/configs"
	"github.com/BinLe1988/member-admin/database"
	"github.com/BinLe1988/member-admin/pkg/utils"
	"github.com/BinLe1988/member-admin/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Code  int             `json:"code"`
	Msg   string          `json:"msg"`
	Data  json.RawMessage `json:"data"`
	Rows  json.RawMessage `json:"rows"`
	Total int64           `json:"total"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "api.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	hash, err := utils.HashPassword("admin123")
	require.NoError(t, err)
	admins := []configs.AdminUser{
		{Username: "admin", PasswordHash: hash, Permissions: []string{service.AllPermission}},
		{Username: "viewer", PasswordHash: hash, Permissions: []string{"member:list"}},
	}

	log := zap.NewNop()
	jwt := utils.NewJWT("test-secret", 1)
	uploader := utils.NewUploader(t.TempDir(), "/profile", "A")
	members := service.NewMemberService(db, rdb, configs.Member{InitPassword: "123456", ProfileCacheTTL: 60}, log)
	memberAuth := service.NewMemberAuthService(db, rdb, jwt, log)

	h := &Handlers{
		Auth:      handlers.NewAuthHandler(service.NewAuthService(admins, jwt, log), log),
		Member:    handlers.NewMemberHandler(members, uploader, log),
		Profile:   handlers.NewMemberProfileHandler(memberAuth, members, uploader, log),
		Online:    handlers.NewOnlineHandler(service.NewOnlineService(rdb, jwt, log), log),
		Tag:       handlers.NewTagHandler(service.NewTagService(db, log), uploader, log),
		ModelType: handlers.NewModelTypeHandler(service.NewModelTypeService(db, log), log),
		AiModel:   handlers.NewAiModelHandler(service.NewAiModelService(db, log), log),
	}

	router := gin.New()
	SetupRouter(router, h, jwt, memberAuth, uploader)
	return router
}

func do(t *testing.T, router *gin.Engine, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func login(t *testing.T, router *gin.Engine, path string, body any) string {
	t.Helper()
	status, env := do(t, router, http.MethodPost, path, "", body)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, handlers.CodeSuccess, env.Code, env.Msg)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Token
}

func TestRouter_AdminMemberFlow(t *testing.T) {
	router := setupRouter(t)
	token := login(t, router, "/login", gin.H{"username": "admin", "password": "admin123"})

	_, env := do(t, router, http.MethodPost, "/member", token, gin.H{
		"member_name": "alice", "nick_name": "Alice", "password": "secret1", "phonenumber": "13800000001",
	})
	assert.Equal(t, handlers.CodeSuccess, env.Code)
	assert.Equal(t, "新增成功", env.Msg)

	_, env = do(t, router, http.MethodPost, "/member", token, gin.H{
		"member_name": "bob", "nick_name": "Bob", "password": "secret1", "phonenumber": "13800000001",
	})
	assert.Equal(t, handlers.CodeWarning, env.Code)
	assert.Equal(t, "新增会员bob失败，手机号码已存在", env.Msg)

	_, env = do(t, router, http.MethodPost, "/member", token, gin.H{"member_name": "", "nick_name": "x", "password": "secret1"})
	assert.Equal(t, handlers.CodeWarning, env.Code)

	_, env = do(t, router, http.MethodGet, "/member/list?page_num=1&page_size=10", token, nil)
	assert.Equal(t, handlers.CodeSuccess, env.Code)
	assert.Equal(t, int64(1), env.Total)

	_, env = do(t, router, http.MethodGet, "/member/99", token, nil)
	assert.Equal(t, handlers.CodeWarning, env.Code)
	assert.Equal(t, "会员不存在", env.Msg)

	_, env = do(t, router, http.MethodDelete, "/member/1,x", token, nil)
	assert.Equal(t, handlers.CodeWarning, env.Code)

	_, env = do(t, router, http.MethodDelete, "/member/1", token, nil)
	assert.Equal(t, "删除成功", env.Msg)
}

func TestRouter_AuthAndPermission(t *testing.T) {
	router := setupRouter(t)

	status, env := do(t, router, http.MethodGet, "/member/list", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, handlers.CodeUnauthorized, env.Code)

	status, _ = do(t, router, http.MethodPost, "/login", "", gin.H{"username": "admin", "password": "bad"})
	assert.Equal(t, http.StatusOK, status)

	viewer := login(t, router, "/login", gin.H{"username": "viewer", "password": "admin123"})
	status, env = do(t, router, http.MethodGet, "/member/list", viewer, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, handlers.CodeSuccess, env.Code)

	status, env = do(t, router, http.MethodDelete, "/member/1", viewer, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, handlers.CodeForbidden, env.Code)
}

func TestRouter_MemberSessionForceLogout(t *testing.T) {
	router := setupRouter(t)
	admin := login(t, router, "/login", gin.H{"username": "admin", "password": "admin123"})

	_, env := do(t, router, http.MethodPost, "/member", admin, gin.H{"member_name": "alice", "nick_name": "Alice", "password": "secret1"})
	require.Equal(t, handlers.CodeSuccess, env.Code, env.Msg)

	memberToken := login(t, router, "/member/login", gin.H{"member_name": "alice", "password": "secret1"})

	_, env = do(t, router, http.MethodGet, "/member/profile", memberToken, nil)
	assert.Equal(t, handlers.CodeSuccess, env.Code)
	var profile struct {
		MemberName string `json:"member_name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "alice", profile.MemberName)

	_, env = do(t, router, http.MethodGet, "/member/online/list", admin, nil)
	require.Equal(t, handlers.CodeSuccess, env.Code)
	var online []struct {
		TokenID string `json:"token_id"`
	}
	require.NoError(t, json.Unmarshal(env.Rows, &online))
	require.Len(t, online, 1)

	_, env = do(t, router, http.MethodDelete, "/member/online/"+online[0].TokenID, admin, nil)
	assert.Equal(t, "强退成功", env.Msg)

	status, _ := do(t, router, http.MethodGet, "/member/profile", memberToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
