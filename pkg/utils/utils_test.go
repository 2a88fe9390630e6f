package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_AdminToken(t *testing.T) {
	j := NewJWT("secret", 1)

	token, err := j.GenerateToken("admin", []string{"*:*:*"})
	require.NoError(t, err)

	claims, err := j.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.UserName)
	assert.Equal(t, []string{"*:*:*"}, claims.Permissions)

	_, err = NewJWT("other", 1).ParseToken(token)
	assert.Error(t, err)

	// 管理员令牌不能当作会员会话使用
	_, err = j.ParseSessionToken(token)
	assert.Error(t, err)
}

func TestJWT_SessionToken(t *testing.T) {
	j := NewJWT("secret", 2)

	token, err := j.GenerateSessionToken(SessionClaims{
		SessionID:  "sid-1",
		MemberID:   7,
		MemberName: "alice",
		MemberLoginInfo: MemberLoginInfo{
			IPAddr:    "127.0.0.1",
			LoginTime: "2024-01-02 03:04:05",
		},
	})
	require.NoError(t, err)

	claims, err := j.ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, "sid-1", claims.ID)
	assert.Equal(t, int64(7), claims.MemberID)
	assert.Equal(t, "127.0.0.1", claims.MemberLoginInfo.IPAddr)
	assert.Equal(t, 2*time.Hour, j.Expiration())

	_, err = j.ParseToken(token)
	assert.Error(t, err)
}

func TestJWT_Expired(t *testing.T) {
	j := NewJWT("secret", 1)
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserName: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectAdmin,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	token, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = j.ParseToken(token)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hashed, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hashed, "admin123"))
	assert.False(t, CheckPassword(hashed, "admin124"))
}

func TestUploader_SaveAvatar(t *testing.T) {
	root := t.TempDir()
	u := NewUploader(root, "/profile", "A")
	u.now = func() time.Time { return time.Date(2024, 3, 9, 10, 11, 12, 0, time.Local) }

	url, err := u.SaveAvatar("avatar", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/profile/avatar/2024/03/09/avatar_20240309101112A"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	rel := strings.TrimPrefix(url, "/profile/")
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("a.PNG"))
	assert.True(t, IsImage("b.jpeg"))
	assert.False(t, IsImage("c.exe"))
}

func TestParseUserAgent(t *testing.T) {
	browser, osName := ParseUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36 Edg/120.0")
	assert.Equal(t, "Edge", browser)
	assert.Equal(t, "Windows 10", osName)

	browser, osName = ParseUserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15")
	assert.Equal(t, "Safari", browser)
	assert.Equal(t, "Mac OS X", osName)

	browser, osName = ParseUserAgent("Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0")
	assert.Equal(t, "Firefox", browser)
	assert.Equal(t, "Linux", osName)

	browser, osName = ParseUserAgent("")
	assert.Equal(t, "Unknown", browser)
	assert.Equal(t, "Unknown", osName)
}

func TestLoginLocation(t *testing.T) {
	assert.Equal(t, "内网IP", LoginLocation("127.0.0.1"))
	assert.Equal(t, "内网IP", LoginLocation("192.168.1.10"))
	assert.Equal(t, "未知", LoginLocation("8.8.8.8"))
}
