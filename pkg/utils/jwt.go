package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	issuer         = "member-admin"
	subjectAdmin   = "admin"
	subjectSession = "member"
)

var ErrInvalidToken = errors.New("invalid token")

// JWT 令牌签发与解析
type JWT struct {
	secret     []byte
	expiration time.Duration
}

// NewJWT expiresIn 单位为小时
func NewJWT(secret string, expiresIn int) *JWT {
	if expiresIn <= 0 {
		expiresIn = 24
	}
	return &JWT{
		secret:     []byte(secret),
		expiration: time.Duration(expiresIn) * time.Hour,
	}
}

// Expiration 令牌有效期，会员会话在 Redis 中的 TTL 与之一致
func (j *JWT) Expiration() time.Duration {
	return j.expiration
}

// Claims 后台管理员令牌声明
type Claims struct {
	UserName    string   `json:"user_name"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// MemberLoginInfo 会员登录信息
type MemberLoginInfo struct {
	IPAddr        string `json:"ipaddr"`
	LoginLocation string `json:"login_location"`
	Browser       string `json:"browser"`
	OS            string `json:"os"`
	LoginTime     string `json:"login_time"`
}

// SessionClaims 会员会话令牌声明
type SessionClaims struct {
	SessionID       string          `json:"session_id"`
	MemberID        int64           `json:"member_id"`
	MemberName      string          `json:"member_name"`
	VisitName       string          `json:"visit_name"`
	MemberLoginInfo MemberLoginInfo `json:"member_login_info"`
	jwt.RegisteredClaims
}

func (j *JWT) registered(subject, id string) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		ID:        id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.expiration)),
	}
}

func (j *JWT) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}

func (j *JWT) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrInvalidToken
	}
	return j.secret, nil
}

// GenerateToken 生成管理员令牌
func (j *JWT) GenerateToken(userName string, permissions []string) (string, error) {
	return j.sign(Claims{
		UserName:         userName,
		Permissions:      permissions,
		RegisteredClaims: j.registered(subjectAdmin, ""),
	})
}

// ParseToken 解析管理员令牌
func (j *JWT) ParseToken(token string) (*Claims, error) {
	tokenClaims, err := jwt.ParseWithClaims(token, &Claims{}, j.keyFunc)
	if err != nil {
		return nil, err
	}

	if claims, ok := tokenClaims.Claims.(*Claims); ok && tokenClaims.Valid && claims.Subject == subjectAdmin {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// GenerateSessionToken 生成会员会话令牌
func (j *JWT) GenerateSessionToken(claims SessionClaims) (string, error) {
	claims.RegisteredClaims = j.registered(subjectSession, claims.SessionID)
	return j.sign(claims)
}

// ParseSessionToken 解析会员会话令牌
func (j *JWT) ParseSessionToken(token string) (*SessionClaims, error) {
	tokenClaims, err := jwt.ParseWithClaims(token, &SessionClaims{}, j.keyFunc)
	if err != nil {
		return nil, err
	}

	claims, ok := tokenClaims.Claims.(*SessionClaims)
	if !ok || !tokenClaims.Valid || claims.Subject != subjectSession || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
