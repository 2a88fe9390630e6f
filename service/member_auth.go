package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BinLe1988/member-admin/models"
	"github.com/BinLe1988/member-admin/pkg/utils"
	"github.com/BinLe1988/member-admin/repository"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrSessionExpired = errors.New("session expired")

// MemberAuthService 会员登录会话
type MemberAuthService struct {
	members *repository.MemberRepository
	rdb     *redis.Client
	jwt     *utils.JWT
	logger  *zap.Logger
	now     func() time.Time
}

func NewMemberAuthService(db *gorm.DB, rdb *redis.Client, jwt *utils.JWT, logger *zap.Logger) *MemberAuthService {
	return &MemberAuthService{
		members: repository.NewMemberRepository(db),
		rdb:     rdb,
		jwt:     jwt,
		logger:  logger,
		now:     time.Now,
	}
}

// Login 会员登录，签发会话令牌并写入 Redis
func (s *MemberAuthService) Login(ctx context.Context, req *models.MemberLoginRequest, meta models.LoginMeta) (string, error) {
	m, err := s.members.GetByField(ctx, "member_name", req.MemberName)
	if err != nil {
		return "", fmt.Errorf("get member: %w", err)
	}
	if m == nil || !utils.CheckPassword(m.Password, req.Password) {
		return "", &ServiceError{Message: "会员名称或密码错误"}
	}
	if m.Status != models.StatusNormal {
		return "", &ServiceError{Message: "会员已停用"}
	}

	now := s.now()
	sessionID := uuid.NewString()
	browser, osName := utils.ParseUserAgent(meta.UserAgent)
	token, err := s.jwt.GenerateSessionToken(utils.SessionClaims{
		SessionID:  sessionID,
		MemberID:   m.MemberID,
		MemberName: m.MemberName,
		VisitName:  meta.VisitName,
		MemberLoginInfo: utils.MemberLoginInfo{
			IPAddr:        meta.IPAddr,
			LoginLocation: utils.LoginLocation(meta.IPAddr),
			Browser:       browser,
			OS:            osName,
			LoginTime:     now.Format(timeLayout),
		},
	})
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	if err := s.rdb.Set(ctx, sessionKey(sessionID), token, s.jwt.Expiration()).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	if err := s.members.Update(ctx, m.MemberID, map[string]any{"login_ip": meta.IPAddr, "login_date": now}); err != nil {
		s.logger.Warn("Failed to record login info", zap.Int64("member_id", m.MemberID), zap.Error(err))
	} else {
		dropProfile(ctx, s.rdb, s.logger, m.MemberID)
	}

	s.logger.Info("Member logged in", zap.Int64("member_id", m.MemberID), zap.String("session_id", sessionID))
	return token, nil
}

// Authenticate 校验令牌签名，并确认会话仍在 Redis 中（未被强退）
func (s *MemberAuthService) Authenticate(ctx context.Context, token string) (*utils.SessionClaims, error) {
	claims, err := s.jwt.ParseSessionToken(token)
	if err != nil {
		return nil, err
	}

	stored, err := s.rdb.Get(ctx, sessionKey(claims.SessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if stored != token {
		return nil, ErrSessionExpired
	}
	return claims, nil
}

// Logout 会员退出登录
func (s *MemberAuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
