package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BinLe1988/member-admin/models"
	"github.com/BinLe1988/member-admin/pkg/utils"
	"github.com/BinLe1988/member-admin/repository"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SessionKeyPrefix 会员会话令牌在 Redis 中的命名空间
const SessionKeyPrefix = "member_access_token:"

const scanCount = 100

func sessionKey(sessionID string) string {
	return SessionKeyPrefix + sessionID
}

// OnlineService 在线会员监控，Redis 中的会话令牌是唯一数据来源
type OnlineService struct {
	rdb    *redis.Client
	jwt    *utils.JWT
	logger *zap.Logger
}

func NewOnlineService(rdb *redis.Client, jwt *utils.JWT, logger *zap.Logger) *OnlineService {
	return &OnlineService{rdb: rdb, jwt: jwt, logger: logger}
}

// List 扫描全部会话；提交会员名称或 IP 时只返回第一个完全匹配的会话，否则按登录时间倒序返回全部
func (s *OnlineService) List(ctx context.Context, q *models.OnlineQuery) ([]models.OnlineMember, error) {
	sessions, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}

	if q.MemberName != "" || q.IPAddr != "" {
		for _, o := range sessions {
			if q.MemberName != "" && o.MemberName != q.MemberName {
				continue
			}
			if q.IPAddr != "" && o.IPAddr != q.IPAddr {
				continue
			}
			return []models.OnlineMember{o}, nil
		}
		return []models.OnlineMember{}, nil
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].LoginTime.After(sessions[j].LoginTime)
	})
	return sessions, nil
}

// ListPage 对 List 的结果做内存分页
func (s *OnlineService) ListPage(ctx context.Context, q *models.OnlineQuery) (*models.PageResult[models.OnlineMember], error) {
	sessions, err := s.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return repository.PaginateSlice(sessions, q.PageNum, q.PageSize), nil
}

// ForceLogout 强退会员，删除对应会话
func (s *OnlineService) ForceLogout(ctx context.Context, sessionIDs []string) (*models.CrudResult, error) {
	keys := make([]string, 0, len(sessionIDs))
	for _, id := range sessionIDs {
		if id = strings.TrimSpace(id); id != "" {
			keys = append(keys, sessionKey(id))
		}
	}
	if len(keys) == 0 {
		return nil, &ServiceError{Message: "传入session_id为空"}
	}

	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return nil, fmt.Errorf("force logout: %w", err)
	}
	s.logger.Info("Members forced offline", zap.Strings("session_ids", sessionIDs))
	return models.Success("强退成功"), nil
}

func (s *OnlineService) scan(ctx context.Context) ([]models.OnlineMember, error) {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, SessionKeyPrefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}

	sessions := make([]models.OnlineMember, 0, len(keys))
	if len(keys) == 0 {
		return sessions, nil
	}

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	for i, v := range values {
		token, ok := v.(string)
		if !ok {
			// 扫描与读取之间已过期
			continue
		}
		claims, err := s.jwt.ParseSessionToken(token)
		if err != nil {
			s.logger.Debug("Skip undecodable session", zap.String("key", keys[i]), zap.Error(err))
			continue
		}
		sessions = append(sessions, toOnlineMember(claims))
	}
	return sessions, nil
}

func toOnlineMember(c *utils.SessionClaims) models.OnlineMember {
	info := c.MemberLoginInfo
	loginTime, err := time.ParseInLocation(timeLayout, info.LoginTime, time.Local)
	if err != nil && c.IssuedAt != nil {
		loginTime = c.IssuedAt.Time
	}
	return models.OnlineMember{
		TokenID:       c.SessionID,
		MemberName:    c.MemberName,
		VisitName:     c.VisitName,
		IPAddr:        info.IPAddr,
		LoginLocation: info.LoginLocation,
		Browser:       info.Browser,
		OS:            info.OS,
		LoginTime:     loginTime,
	}
}
