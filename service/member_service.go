package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/BinLe1988/member-admin/configs"
	"github.com/BinLe1988/member-admin/models"
	"github.com/BinLe1988/member-admin/pkg/utils"
	"github.com/BinLe1988/member-admin/pkg/validate"
	"github.com/BinLe1988/member-admin/repository"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const profileKeyPrefix = "member:profile:"

// MemberService 会员管理
type MemberService struct {
	db      *gorm.DB
	members *repository.MemberRepository
	rdb     *redis.Client
	cfg     configs.Member
	logger  *zap.Logger
	now     func() time.Time
}

func NewMemberService(db *gorm.DB, rdb *redis.Client, cfg configs.Member, logger *zap.Logger) *MemberService {
	return &MemberService{
		db:      db,
		members: repository.NewMemberRepository(db),
		rdb:     rdb,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

func profileKey(id int64) string {
	return profileKeyPrefix + strconv.FormatInt(id, 10)
}

// List 获取会员列表
func (s *MemberService) List(ctx context.Context, q *models.MemberQuery, isPage bool) (*models.PageResult[models.Member], error) {
	page, err := s.members.List(ctx, q, isPage)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return page, nil
}

// Detail 后台按 id 查询会员，包含已删除会员
func (s *MemberService) Detail(ctx context.Context, id int64) (*models.Member, error) {
	m, err := s.members.GetByIDUnscoped(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get member %d: %w", id, err)
	}
	if m == nil {
		return nil, &ServiceError{Message: "会员不存在"}
	}
	return m, nil
}

func validateMemberForm(f *models.MemberForm, isAdd bool) error {
	v := validate.New()
	if isAdd {
		v.Check("member_name", deref(f.MemberName), validate.NotBlank("会员名称"), validate.MaxLen("会员名称", 30), validate.XSSSafe("会员名称"))
		v.Check("nick_name", deref(f.NickName), validate.NotBlank("会员昵称"), validate.MaxLen("会员昵称", 30), validate.XSSSafe("会员昵称"))
		v.Check("password", deref(f.Password), validate.NotBlank("密码"), validate.Password())
	} else {
		v.CheckPtr("member_name", f.MemberName, validate.NotBlank("会员名称"), validate.MaxLen("会员名称", 30), validate.XSSSafe("会员名称"))
		v.CheckPtr("nick_name", f.NickName, validate.NotBlank("会员昵称"), validate.MaxLen("会员昵称", 30), validate.XSSSafe("会员昵称"))
	}
	v.CheckPtr("email", f.Email, validate.MaxLen("邮箱", 50), validate.Email("邮箱"))
	v.CheckPtr("phonenumber", f.Phonenumber, validate.Phone("手机号码"))
	v.CheckPtr("gender", f.Gender, validate.OneOf("会员性别", models.GenderMale, models.GenderFemale, models.GenderUnknown))
	v.CheckPtr("status", f.Status, validate.OneOf("帐号状态", models.StatusNormal, models.StatusDisable))
	v.CheckPtr("remark", f.Remark, validate.MaxLen("备注", 500), validate.XSSSafe("备注"))
	return checkValid(v)
}

// checkUnique display 为提示中的会员名称，nil 字段不校验
func (s *MemberService) checkUnique(ctx context.Context, db *gorm.DB, action, display string, selfID int64, name, phone, email *string) error {
	return checkUniques(ctx, db, &models.Member{}, "member_id", selfID, nil,
		uniqueRule{"member_name", name, fmt.Sprintf("%s会员%s失败，会员名称已存在", action, display)},
		uniqueRule{"phonenumber", phone, fmt.Sprintf("%s会员%s失败，手机号码已存在", action, display)},
		uniqueRule{"email", email, fmt.Sprintf("%s会员%s失败，邮箱账号已存在", action, display)},
	)
}

// Add 新增会员
func (s *MemberService) Add(ctx context.Context, operator string, form *models.MemberForm) (*models.CrudResult, error) {
	if err := validateMemberForm(form, true); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(*form.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	m := form.ToMember()
	m.Password = hashed
	m.Stamp(operator, s.now())

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkUnique(ctx, tx, "新增", m.MemberName, NewRecordID, form.MemberName, form.Phonenumber, form.Email); err != nil {
			return err
		}
		return s.members.WithTx(tx).Create(ctx, m)
	})
	if err != nil {
		return nil, wrapTx("add member", err)
	}

	s.logger.Info("Member created", zap.Int64("member_id", m.MemberID), zap.String("operator", operator))
	return models.Success("新增成功"), nil
}

// Edit 编辑会员，按编辑类型决定写入字段
func (s *MemberService) Edit(ctx context.Context, operator string, form *models.MemberForm) (*models.CrudResult, error) {
	id := form.ID()
	fields, err := s.editFields(form)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.members.WithTx(tx)
		existing, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return &ServiceError{Message: "会员不存在"}
		}

		if !form.Type.Narrow() {
			name := existing.MemberName
			if form.MemberName != nil {
				name = *form.MemberName
			}
			if err := s.checkUnique(ctx, tx, "修改", name, id, form.MemberName, form.Phonenumber, form.Email); err != nil {
				return err
			}
		}

		for k, v := range models.AuditUpdates(operator, s.now()) {
			fields[k] = v
		}
		return repo.Update(ctx, id, fields)
	})
	if err != nil {
		return nil, wrapTx("edit member", err)
	}

	s.invalidateProfile(ctx, id)
	return models.Success("更新成功"), nil
}

func (s *MemberService) editFields(form *models.MemberForm) (map[string]any, error) {
	switch form.Type {
	case models.EditTypeStatus:
		v := validate.New().Check("status", deref(form.Status),
			validate.NotBlank("帐号状态"), validate.OneOf("帐号状态", models.StatusNormal, models.StatusDisable))
		if err := checkValid(v); err != nil {
			return nil, err
		}
		return map[string]any{"status": *form.Status}, nil
	case models.EditTypePassword:
		pwd := deref(form.Password)
		if err := checkValid(validate.New().Check("password", pwd, validate.NotBlank("密码"), validate.Password())); err != nil {
			return nil, err
		}
		hashed, err := utils.HashPassword(pwd)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		return map[string]any{"password": hashed}, nil
	case models.EditTypeAvatar:
		if err := checkValid(validate.New().Check("avatar", deref(form.Avatar), validate.NotBlank("头像"))); err != nil {
			return nil, err
		}
		return map[string]any{"avatar": *form.Avatar}, nil
	case models.EditTypeFull:
		if err := validateMemberForm(form, false); err != nil {
			return nil, err
		}
		return form.Updates(), nil
	default:
		return nil, Errorf("不支持的编辑类型%s", form.Type)
	}
}

// ChangeStatus 修改会员状态
func (s *MemberService) ChangeStatus(ctx context.Context, operator string, req *models.ChangeStatusRequest) (*models.CrudResult, error) {
	return s.Edit(ctx, operator, &models.MemberForm{MemberID: &req.MemberID, Status: &req.Status, Type: models.EditTypeStatus})
}

// ResetPassword 重置会员密码
func (s *MemberService) ResetPassword(ctx context.Context, operator string, req *models.ResetPwdRequest) (*models.CrudResult, error) {
	return s.Edit(ctx, operator, &models.MemberForm{MemberID: &req.MemberID, Password: &req.Password, Type: models.EditTypePassword})
}

// UpdateAvatar 更新会员头像
func (s *MemberService) UpdateAvatar(ctx context.Context, operator string, id int64, avatar string) (*models.CrudResult, error) {
	return s.Edit(ctx, operator, &models.MemberForm{MemberID: &id, Avatar: &avatar, Type: models.EditTypeAvatar})
}

// Delete 批量软删除会员
func (s *MemberService) Delete(ctx context.Context, operator string, ids []int64) (*models.CrudResult, error) {
	if len(ids) == 0 {
		return nil, &ServiceError{Message: "传入会员id为空"}
	}
	ids = distinctIDs(ids)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.members.WithTx(tx).Delete(ctx, ids)
		if err != nil {
			return err
		}
		if n == 0 {
			return &ServiceError{Message: "会员不存在"}
		}
		return nil
	})
	if err != nil {
		return nil, wrapTx("delete members", err)
	}

	for _, id := range ids {
		s.invalidateProfile(ctx, id)
	}
	s.logger.Info("Members deleted", zap.Int64s("member_ids", ids), zap.Stringer("policy", s.members.Policy()), zap.String("operator", operator))
	return models.Success("删除成功"), nil
}

// Profile 会员个人资料，优先读取缓存
func (s *MemberService) Profile(ctx context.Context, id int64) (*models.Member, error) {
	key := profileKey(id)
	if s.rdb != nil {
		if data, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var m models.Member
			if err := json.Unmarshal(data, &m); err == nil {
				return &m, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("Failed to read profile cache", zap.String("key", key), zap.Error(err))
		}
	}

	m, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get member %d: %w", id, err)
	}
	if m == nil {
		return nil, &ServiceError{Message: "会员不存在"}
	}

	if s.rdb != nil {
		if data, err := json.Marshal(m); err == nil {
			ttl := time.Duration(s.cfg.ProfileCacheTTL) * time.Second
			if err := s.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
				s.logger.Warn("Failed to write profile cache", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return m, nil
}

// UpdateProfile 会员修改个人资料
func (s *MemberService) UpdateProfile(ctx context.Context, id int64, operator string, form *models.ProfileForm) (*models.CrudResult, error) {
	v := validate.New().
		CheckPtr("nick_name", form.NickName, validate.NotBlank("会员昵称"), validate.MaxLen("会员昵称", 30), validate.XSSSafe("会员昵称")).
		CheckPtr("email", form.Email, validate.MaxLen("邮箱", 50), validate.Email("邮箱")).
		CheckPtr("phonenumber", form.Phonenumber, validate.Phone("手机号码")).
		CheckPtr("gender", form.Gender, validate.OneOf("会员性别", models.GenderMale, models.GenderFemale, models.GenderUnknown))
	if err := checkValid(v); err != nil {
		return nil, err
	}

	return s.Edit(ctx, operator, &models.MemberForm{
		MemberID:    &id,
		NickName:    form.NickName,
		Email:       form.Email,
		Phonenumber: form.Phonenumber,
		Gender:      form.Gender,
		Birthday:    form.Birthday,
	})
}

// UpdateProfilePwd 会员修改密码，需要校验旧密码
func (s *MemberService) UpdateProfilePwd(ctx context.Context, id int64, oldPassword, newPassword string) (*models.CrudResult, error) {
	m, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get member %d: %w", id, err)
	}
	if m == nil {
		return nil, &ServiceError{Message: "会员不存在"}
	}
	if !utils.CheckPassword(m.Password, oldPassword) {
		return nil, &ServiceError{Message: "修改密码失败，旧密码错误"}
	}
	if oldPassword == newPassword {
		return nil, &ServiceError{Message: "新密码不能与旧密码相同"}
	}
	return s.Edit(ctx, m.MemberName, &models.MemberForm{MemberID: &id, Password: &newPassword, Type: models.EditTypePassword})
}

func (s *MemberService) invalidateProfile(ctx context.Context, id int64) {
	dropProfile(ctx, s.rdb, s.logger, id)
}

// dropProfile 会员行有任何写入后删除资料缓存
func dropProfile(ctx context.Context, rdb *redis.Client, logger *zap.Logger, id int64) {
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, profileKey(id)).Err(); err != nil {
		logger.Warn("Failed to invalidate profile cache", zap.Int64("member_id", id), zap.Error(err))
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// wrapTx 业务异常与校验异常原样返回，其余异常包装
func wrapTx(op string, err error) error {
	var se *ServiceError
	var ve *ValidationError
	if errors.As(err, &se) || errors.As(err, &ve) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
