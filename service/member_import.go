package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/BinLe1988/member-admin/models"
	"github.com/BinLe1988/member-admin/pkg/excel"
	"github.com/BinLe1988/member-admin/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const timeLayout = "2006-01-02 15:04:05"

var (
	genderLabels = map[string]string{models.GenderMale: "男", models.GenderFemale: "女", models.GenderUnknown: "未知"}
	statusLabels = map[string]string{models.StatusNormal: "正常", models.StatusDisable: "停用"}
)

// MemberImportHeaders 导入模板表头
var MemberImportHeaders = []string{"会员名称", "会员昵称", "会员邮箱", "手机号码", "会员性别", "会员年龄", "帐号状态", "备注"}

// MemberExportHeaders 导出表头
var MemberExportHeaders = []string{
	"会员编号", "会员名称", "会员昵称", "会员邮箱", "手机号码", "会员性别", "会员年龄", "帐号状态",
	"最后登录IP", "最后登录时间", "创建者", "创建时间", "更新者", "更新时间", "备注",
}

// labelToCode 中文标签转存储值，已经是存储值时原样返回
func labelToCode(labels map[string]string, v string) string {
	for code, label := range labels {
		if v == label {
			return code
		}
	}
	return v
}

func codeToLabel(labels map[string]string, v string) string {
	if label, ok := labels[v]; ok {
		return label
	}
	return v
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeLayout)
}

// ImportTemplate 会员导入模板
func (s *MemberService) ImportTemplate() ([]byte, error) {
	return excel.Write("会员信息", MemberImportHeaders, nil)
}

// Export 导出已查询好的会员列表
func (s *MemberService) Export(members []models.Member) ([]byte, error) {
	rows := make([][]any, 0, len(members))
	for _, m := range members {
		rows = append(rows, []any{
			m.MemberID,
			m.MemberName,
			m.NickName,
			m.Email,
			m.Phonenumber,
			codeToLabel(genderLabels, m.Gender),
			m.Age,
			codeToLabel(statusLabels, m.Status),
			m.LoginIP,
			formatTime(m.LoginDate),
			m.CreateBy,
			formatTime(m.CreateAt),
			m.UpdateBy,
			formatTime(m.UpdateAt),
			m.Remark,
		})
	}
	return excel.Write("会员信息", MemberExportHeaders, rows)
}

func rowToMemberForm(row map[string]string) (*models.MemberForm, error) {
	form := &models.MemberForm{}
	str := func(header string) *string {
		v, ok := row[header]
		if !ok {
			return nil
		}
		return &v
	}

	form.MemberName = str("会员名称")
	form.NickName = str("会员昵称")
	form.Email = str("会员邮箱")
	form.Phonenumber = str("手机号码")
	form.Remark = str("备注")
	if v := str("会员性别"); v != nil && *v != "" {
		code := labelToCode(genderLabels, *v)
		form.Gender = &code
	}
	if v := str("帐号状态"); v != nil && *v != "" {
		code := labelToCode(statusLabels, *v)
		form.Status = &code
	}
	if v := str("会员年龄"); v != nil && *v != "" {
		age, err := strconv.Atoi(*v)
		if err != nil {
			return nil, &ServiceError{Message: "会员年龄格式不正确"}
		}
		form.Age = &age
	}
	return form, nil
}

// Import 导入会员，每行在独立的保存点中执行，单行失败只记录提示不影响其他行
func (s *MemberService) Import(ctx context.Context, operator string, r io.Reader, updateSupport bool) (*models.CrudResult, error) {
	rows, err := excel.ReadRecords(r)
	if err != nil {
		return nil, &ServiceError{Message: "导入文件解析失败"}
	}
	if len(rows) == 0 {
		return nil, &ServiceError{Message: "导入会员数据不能为空"}
	}

	initPassword, err := utils.HashPassword(s.cfg.InitPassword)
	if err != nil {
		return nil, fmt.Errorf("hash init password: %w", err)
	}

	var (
		succeeded int
		notes     []string
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			n := row.Row
			err := tx.Transaction(func(sp *gorm.DB) error {
				return s.importRow(ctx, sp, operator, row.Values, initPassword, updateSupport)
			})
			if err == nil {
				succeeded++
				continue
			}
			if msg, ok := rowMessage(err); ok {
				notes = append(notes, fmt.Sprintf("第%d条数据：%s", n, msg))
				continue
			}
			return fmt.Errorf("import row %d: %w", n, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Members imported",
		zap.Int("succeeded", succeeded),
		zap.Int("failed", len(notes)),
		zap.String("operator", operator))

	if len(notes) == 0 {
		return &models.CrudResult{
			IsSuccess: true,
			Message:   fmt.Sprintf("恭喜您，数据已全部导入成功！共 %d 条", succeeded),
			Result:    []string{},
		}, nil
	}
	return &models.CrudResult{
		IsSuccess: true,
		Message:   fmt.Sprintf("导入完成，成功 %d 条，失败 %d 条：\n%s", succeeded, len(notes), strings.Join(notes, "\n")),
		Result:    notes,
	}, nil
}

func (s *MemberService) importRow(ctx context.Context, tx *gorm.DB, operator string, row map[string]string, initPassword string, updateSupport bool) error {
	form, err := rowToMemberForm(row)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(deref(form.MemberName))
	if name == "" {
		return &ServiceError{Message: "会员名称不能为空"}
	}
	form.MemberName = &name

	repo := s.members.WithTx(tx)
	existing, err := repo.GetByField(ctx, "member_name", name)
	if err != nil {
		return err
	}

	if existing != nil {
		if !updateSupport {
			return &ServiceError{Message: fmt.Sprintf("会员名称 %s 已存在", name)}
		}
		if err := validateMemberForm(form, false); err != nil {
			return err
		}
		if err := s.checkUnique(ctx, tx, "修改", name, existing.MemberID, nil, form.Phonenumber, form.Email); err != nil {
			return err
		}
		fields := form.Updates()
		for k, v := range models.AuditUpdates(operator, s.now()) {
			fields[k] = v
		}
		if err := repo.Update(ctx, existing.MemberID, fields); err != nil {
			return err
		}
		s.invalidateProfile(ctx, existing.MemberID)
		return nil
	}

	if form.NickName == nil || strings.TrimSpace(*form.NickName) == "" {
		form.NickName = &name
	}
	form.Password = &s.cfg.InitPassword
	if err := validateMemberForm(form, true); err != nil {
		return err
	}
	if err := s.checkUnique(ctx, tx, "新增", name, NewRecordID, form.MemberName, form.Phonenumber, form.Email); err != nil {
		return err
	}

	m := form.ToMember()
	m.Password = initPassword
	m.Stamp(operator, s.now())
	return repo.Create(ctx, m)
}

// rowMessage 单行可提示的错误
func rowMessage(err error) (string, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Message, true
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error(), true
	}
	return "", false
}
