package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/BinLe1988/member-admin/models"
	"github.com/BinLe1988/member-admin/pkg/excel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memberForm(name, phone string) *models.MemberForm {
	return &models.MemberForm{
		MemberName:  ptr(name),
		NickName:    ptr(name + "-nick"),
		Password:    ptr("admin123"),
		Phonenumber: ptr(phone),
	}
}

func TestMemberService_AddDuplicatePhone(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.memberService()
	ctx := context.Background()

	res, err := svc.Add(ctx, "admin", memberForm("alice", "12345678901"))
	require.NoError(t, err)
	assert.True(t, res.IsSuccess)
	assert.Equal(t, "新增成功", res.Message)

	_, err = svc.Add(ctx, "admin", memberForm("bob", "12345678901"))
	msg := requireServiceError(t, err)
	assert.Contains(t, msg, "手机号码已存在")

	alice, err := svc.Detail(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", alice.MemberName)
	assert.Equal(t, "admin", alice.CreateBy)
	assert.NotEqual(t, "admin123", alice.Password)

	page, err := svc.List(ctx, &models.MemberQuery{}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestMemberService_AddDuplicateName(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.memberService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "admin", memberForm("alice", "13800000001"))
	require.NoError(t, err)

	_, err = svc.Add(ctx, "admin", memberForm("alice", "13800000002"))
	assert.Equal(t, "新增会员alice失败，会员名称已存在", requireServiceError(t, err))
}

func TestMemberService_EditKeepsOwnUniqueValues(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.memberService()
	ctx := context.Background()

	form := memberForm("alice", "13800000001")
	form.Email = ptr("alice@example.com")
	_, err := svc.Add(ctx, "admin", form)
	require.NoError(t, err)

	res, err := svc.Edit(ctx, "editor", &models.MemberForm{
		MemberID:    ptr(int64(1)),
		MemberName:  ptr("alice"),
		NickName:    ptr("Alice"),
		Phonenumber: ptr("13800000001"),
		Email:       ptr("alice@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "更新成功", res.Message)

	m, err := svc.Detail(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", m.NickName)
	assert.Equal(t, "editor", m.UpdateBy)
}

func TestMemberService_EditCollision(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.memberService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "admin", memberForm("alice", "13800000001"))
	require.NoError(t, err)
	_, err = svc.Add(ctx, "admin", memberForm("bob", "13800000002"))
	require.NoError(t, err)

	_, err = svc.Edit(ctx, "admin", &models.MemberForm{MemberID: ptr(int64(2)), Phonenumber: ptr("13800000001")})
	assert.Equal(t, "修改会员bob失败，手机号码已存在", requireServiceError(t, err))

	_, err = svc.Edit(ctx, "admin", &models.MemberForm{MemberID: ptr(int64(99)), NickName: ptr("x")})
	assert.Equal(t, "会员不存在", requireServiceError(t, err))
}

func TestMemberService_NarrowEdits(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.memberService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "admin", memberForm("alice", "13800000001"))
	require.NoError(t, err)

	_, err = svc.ChangeStatus(ctx, "admin", &models.ChangeStatusRequest{MemberID: 1, Status: models.StatusDisable})
	require.NoError(t, err)
	_, err = svc.ResetPassword(ctx, "admin", &models.ResetPwdRequest{MemberID: 1, Password: "newpass1"})
	require.NoError(t, err)
	_, err = svc.UpdateAvatar(ctx, "admin", 1, "/profile/avatar/a.png")
	require.NoError(t, err)

	m, err := svc.Detail(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDisable, m.Status)
	assert.Equal(t, "/profile/avatar/a.png", m.Avatar)

	_, err = svc.ResetPassword(ctx, "admin", &models.ResetPwdRequest{MemberID: 1, Password: "bad<pwd"})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "password", ve.Fields[0].Field)
}

func TestMemberService_ValidationCollectsFields(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.memberService()

	_, err := svc.Add(context.Background(), "admin", &models.MemberForm{
		MemberName:  ptr(""),
		NickName:    ptr("<script>x</script>"),
		Password:    ptr("abc"),
		Phonenumber: ptr("123"),
	})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))

	fields := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"member_name", "nick_name", "password", "phonenumber"}, fields)
}

func TestMemberService_SoftDelete(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.memberService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "admin", memberForm("alice", "13800000001"))
	require.NoError(t, err)
	_, err = svc.Add(ctx, "admin", memberForm("bob", "13800000002"))
	require.NoError(t, err)

	res, err := svc.Delete(ctx, "admin", []int64{1})
	require.NoError(t, err)
	assert.Equal(t, "删除成功", res.Message)

	page, err := svc.List(ctx, &models.MemberQuery{}, false)
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "bob", page.Rows[0].MemberName)

	// 后台按 id 查询仍能看到已删除会员
	m, err := svc.Detail(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", m.MemberName)

	// 已删除会员不能编辑，也不再占用唯一值
	_, err = svc.Edit(ctx, "admin", &models.MemberForm{MemberID: ptr(int64(1)), NickName: ptr("x")})
	assert.Equal(t, "会员不存在", requireServiceError(t, err))
	_, err = svc.Add(ctx, "admin", memberForm("alice", "13800000001"))
	assert.NoError(t, err)

	_, err = svc.Delete(ctx, "admin", nil)
	assert.Equal(t, "传入会员id为空", requireServiceError(t, err))
}

func TestMemberService_ListPagination(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.memberService()
	ctx := context.Background()

	for i := 1; i <= 15; i++ {
		require.NoError(t, env.db.Create(&models.Member{
			MemberName: fmt.Sprintf("m%02d", i),
			NickName:   "n",
		}).Error)
	}

	page, err := svc.List(ctx, &models.MemberQuery{PageQuery: models.PageQuery{PageNum: 2, PageSize: 10}}, true)
	require.NoError(t, err)
	assert.Len(t, page.Rows, 5)
	assert.Equal(t, int64(15), page.Total)
}

func TestMemberService_ProfileCache(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.memberService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "admin", memberForm("alice", "13800000001"))
	require.NoError(t, err)

	m, err := svc.Profile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", m.MemberName)
	assert.True(t, env.mr.Exists("member:profile:1"))
	assert.Equal(t, 3600, int(env.mr.TTL("member:profile:1").Seconds()))

	_, err = svc.UpdateProfile(ctx, 1, "alice", &models.ProfileForm{NickName: ptr("Alice")})
	require.NoError(t, err)
	assert.False(t, env.mr.Exists("member:profile:1"))

	m, err = svc.Profile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", m.NickName)
}

func TestMemberService_UpdateProfilePwd(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.memberService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "admin", memberForm("alice", "13800000001"))
	require.NoError(t, err)

	_, err = svc.UpdateProfilePwd(ctx, 1, "wrong", "newpass1")
	assert.Equal(t, "修改密码失败，旧密码错误", requireServiceError(t, err))

	_, err = svc.UpdateProfilePwd(ctx, 1, "admin123", "admin123")
	assert.Equal(t, "新密码不能与旧密码相同", requireServiceError(t, err))

	_, err = svc.UpdateProfilePwd(ctx, 1, "admin123", "newpass1")
	require.NoError(t, err)
}

func TestMemberService_ImportSkipsExistingWithoutUpdate(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.memberService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "admin", memberForm("bob", "13800000002"))
	require.NoError(t, err)

	data, err := excel.Write("", MemberImportHeaders, [][]any{
		{"alice", "Alice", "alice@example.com", "13800000001", "女", 20, "正常", ""},
		{"bob", "Bob", "", "", "男", 30, "正常", ""},
		{"carol", "Carol", "", "13800000003", "未知", 40, "停用", "imported"},
	})
	require.NoError(t, err)

	res, err := svc.Import(ctx, "admin", bytes.NewReader(data), false)
	require.NoError(t, err)
	assert.True(t, res.IsSuccess)

	notes, ok := res.Result.([]string)
	require.True(t, ok)
	require.Len(t, notes, 1)
	assert.Equal(t, "第2条数据：会员名称 bob 已存在", notes[0])
	assert.Contains(t, res.Message, "成功 2 条，失败 1 条")

	page, err := svc.List(ctx, &models.MemberQuery{}, false)
	require.NoError(t, err)
	require.Len(t, page.Rows, 3)

	byName := map[string]models.Member{}
	for _, m := range page.Rows {
		byName[m.MemberName] = m
	}
	assert.Equal(t, models.GenderFemale, byName["alice"].Gender)
	assert.Equal(t, models.StatusDisable, byName["carol"].Status)
	assert.Equal(t, "bob-nick", byName["bob"].NickName)
	assert.Equal(t, "admin", byName["carol"].CreateBy)
}

func TestMemberService_ImportNumbersSheetRows(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.memberService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "admin", memberForm("bob", "13800000002"))
	require.NoError(t, err)

	data, err := excel.Write("", []string{"会员名称"}, [][]any{{"ann"}, {nil}, {"bob"}})
	require.NoError(t, err)

	res, err := svc.Import(ctx, "admin", bytes.NewReader(data), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"第3条数据：会员名称 bob 已存在"}, res.Result)
}

func TestMemberService_ExportImportRoundTrip(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.memberService()
	ctx := context.Background()

	f1 := memberForm("alice", "13800000001")
	f1.Email, f1.Gender, f1.Age, f1.Remark = ptr("alice@example.com"), ptr(models.GenderFemale), ptr(28), ptr("vip")
	f2 := memberForm("bob", "13800000002")
	f2.Gender, f2.Age, f2.Status = ptr(models.GenderMale), ptr(35), ptr(models.StatusDisable)
	_, err := svc.Add(ctx, "admin", f1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "admin", f2)
	require.NoError(t, err)

	before, err := svc.List(ctx, &models.MemberQuery{}, false)
	require.NoError(t, err)
	data, err := svc.Export(before.Rows)
	require.NoError(t, err)

	// 导出后修改数据，再用导出文件覆盖回去
	_, err = svc.Edit(ctx, "admin", &models.MemberForm{
		MemberID: ptr(int64(1)),
		NickName: ptr("changed"),
		Gender:   ptr(models.GenderUnknown),
		Age:      ptr(1),
		Remark:   ptr(""),
	})
	require.NoError(t, err)

	res, err := svc.Import(ctx, "admin", bytes.NewReader(data), true)
	require.NoError(t, err)
	assert.Equal(t, "恭喜您，数据已全部导入成功！共 2 条", res.Message)

	after, err := svc.List(ctx, &models.MemberQuery{}, false)
	require.NoError(t, err)
	require.Len(t, after.Rows, len(before.Rows))
	for i, b := range before.Rows {
		a := after.Rows[i]
		assert.Equal(t, b.MemberID, a.MemberID)
		assert.Equal(t, b.MemberName, a.MemberName)
		assert.Equal(t, b.NickName, a.NickName)
		assert.Equal(t, b.Email, a.Email)
		assert.Equal(t, b.Phonenumber, a.Phonenumber)
		assert.Equal(t, b.Gender, a.Gender)
		assert.Equal(t, b.Age, a.Age)
		assert.Equal(t, b.Status, a.Status)
		assert.Equal(t, b.Remark, a.Remark)
	}
}

func TestMemberService_ImportTemplate(t *testing.T) {
	svc := setupTestEnv(t).memberService()

	data, err := svc.ImportTemplate()
	require.NoError(t, err)

	rows, err := excel.Read(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
