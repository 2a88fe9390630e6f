package repository

import (
	"context"

	"github.com/BinLe1988/member-admin/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MemberRepository 会员数据访问，删除为软删除（del_flag）
type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// WithTx 返回绑定到事务的仓储
func (r *MemberRepository) WithTx(tx *gorm.DB) *MemberRepository {
	return &MemberRepository{db: tx}
}

func (r *MemberRepository) Policy() DeletePolicy {
	return SoftDelete
}

func (r *MemberRepository) filter(ctx context.Context, q *models.MemberQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&models.Member{})
	if q.MemberID != nil {
		db = db.Where("member_id = ?", *q.MemberID)
	}
	db = whereLike(db, "member_name", q.MemberName)
	db = whereLike(db, "nick_name", q.NickName)
	db = whereLike(db, "email", q.Email)
	db = whereLike(db, "phonenumber", q.Phonenumber)
	db = whereEq(db, "status", q.Status)
	db = whereEq(db, "gender", q.Gender)
	return whereTimeRange(db, "create_at", q.TimeRange)
}

// List 按条件查询会员列表，已删除会员不返回
func (r *MemberRepository) List(ctx context.Context, q *models.MemberQuery, isPage bool) (*models.PageResult[models.Member], error) {
	return Paginate[models.Member](r.filter(ctx, q), "member_id", q.PageNum, q.PageSize, isPage)
}

// GetByID 查询未删除的会员
func (r *MemberRepository) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	return first[models.Member](r.db.WithContext(ctx).Where("member_id = ?", id))
}

// GetByIDUnscoped 后台按 id 查询，包含已删除会员
func (r *MemberRepository) GetByIDUnscoped(ctx context.Context, id int64) (*models.Member, error) {
	return first[models.Member](r.db.WithContext(ctx).Unscoped().Where("member_id = ?", id))
}

// GetByField 按唯一字段查询未删除的会员
func (r *MemberRepository) GetByField(ctx context.Context, column, value string) (*models.Member, error) {
	return first[models.Member](r.db.WithContext(ctx).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}))
}

func (r *MemberRepository) Create(ctx context.Context, m *models.Member) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// Update 只写入 fields 中提交的字段
func (r *MemberRepository) Update(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Member{}).Where("member_id = ?", id).Updates(fields).Error
}

// Delete 软删除，返回受影响行数
func (r *MemberRepository) Delete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("member_id IN ?", ids).Delete(&models.Member{})
	return res.RowsAffected, res.Error
}
