package repository

import (
	"context"
	"strings"

	"absensi-backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
	DeleteCascade(ctx context.Context, id uint) (*CascadeResult, error)
}

// CascadeResult: apa saja yang ikut terhapus bersama user.
type CascadeResult struct {
	EmployeeIDs     []uint
	AttendanceCount int64
	// PhotoRefs dibersihkan dari disk setelah commit
	PhotoRefs []string
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{tx}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	user.Email = normalizeEmail(user.Email)
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	return &user, err
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	return &user, err
}

func (r *userRepository) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", normalizeEmail(email))
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	user.Email = normalizeEmail(user.Email)
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteCascade menghapus permanen (Unscoped) user, employee miliknya, dan seluruh absensi employee tsb
// dalam satu transaksi. Unscoped agar email bisa didaftarkan ulang.
func (r *userRepository) DeleteCascade(ctx context.Context, id uint) (*CascadeResult, error) {
	result := &CascadeResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}

		var employees []model.Employee
		if err := tx.Unscoped().Where("user_id = ?", id).Find(&employees).Error; err != nil {
			return err
		}
		for _, e := range employees {
			result.EmployeeIDs = append(result.EmployeeIDs, e.ID)
			if e.PhotoProfile != "" {
				result.PhotoRefs = append(result.PhotoRefs, e.PhotoProfile)
			}
		}

		if len(result.EmployeeIDs) > 0 {
			var photos []string
			if err := tx.Unscoped().Model(&model.Attendance{}).
				Where("employee_id IN ? AND photo <> ''", result.EmployeeIDs).
				Pluck("photo", &photos).Error; err != nil {
				return err
			}
			result.PhotoRefs = append(result.PhotoRefs, photos...)

			res := tx.Unscoped().Where("employee_id IN ?", result.EmployeeIDs).Delete(&model.Attendance{})
			if res.Error != nil {
				return res.Error
			}
			result.AttendanceCount = res.RowsAffected

			if err := tx.Unscoped().Where("id IN ?", result.EmployeeIDs).Delete(&model.Employee{}).Error; err != nil {
				return err
			}
		}

		return tx.Unscoped().Delete(&model.User{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
