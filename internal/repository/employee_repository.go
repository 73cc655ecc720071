package repository

import (
	"context"

	"absensi-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EmployeeRepository interface {
	WithTx(tx *gorm.DB) EmployeeRepository
	Create(ctx context.Context, employee *model.Employee) error
	FindByID(ctx context.Context, id uint) (*model.Employee, error)
	FindByUserID(ctx context.Context, userID uint) (*model.Employee, error)
	GetAll(ctx context.Context, search string) ([]model.Employee, error)
	Update(ctx context.Context, employee *model.Employee) error
	// LockByID mengunci baris employee (SELECT ... FOR UPDATE) selama transaksi berjalan.
	LockByID(ctx context.Context, id uint) (*model.Employee, error)
	Count(ctx context.Context) (int64, error)
	CountPhotoRef(ctx context.Context, ref string) (int64, error)
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db}
}

func (r *employeeRepository) WithTx(tx *gorm.DB) EmployeeRepository {
	return &employeeRepository{tx}
}

func (r *employeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *employeeRepository) FindByID(ctx context.Context, id uint) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).Preload("User").First(&employee, id).Error
	return &employee, err
}

func (r *employeeRepository) FindByUserID(ctx context.Context, userID uint) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&employee).Error
	return &employee, err
}

func (r *employeeRepository) GetAll(ctx context.Context, search string) ([]model.Employee, error) {
	var list []model.Employee
	q := r.db.WithContext(ctx).Preload("User")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR phone_number LIKE ?", like, like)
	}
	err := q.Order("name asc").Order("id asc").Find(&list).Error
	return list, err
}

func (r *employeeRepository) Update(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Omit("User").Save(employee).Error
}

func (r *employeeRepository) LockByID(ctx context.Context, id uint) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&employee, id).Error
	return &employee, err
}

func (r *employeeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Employee{}).Count(&count).Error
	return count, err
}

func (r *employeeRepository) CountPhotoRef(ctx context.Context, ref string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.Employee{}).Where("photo_profile = ?", ref).Count(&count).Error
	return count, err
}
