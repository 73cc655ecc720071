package usecase

import (
	"context"
	"errors"
	"io"
	"log"

	"absensi-backend/internal/apperror"
	"absensi-backend/internal/model"
	"absensi-backend/internal/repository"
	"absensi-backend/internal/storage"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type EmployeeUsecase struct {
	db        *gorm.DB
	users     repository.UserRepository
	employees repository.EmployeeRepository
	photos    storage.PhotoStore
	log       *log.Logger
}

func NewEmployeeUsecase(db *gorm.DB, users repository.UserRepository, employees repository.EmployeeRepository, photos storage.PhotoStore, l *log.Logger) *EmployeeUsecase {
	return &EmployeeUsecase{db: db, users: users, employees: employees, photos: photos, log: l}
}

type CreateEmployeeInput struct {
	Name        string `json:"name" form:"name" validate:"required,max=100"`
	Email       string `json:"email" form:"email" validate:"required,email,max=191"`
	Password    string `json:"password" form:"password" validate:"required,min=6,max=72"`
	PhoneNumber string `json:"phone_number" form:"phone_number" validate:"required,max=20"`
	Gender      string `json:"gender" form:"gender" validate:"omitempty,oneof=L P"`
}

type UpdateEmployeeInput struct {
	Name        string `json:"name" form:"name" validate:"required,max=100"`
	Email       string `json:"email" form:"email" validate:"required,email,max=191"`
	PhoneNumber string `json:"phone_number" form:"phone_number" validate:"omitempty,max=20"`
	Gender      string `json:"gender" form:"gender" validate:"omitempty,oneof=L P"`
}

type UpdateProfileInput struct {
	PhoneNumber string    `json:"phone_number" form:"phone_number" validate:"omitempty,max=20"`
	Gender      string    `json:"gender" form:"gender" validate:"omitempty,oneof=L P"`
	Photo       io.Reader `json:"-" form:"-"`
}

type Profile struct {
	User     *model.User     `json:"user"`
	Employee *model.Employee `json:"employee,omitempty"`
}

// Create membuat User (role pegawai) dan Employee dalam satu transaksi.
func (u *EmployeeUsecase) Create(ctx context.Context, in CreateEmployeeInput) (*model.Employee, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Storage(err)
	}

	var employee *model.Employee
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := u.users.WithTx(tx)

		taken, err := users.EmailTaken(ctx, in.Email, 0)
		if err != nil {
			return err
		}
		if taken {
			return errEmailTaken()
		}

		user := &model.User{Email: in.Email, Password: string(hash), Role: model.RoleEmployee}
		if err := users.Create(ctx, user); err != nil {
			return err
		}

		employee = &model.Employee{
			UserID:      user.ID,
			Name:        in.Name,
			Gender:      in.Gender,
			PhoneNumber: in.PhoneNumber,
		}
		if err := u.employees.WithTx(tx).Create(ctx, employee); err != nil {
			return err
		}
		employee.User = user
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, errEmailTaken()
	}
	if err != nil {
		return nil, storageOr(err)
	}

	u.log.Printf("[EMPLOYEE] dibuat id=%d user=%d", employee.ID, employee.UserID)
	return employee, nil
}

func errEmailTaken() error {
	return apperror.Conflict(apperror.CodeEmailTaken, "Email sudah terdaftar")
}

func errEmployeeNotFound() error {
	return apperror.NotFound(apperror.CodeNotFound, "Pegawai tidak ditemukan")
}

func (u *EmployeeUsecase) List(ctx context.Context, search string) ([]model.Employee, error) {
	list, err := u.employees.GetAll(ctx, search)
	if err != nil {
		return nil, storageOr(err)
	}
	return list, nil
}

func (u *EmployeeUsecase) Get(ctx context.Context, id uint) (*model.Employee, error) {
	emp, err := u.employees.FindByID(ctx, id)
	if isNotFound(err) {
		return nil, errEmployeeNotFound()
	}
	if err != nil {
		return nil, storageOr(err)
	}
	return emp, nil
}

// Update oleh admin: nama, email, gender, no hp.
func (u *EmployeeUsecase) Update(ctx context.Context, id uint, in UpdateEmployeeInput) (*model.Employee, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	var employee *model.Employee
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		employees := u.employees.WithTx(tx)
		users := u.users.WithTx(tx)

		emp, err := employees.FindByID(ctx, id)
		if isNotFound(err) {
			return errEmployeeNotFound()
		}
		if err != nil {
			return err
		}

		taken, err := users.EmailTaken(ctx, in.Email, emp.UserID)
		if err != nil {
			return err
		}
		if taken {
			return errEmailTaken()
		}

		user, err := users.FindByID(ctx, emp.UserID)
		if err != nil {
			return err
		}
		user.Email = in.Email
		if err := users.Update(ctx, user); err != nil {
			return err
		}

		emp.Name = in.Name
		emp.PhoneNumber = in.PhoneNumber
		emp.Gender = in.Gender
		if err := employees.Update(ctx, emp); err != nil {
			return err
		}
		emp.User = user
		employee = emp
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, errEmailTaken()
	}
	if err != nil {
		return nil, storageOr(err)
	}
	return employee, nil
}

// UpdateProfile: edit profil mandiri oleh pegawai.
func (u *EmployeeUsecase) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*model.Employee, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	emp, err := employeeOf(ctx, u.employees, userID)
	if err != nil {
		return nil, err
	}

	oldPhoto := emp.PhotoProfile
	if in.Photo != nil {
		ref, err := u.photos.Save(ctx, storage.FolderProfile, in.Photo)
		if errors.Is(err, storage.ErrNotImage) {
			return nil, apperror.ValidationFields("Validasi gagal", map[string]string{"photo": "file harus berupa gambar"})
		}
		if err != nil {
			return nil, apperror.Storage(err)
		}
		emp.PhotoProfile = ref
	}
	if in.PhoneNumber != "" {
		emp.PhoneNumber = in.PhoneNumber
	}
	if in.Gender != "" {
		emp.Gender = in.Gender
	}

	if err := u.employees.Update(ctx, emp); err != nil {
		if emp.PhotoProfile != oldPhoto {
			storage.RemoveAll(u.photos, []string{emp.PhotoProfile}, u.log)
		}
		return nil, storageOr(err)
	}
	if oldPhoto != "" && emp.PhotoProfile != oldPhoto {
		storage.RemoveAll(u.photos, []string{oldPhoto}, u.log)
	}
	return emp, nil
}

// Profile mengembalikan akun beserta profil pegawai (admin bisa tanpa profil).
func (u *EmployeeUsecase) Profile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := u.users.FindByID(ctx, userID)
	if isNotFound(err) {
		return nil, apperror.NotFound(apperror.CodeNotFound, "User tidak ditemukan")
	}
	if err != nil {
		return nil, storageOr(err)
	}

	profile := &Profile{User: user}
	emp, err := u.employees.FindByUserID(ctx, userID)
	if err == nil {
		emp.User = nil
		profile.Employee = emp
	} else if !isNotFound(err) {
		return nil, storageOr(err)
	}
	return profile, nil
}

// DeleteEmployee menghapus pegawai beserta akun pemiliknya (cascade).
func (u *EmployeeUsecase) DeleteEmployee(ctx context.Context, id uint) (*repository.CascadeResult, error) {
	emp, err := u.employees.FindByID(ctx, id)
	if isNotFound(err) {
		return nil, errEmployeeNotFound()
	}
	if err != nil {
		return nil, storageOr(err)
	}
	return u.DeleteUser(ctx, emp.UserID)
}

// DeleteUser: hapus user, employee miliknya, dan seluruh absensinya. Foto dibersihkan setelah commit.
func (u *EmployeeUsecase) DeleteUser(ctx context.Context, userID uint) (*repository.CascadeResult, error) {
	res, err := u.users.DeleteCascade(ctx, userID)
	if isNotFound(err) {
		return nil, apperror.NotFound(apperror.CodeNotFound, "User tidak ditemukan")
	}
	if err != nil {
		return nil, storageOr(err)
	}

	storage.RemoveAll(u.photos, res.PhotoRefs, u.log)
	u.log.Printf("[EMPLOYEE] user=%d dihapus employees=%v attendances=%d", userID, res.EmployeeIDs, res.AttendanceCount)
	return res, nil
}
