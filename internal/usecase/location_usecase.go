package usecase

import (
	"context"
	"time"

	"absensi-backend/internal/geofence"
	"absensi-backend/internal/model"
	"absensi-backend/internal/repository"

	"gorm.io/datatypes"
)

type LocationUsecase struct {
	repo repository.LocationSettingRepository
}

func NewLocationUsecase(repo repository.LocationSettingRepository) *LocationUsecase {
	return &LocationUsecase{repo: repo}
}

type CreateLocationInput struct {
	Latitude  *float64 `json:"latitude" form:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" form:"longitude" validate:"required,longitude"`
	Radius    *float64 `json:"radius" form:"radius" validate:"required,gte=0"`
	Date      string   `json:"date" form:"date" validate:"omitempty,date"`
	ClockIn   string   `json:"clock_in" form:"clock_in" validate:"required,hhmm"`
	ClockOut  string   `json:"clock_out" form:"clock_out" validate:"required,hhmm"`
}

// Create selalu menambah baris baru; setting lama tidak pernah diubah.
func (u *LocationUsecase) Create(ctx context.Context, in CreateLocationInput) (*model.LocationSetting, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	clockIn, _ := time.Parse("15:04", in.ClockIn)
	clockOut, _ := time.Parse("15:04", in.ClockOut)

	setting := &model.LocationSetting{
		Latitude:  *in.Latitude,
		Longitude: *in.Longitude,
		Radius:    *in.Radius,
		ClockIn:   datatypes.NewTime(clockIn.Hour(), clockIn.Minute(), 0, 0),
		ClockOut:  datatypes.NewTime(clockOut.Hour(), clockOut.Minute(), 0, 0),
	}
	if in.Date != "" {
		date := in.Date
		setting.Date = &date
	}

	if err := u.repo.Create(ctx, setting); err != nil {
		return nil, storageOr(err)
	}
	return setting, nil
}

func (u *LocationUsecase) List(ctx context.Context) ([]model.LocationSetting, error) {
	list, err := u.repo.GetAll(ctx)
	if err != nil {
		return nil, storageOr(err)
	}
	return list, nil
}

// Policies mengembalikan setting yang berlaku untuk tanggal tsb. Setting bertanggal
// mengalahkan setting tanpa tanggal; setting untuk tanggal lain tidak pernah berlaku.
func (u *LocationUsecase) Policies(ctx context.Context, date string) ([]geofence.Policy, error) {
	settings, err := u.repo.GetByDate(ctx, date)
	if err != nil {
		return nil, storageOr(err)
	}
	if len(settings) == 0 {
		settings, err = u.repo.GetUndated(ctx)
		if err != nil {
			return nil, storageOr(err)
		}
	}

	policies := make([]geofence.Policy, 0, len(settings))
	for _, s := range settings {
		policies = append(policies, geofence.Policy{
			ID:          s.ID,
			Center:      geofence.Point{Latitude: s.Latitude, Longitude: s.Longitude},
			RadiusMeter: s.Radius,
			ClockIn:     s.ClockInOffset(),
			ClockOut:    s.ClockOutOffset(),
		})
	}
	return policies, nil
}
