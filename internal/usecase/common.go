package usecase

import (
	"context"
	"errors"

	"absensi-backend/internal/apperror"
	"absensi-backend/internal/model"
	"absensi-backend/internal/repository"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("absensi-backend/usecase")

// endSpan: kegagalan storage ditandai error, penolakan bisnis cukup dicatat kodenya.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.SetAttributes(attribute.String("error.code", apperror.CodeOf(err)))
		if k := apperror.KindOf(err); k == apperror.KindStorage || k == 0 {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// storageOr meneruskan error taksonomi apa adanya; error lain dibungkus StorageError.
func storageOr(err error) error {
	if err == nil {
		return nil
	}
	if apperror.As(err) != nil {
		return err
	}
	return apperror.Storage(err)
}

func employeeOf(ctx context.Context, repo repository.EmployeeRepository, userID uint) (*model.Employee, error) {
	emp, err := repo.FindByUserID(ctx, userID)
	if isNotFound(err) {
		return nil, apperror.NotFound(apperror.CodeNoProfile, "Data pegawai untuk akun ini tidak ditemukan")
	}
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return emp, nil
}
