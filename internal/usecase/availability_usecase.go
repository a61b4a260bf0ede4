package usecase

import (
	"context"

	"clinic-appointment-api/internal/converter"
	"clinic-appointment-api/internal/delivery/dto"
	"clinic-appointment-api/internal/domain/repository"
	"clinic-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AvailabilityUsecase interface {
	GetAvailability(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error)
}

type availabilityUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	doctorRepo repository.DoctorProfileRepository
	resolver   *service.AvailabilityResolver
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorProfileRepository,
	resolver *service.AvailabilityResolver,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:         db,
		log:        log,
		doctorRepo: doctorRepo,
		resolver:   resolver,
	}
}

// GetAvailability lists the doctor's 30-minute slots on date, each marked free or busy.
// The date is validated before the doctor is looked up.
func (u *availabilityUsecase) GetAvailability(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	doctor, err := u.doctorRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	slots, err := u.resolver.Resolve(ctx, u.db, doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to resolve availability of doctor %s on %s: %+v", doctorID, date, err)
		return nil, err
	}

	return &dto.AvailabilityResponse{
		DoctorID: doctorID,
		Date:     date,
		Slots:    converter.SlotsToResponses(slots),
	}, nil
}
