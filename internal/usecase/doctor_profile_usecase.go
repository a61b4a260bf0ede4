package usecase

import (
	"context"

	"clinic-appointment-api/internal/converter"
	"clinic-appointment-api/internal/delivery/dto"
	"clinic-appointment-api/internal/domain/entity"
	"clinic-appointment-api/internal/domain/repository"
	"clinic-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type DoctorProfileUsecase interface {
	ListDoctors(ctx context.Context, query dto.DoctorListQuery) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	// UpdateDoctor is open to admins for any doctor and to doctors for themselves.
	UpdateDoctor(ctx context.Context, actor entity.Actor, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
}

type doctorProfileUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	transactor   repository.Transactor
	userRepo     repository.UserRepository
	doctorRepo   repository.DoctorProfileRepository
	auditService service.AuditService
}

func NewDoctorProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	transactor repository.Transactor,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
) DoctorProfileUsecase {
	return &doctorProfileUsecase{
		db:           db,
		log:          log,
		transactor:   transactor,
		userRepo:     userRepo,
		doctorRepo:   doctorRepo,
		auditService: auditService,
	}
}

func (u *doctorProfileUsecase) ListDoctors(ctx context.Context, query dto.DoctorListQuery) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(ctx, u.db, &entity.DoctorFilter{
		Specialization: query.Specialization,
		OnlyAvailable:  query.OnlyAvailable,
	})
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorProfilesToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

func (u *doctorProfileUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.find(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	return converter.DoctorProfileToResponse(doctor), nil
}

func (u *doctorProfileUsecase) UpdateDoctor(ctx context.Context, actor entity.Actor, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	if !actor.IsAdmin() && !(actor.IsDoctor() && actor.UserID == doctorID) {
		return nil, ErrPermissionDenied
	}
	if req.ConsultationFee != nil && req.ConsultationFee.IsNegative() {
		return nil, ErrInvalidFee
	}

	doctor, err := u.find(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	oldValue := converter.DoctorProfileToResponse(doctor)

	userChanged := false
	if req.FullName != nil {
		doctor.User.FullName = *req.FullName
		userChanged = true
	}
	if req.Phone != nil {
		doctor.User.Phone = *req.Phone
		userChanged = true
	}
	if req.Specialization != nil {
		doctor.Specialization = *req.Specialization
	}
	if req.ExperienceYears != nil {
		doctor.ExperienceYears = *req.ExperienceYears
	}
	if req.Qualifications != nil {
		doctor.Qualifications = *req.Qualifications
	}
	if req.ConsultationFee != nil {
		doctor.ConsultationFee = *req.ConsultationFee
	}
	if req.Bio != nil {
		doctor.Bio = *req.Bio
	}
	if req.IsAvailable != nil {
		doctor.IsAvailable = *req.IsAvailable
	}

	newValue := converter.DoctorProfileToResponse(doctor)
	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if userChanged {
			if err := u.userRepo.Update(ctx, tx, &doctor.User); err != nil {
				u.log.Warnf("Failed to update user %s: %+v", doctorID, err)
				return err
			}
		}
		if err := u.doctorRepo.Update(ctx, tx, doctor); err != nil {
			u.log.Warnf("Failed to update doctor profile %s: %+v", doctorID, err)
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, &actor.UserID, entity.AuditActionDoctorUpdate,
			"doctor_profile", doctorID.String(), oldValue, newValue)
	})
	if err != nil {
		return nil, err
	}

	return newValue, nil
}

func (u *doctorProfileUsecase) find(ctx context.Context, doctorID uuid.UUID) (*entity.DoctorProfile, error) {
	doctor, err := u.doctorRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}
