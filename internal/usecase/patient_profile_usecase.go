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

type PatientProfileUsecase interface {
	// ListPatients is role-scoped: admins see every patient, doctors the
	// patients who booked with them, patients only themselves.
	ListPatients(ctx context.Context, actor entity.Actor) (*dto.PatientListResponse, error)
	GetPatient(ctx context.Context, actor entity.Actor, patientID uuid.UUID) (*dto.PatientResponse, error)
	UpdateSelfProfile(ctx context.Context, actor entity.Actor, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
}

type patientProfileUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	transactor   repository.Transactor
	userRepo     repository.UserRepository
	patientRepo  repository.PatientProfileRepository
	auditService service.AuditService
}

func NewPatientProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	transactor repository.Transactor,
	userRepo repository.UserRepository,
	patientRepo repository.PatientProfileRepository,
	auditService service.AuditService,
) PatientProfileUsecase {
	return &patientProfileUsecase{
		db:           db,
		log:          log,
		transactor:   transactor,
		userRepo:     userRepo,
		patientRepo:  patientRepo,
		auditService: auditService,
	}
}

func (u *patientProfileUsecase) ListPatients(ctx context.Context, actor entity.Actor) (*dto.PatientListResponse, error) {
	patients, err := u.patientRepo.FindAll(ctx, u.db, actor)
	if err != nil {
		u.log.Warnf("Failed to find patients for %s: %+v", actor.UserID, err)
		return nil, err
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientProfilesToResponses(patients),
		Total:    len(patients),
	}, nil
}

func (u *patientProfileUsecase) GetPatient(ctx context.Context, actor entity.Actor, patientID uuid.UUID) (*dto.PatientResponse, error) {
	patients, err := u.patientRepo.FindAll(ctx, u.db, actor)
	if err != nil {
		u.log.Warnf("Failed to find patients for %s: %+v", actor.UserID, err)
		return nil, err
	}

	for i := range patients {
		if patients[i].UserID == patientID {
			return converter.PatientProfileToResponse(&patients[i]), nil
		}
	}

	// hidden and missing patients look the same to the caller
	return nil, ErrPatientNotFound
}

// UpdateSelfProfile lets a patient edit contact and medical details.
// Date of birth is not editable.
func (u *patientProfileUsecase) UpdateSelfProfile(ctx context.Context, actor entity.Actor, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	if !actor.IsPatient() {
		return nil, ErrPermissionDenied
	}

	patient, err := u.patientRepo.FindByUserID(ctx, u.db, actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", actor.UserID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	oldValue := converter.PatientProfileToResponse(patient)

	userChanged := false
	if req.FullName != nil {
		patient.User.FullName = *req.FullName
		userChanged = true
	}
	if req.Phone != nil {
		patient.User.Phone = *req.Phone
		userChanged = true
	}
	if req.MedicalHistory != nil {
		patient.MedicalHistory = req.MedicalHistory
	}
	if req.EmergencyContact != nil {
		patient.EmergencyContact = req.EmergencyContact
	}
	if req.BloodGroup != nil {
		patient.BloodGroup = req.BloodGroup
	}
	if req.Allergies != nil {
		patient.Allergies = req.Allergies
	}

	newValue := converter.PatientProfileToResponse(patient)
	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if userChanged {
			if err := u.userRepo.Update(ctx, tx, &patient.User); err != nil {
				u.log.Warnf("Failed to update user %s: %+v", actor.UserID, err)
				return err
			}
		}
		if err := u.patientRepo.Update(ctx, tx, patient); err != nil {
			u.log.Warnf("Failed to update patient profile %s: %+v", actor.UserID, err)
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, &actor.UserID, entity.AuditActionPatientUpdate,
			"patient_profile", actor.UserID.String(), oldValue, newValue)
	})
	if err != nil {
		return nil, err
	}

	return newValue, nil
}
