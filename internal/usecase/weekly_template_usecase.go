package usecase

import (
	"context"
	"strconv"

	"clinic-appointment-api/internal/converter"
	"clinic-appointment-api/internal/delivery/dto"
	"clinic-appointment-api/internal/domain/entity"
	"clinic-appointment-api/internal/domain/repository"
	repoImpl "clinic-appointment-api/internal/repository"
	"clinic-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const templateSlotConstraint = "uq_weekly_templates_doctor_day_start"

type WeeklyTemplateUsecase interface {
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.WeeklyTemplateListResponse, error)
	Create(ctx context.Context, actor entity.Actor, req *dto.CreateWeeklyTemplateRequest) (*dto.WeeklyTemplateResponse, error)
	Update(ctx context.Context, actor entity.Actor, id int, req *dto.UpdateWeeklyTemplateRequest) (*dto.WeeklyTemplateResponse, error)
	Delete(ctx context.Context, actor entity.Actor, id int) error
}

type weeklyTemplateUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	transactor   repository.Transactor
	templateRepo repository.WeeklyTemplateRepository
	doctorRepo   repository.DoctorProfileRepository
	auditService service.AuditService
}

func NewWeeklyTemplateUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	transactor repository.Transactor,
	templateRepo repository.WeeklyTemplateRepository,
	doctorRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
) WeeklyTemplateUsecase {
	return &weeklyTemplateUsecase{
		db:           db,
		log:          log,
		transactor:   transactor,
		templateRepo: templateRepo,
		doctorRepo:   doctorRepo,
		auditService: auditService,
	}
}

func (u *weeklyTemplateUsecase) ListByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.WeeklyTemplateListResponse, error) {
	doctor, err := u.doctorRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	templates, err := u.templateRepo.FindByDoctorID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to list templates of doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.WeeklyTemplateListResponse{
		Templates: converter.WeeklyTemplatesToResponses(templates),
		Total:     len(templates),
	}, nil
}

// Create adds a template owned by the calling doctor. Templates that overlap
// other templates of the same day are accepted.
func (u *weeklyTemplateUsecase) Create(ctx context.Context, actor entity.Actor, req *dto.CreateWeeklyTemplateRequest) (*dto.WeeklyTemplateResponse, error) {
	if !actor.IsDoctor() {
		return nil, ErrPermissionDenied
	}
	if req.DayOfWeek == nil || !entity.ValidDayOfWeek(*req.DayOfWeek) {
		return nil, ErrInvalidDayOfWeek
	}
	window, err := parseTimeRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	template := &entity.WeeklyTemplate{
		DoctorID:    actor.UserID,
		DayOfWeek:   *req.DayOfWeek,
		StartTime:   window.Start,
		EndTime:     window.End,
		IsAvailable: req.IsAvailable == nil || *req.IsAvailable,
	}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.templateRepo.Create(ctx, tx, template); err != nil {
			return u.translateWriteError(err)
		}
		return u.auditService.LogCreate(ctx, tx, &actor.UserID, entity.AuditActionTemplateCreate,
			"weekly_template", strconv.Itoa(template.ID), converter.WeeklyTemplateToResponse(template))
	})
	if err != nil {
		return nil, err
	}

	return converter.WeeklyTemplateToResponse(template), nil
}

func (u *weeklyTemplateUsecase) Update(ctx context.Context, actor entity.Actor, id int, req *dto.UpdateWeeklyTemplateRequest) (*dto.WeeklyTemplateResponse, error) {
	template, err := u.findManageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	before := converter.WeeklyTemplateToResponse(template)

	if req.DayOfWeek != nil {
		if !entity.ValidDayOfWeek(*req.DayOfWeek) {
			return nil, ErrInvalidDayOfWeek
		}
		template.DayOfWeek = *req.DayOfWeek
	}

	start, end := template.StartTime.String(), template.EndTime.String()
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}
	window, err := parseTimeRange(start, end)
	if err != nil {
		return nil, err
	}
	template.StartTime = window.Start
	template.EndTime = window.End

	if req.IsAvailable != nil {
		template.IsAvailable = *req.IsAvailable
	}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.templateRepo.Update(ctx, tx, template); err != nil {
			return u.translateWriteError(err)
		}
		return u.auditService.LogUpdate(ctx, tx, &actor.UserID, entity.AuditActionTemplateUpdate,
			"weekly_template", strconv.Itoa(template.ID), before, converter.WeeklyTemplateToResponse(template))
	})
	if err != nil {
		return nil, err
	}

	return converter.WeeklyTemplateToResponse(template), nil
}

func (u *weeklyTemplateUsecase) Delete(ctx context.Context, actor entity.Actor, id int) error {
	template, err := u.findManageable(ctx, actor, id)
	if err != nil {
		return err
	}

	return u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		rows, err := u.templateRepo.Delete(ctx, tx, id)
		if err != nil {
			u.log.Warnf("Failed to delete template %d: %+v", id, err)
			return err
		}
		if rows == 0 {
			return ErrTemplateNotFound
		}
		return u.auditService.LogDelete(ctx, tx, &actor.UserID, entity.AuditActionTemplateDelete,
			"weekly_template", strconv.Itoa(id), converter.WeeklyTemplateToResponse(template))
	})
}

func (u *weeklyTemplateUsecase) findManageable(ctx context.Context, actor entity.Actor, id int) (*entity.WeeklyTemplate, error) {
	template, err := u.templateRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find template %d: %+v", id, err)
		return nil, err
	}
	if template == nil {
		return nil, ErrTemplateNotFound
	}
	if !actor.CanManageTemplate(template) {
		return nil, ErrPermissionDenied
	}
	return template, nil
}

func (u *weeklyTemplateUsecase) translateWriteError(err error) error {
	if repoImpl.IsUniqueViolation(err, templateSlotConstraint) {
		return ErrTemplateDuplicate
	}
	u.log.Warnf("Failed to save weekly template: %+v", err)
	return err
}
