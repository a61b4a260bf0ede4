package repository

import (
	"context"

	"clinic-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WeeklyTemplateRepository interface {
	Create(ctx context.Context, db *gorm.DB, template *entity.WeeklyTemplate) error
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.WeeklyTemplate, error)
	FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.WeeklyTemplate, error)
	FindAvailableByDoctorAndDay(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, dayOfWeek int) ([]entity.WeeklyTemplate, error)
	Update(ctx context.Context, db *gorm.DB, template *entity.WeeklyTemplate) error
	Delete(ctx context.Context, db *gorm.DB, id int) (int64, error)
}
