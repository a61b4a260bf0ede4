package repository

import (
	"context"
	"errors"

	"clinic-appointment-api/internal/domain/entity"
	domainRepo "clinic-appointment-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type weeklyTemplateRepository struct{}

func NewWeeklyTemplateRepository() domainRepo.WeeklyTemplateRepository {
	return &weeklyTemplateRepository{}
}

func (r *weeklyTemplateRepository) Create(ctx context.Context, db *gorm.DB, template *entity.WeeklyTemplate) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(template).Error
}

func (r *weeklyTemplateRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.WeeklyTemplate, error) {
	var template entity.WeeklyTemplate
	err := db.WithContext(ctx).Where("id = ?", id).First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

func (r *weeklyTemplateRepository) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.WeeklyTemplate, error) {
	var templates []entity.WeeklyTemplate
	err := db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("day_of_week ASC, start_time ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *weeklyTemplateRepository) FindAvailableByDoctorAndDay(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, dayOfWeek int) ([]entity.WeeklyTemplate, error) {
	var templates []entity.WeeklyTemplate
	err := db.WithContext(ctx).
		Where("doctor_id = ? AND day_of_week = ? AND is_available = ?", doctorID, dayOfWeek, true).
		Order("start_time ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *weeklyTemplateRepository) Update(ctx context.Context, db *gorm.DB, template *entity.WeeklyTemplate) error {
	return db.WithContext(ctx).Omit(clause.Associations).Save(template).Error
}

func (r *weeklyTemplateRepository) Delete(ctx context.Context, db *gorm.DB, id int) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.WeeklyTemplate{})
	return result.RowsAffected, result.Error
}
