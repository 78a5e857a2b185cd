package db

import (
	"context"

	"github.com/dmarchuk/tickersentry/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AlertLogRepository struct {
	db *gorm.DB
}

func NewAlertLogRepository(db *gorm.DB) *AlertLogRepository {
	return &AlertLogRepository{db: db}
}

// Record inserts with ON CONFLICT DO NOTHING on the (symbol, alert_day)
// unique index. RowsAffected tells racing callers apart: exactly one of
// them observes the insert.
func (r *AlertLogRepository) Record(ctx context.Context, record domain.AlertRecord) (bool, error) {
	model := mapAlertToModel(record)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "alert_day"}},
		DoNothing: true,
	}).Create(&model)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *AlertLogRepository) LastAlertDay(ctx context.Context, symbol string) (domain.Day, bool, error) {
	var model alertModel
	err := r.db.WithContext(ctx).Where("symbol = ?", symbol).Order("alert_day DESC").First(&model).Error
	if err == gorm.ErrRecordNotFound {
		return domain.Day{}, false, nil
	}
	if err != nil {
		return domain.Day{}, false, err
	}
	day, err := domain.ParseDay(model.AlertDay)
	if err != nil {
		return domain.Day{}, false, err
	}
	return day, true, nil
}

func (r *AlertLogRepository) History(ctx context.Context, symbol string, limit int) ([]domain.AlertRecord, error) {
	var models []alertModel
	query := r.db.WithContext(ctx).Where("symbol = ?", symbol).Order("alert_day DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models)
}

func (r *AlertLogRepository) PruneBefore(ctx context.Context, cutoff domain.Day) (int64, error) {
	result := r.db.WithContext(ctx).Where("alert_day < ?", cutoff.String()).Delete(&alertModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func mapAlertsToDomain(models []alertModel) ([]domain.AlertRecord, error) {
	records := make([]domain.AlertRecord, 0, len(models))
	for _, model := range models {
		day, err := domain.ParseDay(model.AlertDay)
		if err != nil {
			return nil, err
		}
		records = append(records, domain.AlertRecord{
			ID:        model.ID,
			Symbol:    model.Symbol,
			Day:       day,
			Kind:      model.Kind,
			Note:      model.Note,
			CreatedAt: model.CreatedAt,
		})
	}
	return records, nil
}

func mapAlertToModel(record domain.AlertRecord) alertModel {
	return alertModel{
		Symbol:   record.Symbol,
		AlertDay: record.Day.String(),
		Kind:     record.Kind,
		Note:     record.Note,
	}
}
