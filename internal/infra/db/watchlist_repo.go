package db

import (
	"context"
	"time"

	"github.com/dmarchuk/tickersentry/internal/domain"
	"gorm.io/gorm"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

func (r *WatchlistRepository) Add(ctx context.Context, symbol string) (bool, error) {
	// An untracked symbol stays behind as a soft-deleted row and still
	// occupies the unique symbol slot, so re-adding restores that row.
	result := r.db.WithContext(ctx).Unscoped().Model(&watchlistModel{}).
		Where("symbol = ? AND deleted_at IS NOT NULL", symbol).
		Update("deleted_at", nil)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	model := watchlistModel{Symbol: symbol}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *WatchlistRepository) Remove(ctx context.Context, symbol string) (bool, error) {
	result := r.db.WithContext(ctx).Where("symbol = ?", symbol).Delete(&watchlistModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *WatchlistRepository) List(ctx context.Context) ([]domain.TrackedSymbol, error) {
	var models []watchlistModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapWatchlistToDomain(models), nil
}

func (r *WatchlistRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&watchlistModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func mapWatchlistToDomain(models []watchlistModel) []domain.TrackedSymbol {
	symbols := make([]domain.TrackedSymbol, 0, len(models))
	for _, model := range models {
		var deleted *time.Time
		if model.DeletedAt.Valid {
			t := model.DeletedAt.Time
			deleted = &t
		}
		symbols = append(symbols, domain.TrackedSymbol{
			ID:        model.ID,
			Symbol:    model.Symbol,
			CreatedAt: model.CreatedAt,
			UpdatedAt: model.UpdatedAt,
			DeletedAt: deleted,
		})
	}
	return symbols
}
