package repository

import (
	"context"
	"errors"

	"mvee-store/internal/domain/model"
	repo "mvee-store/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// カート永続化ポートのGORM実装。
// セッションキーごとに1行、常にUPSERTでまるごと上書きする
type CartSnapshotGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartSnapshotGormRepository(db *gorm.DB) *CartSnapshotGormRepository {
	return &CartSnapshotGormRepository{db: db}
}

func (r *CartSnapshotGormRepository) Save(ctx context.Context, sessionKey string, payload string) error {
	snap := model.CartSnapshot{
		SessionKey: sessionKey,
		Payload:    payload,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&snap).Error
}

func (r *CartSnapshotGormRepository) Load(ctx context.Context, sessionKey string) (string, error) {
	var snap model.CartSnapshot
	err := r.db.WithContext(ctx).
		Where("session_key = ?", sessionKey).
		First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", repo.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return snap.Payload, nil
}
