package repository

import (
	"context"

	"mvee-store/internal/domain/model"
)

type CategoryRepository interface {
	//名前順で全件
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)

	// slug重複は ErrConflict
	Create(ctx context.Context, c model.Category) (model.Category, error)
	Update(ctx context.Context, c model.Category) error
	Delete(ctx context.Context, id int64) error
}
