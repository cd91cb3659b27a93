package repository

import (
	"context"
	"errors"

	"mvee-store/internal/domain/model"
)

var (
	ErrNotFound = errors.New("not found")

	// slugやメールなどの一意制約違反
	ErrConflict = errors.New("conflict")
)

// 商品の永続化（保存・取得）だけを約束
type ProductRepository interface {
	//公開中の商品を新着順で全部返す。絞り込みはcatalogパッケージ側でやる
	ListActive(ctx context.Context) ([]model.Product, error)

	//管理画面用。非公開も含めてページングで返す
	ListAll(ctx context.Context, page, limit int) ([]model.Product, int64, error)

	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindBySlug(ctx context.Context, slug string) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error
}
