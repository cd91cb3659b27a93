package repository

import (
	"context"

	"mvee-store/internal/domain/model"
)

// 管理画面の注文一覧の絞り込み
type OrderListQuery struct {
	Status *model.OrderStatus
	Page   int
	Limit  int
}

type OrderRepository interface {
	//注文と明細を1トランザクションで作る
	CreateWithItems(ctx context.Context, o model.Order, items []model.OrderItem) (model.Order, error)

	List(ctx context.Context, q OrderListQuery) ([]model.Order, int64, error)
	FindByID(ctx context.Context, id int64) (model.Order, error)
	ListItemsByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)

	UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error
	Delete(ctx context.Context, id int64) error
}
