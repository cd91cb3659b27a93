package usecase

import (
	"context"
	"errors"
	"net/http"

	"mvee-store/internal/domain/model"
	"mvee-store/internal/logger"
	repo "mvee-store/internal/repository"

	"go.uber.org/zap"
)

// 管理画面の注文まわり
type OrderUsecase struct {
	orders repo.OrderRepository
	audits repo.AuditLogRepository
}

// DI
func NewOrderUsecase(orders repo.OrderRepository, audits repo.AuditLogRepository) *OrderUsecase {
	return &OrderUsecase{
		orders: orders,
		audits: audits,
	}
}

type AdminListOrdersInput struct {
	Status string
	Page   int
	Limit  int
}

type OrderListOutput struct {
	Items []model.Order `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

type OrderDetailOutput struct {
	Order model.Order       `json:"order"`
	Items []model.OrderItem `json:"items"`
}

func (u *OrderUsecase) AdminListOrders(ctx context.Context, in AdminListOrdersInput) (OrderListOutput, error) {
	if in.Page < 1 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	q := repo.OrderListQuery{Page: in.Page, Limit: in.Limit}
	if in.Status != "" {
		st := model.OrderStatus(in.Status)
		if !st.Valid() {
			return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		q.Status = &st
	}

	items, total, err := u.orders.List(ctx, q)
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return OrderListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *OrderUsecase) AdminGetOrder(ctx context.Context, orderID int64) (OrderDetailOutput, error) {
	if orderID <= 0 {
		return OrderDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.orders.ListItemsByOrderID(ctx, orderID)
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return OrderDetailOutput{Order: o, Items: items}, nil
}

func (u *OrderUsecase) AdminUpdateOrderStatus(ctx context.Context, adminUserID int64, orderID int64, status string) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	st := model.OrderStatus(status)
	if !st.Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	before, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err = u.orders.UpdateStatus(ctx, orderID, st)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	after := before
	after.Status = st
	u.audit(ctx, adminUserID, model.AuditActionUpdateOrderStatus, orderID, before, after)
	return nil
}

func (u *OrderUsecase) AdminDeleteOrder(ctx context.Context, adminUserID int64, orderID int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	before, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err = u.orders.Delete(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, adminUserID, model.AuditActionDeleteOrder, orderID, before, nil)
	return nil
}

func (u *OrderUsecase) audit(ctx context.Context, actorID int64, action model.AuditAction, resourceID int64, before, after interface{}) {
	log := model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   resourceID,
		BeforeJSON:   marshalAudit(before),
		AfterJSON:    marshalAudit(after),
	}
	if err := u.audits.Create(ctx, log); err != nil {
		logger.FromCtx(ctx).Warn("audit log write failed", zap.Error(err))
	}
}
