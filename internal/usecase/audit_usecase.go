package usecase

import (
	"context"
	"net/http"
	"time"

	"mvee-store/internal/domain/model"
	repo "mvee-store/internal/repository"
)

// 管理画面の監査ログ閲覧
type AuditUsecase struct {
	audits repo.AuditLogRepository
}

// DI
func NewAuditUsecase(audits repo.AuditLogRepository) *AuditUsecase {
	return &AuditUsecase{audits: audits}
}

type AdminListAuditLogsInput struct {
	ActorUserID  *int64
	Action       string
	ResourceType string
	ResourceID   *int64
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

type AuditLogListOutput struct {
	Items []model.AuditLog `json:"items"`
}

func (u *AuditUsecase) AdminListAuditLogs(ctx context.Context, in AdminListAuditLogsInput) (AuditLogListOutput, error) {
	if in.Limit < 0 || in.Limit > 200 {
		return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if in.Offset < 0 {
		return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid offset")
	}

	filter := repo.AuditLogFilter{
		ActorUserID: in.ActorUserID,
		ResourceID:  in.ResourceID,
		CreatedFrom: in.CreatedFrom,
		CreatedTo:   in.CreatedTo,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	if in.Action != "" {
		a := model.AuditAction(in.Action)
		filter.Action = &a
	}
	if in.ResourceType != "" {
		rt := model.AuditResourceType(in.ResourceType)
		filter.ResourceType = &rt
	}

	items, err := u.audits.List(ctx, filter)
	if err != nil {
		return AuditLogListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return AuditLogListOutput{Items: items}, nil
}
