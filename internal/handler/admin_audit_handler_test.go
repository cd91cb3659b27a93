package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mvee-store/internal/domain/model"
	repo "mvee-store/internal/repository"
	"mvee-store/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 受け取ったフィルタを記録するだけのリポジトリ
type recordingAuditRepo struct {
	filter repo.AuditLogFilter
}

func (r *recordingAuditRepo) Create(ctx context.Context, log model.AuditLog) error {
	panic("not used in AdminAuditHandler tests")
}

func (r *recordingAuditRepo) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	r.filter = f
	return []model.AuditLog{}, nil
}

func runAuditList(t *testing.T, query string) (*httptest.ResponseRecorder, *recordingAuditRepo) {
	t.Helper()

	audits := &recordingAuditRepo{}
	h := NewAdminAuditHandler(usecase.NewAuditUsecase(audits))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/audit-logs"+query, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.list(c))
	return rec, audits
}

func TestAdminAuditHandler_List_TimeRangeReachesFilter(t *testing.T) {
	rec, audits := runAuditList(t, "?created_from=2026-08-01T00:00:00Z&created_to=2026-08-28T00:00:00Z")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, audits.filter.CreatedFrom)
	require.NotNil(t, audits.filter.CreatedTo)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), audits.filter.CreatedFrom.UTC())
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), audits.filter.CreatedTo.UTC())
}

func TestAdminAuditHandler_List_RejectsBadTimestamp(t *testing.T) {
	rec, _ := runAuditList(t, "?created_from=yesterday")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = runAuditList(t, "?created_to=2026/08/28")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminAuditHandler_List_ActorAndResourceFilters(t *testing.T) {
	rec, audits := runAuditList(t, "?actor_user_id=7&resource_type=product&resource_id=42")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, audits.filter.ActorUserID)
	assert.Equal(t, int64(7), *audits.filter.ActorUserID)
	require.NotNil(t, audits.filter.ResourceType)
	assert.Equal(t, model.AuditResourceProduct, *audits.filter.ResourceType)
	require.NotNil(t, audits.filter.ResourceID)
	assert.Equal(t, int64(42), *audits.filter.ResourceID)
}
