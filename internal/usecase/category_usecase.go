package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"mvee-store/internal/domain/model"
	"mvee-store/internal/logger"
	repo "mvee-store/internal/repository"

	"go.uber.org/zap"
)

type CategoryUsecase struct {
	categories repo.CategoryRepository
	audits     repo.AuditLogRepository
}

// DI
func NewCategoryUsecase(categories repo.CategoryRepository, audits repo.AuditLogRepository) *CategoryUsecase {
	return &CategoryUsecase{
		categories: categories,
		audits:     audits,
	}
}

type CategoryListOutput struct {
	Items []model.Category `json:"items"`
}

func (u *CategoryUsecase) ListCategories(ctx context.Context) (CategoryListOutput, error) {
	items, err := u.categories.List(ctx)
	if err != nil {
		return CategoryListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return CategoryListOutput{Items: items}, nil
}

type AdminCategoryInput struct {
	Name string
	Slug string
}

func (in AdminCategoryInput) toModel() (model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 100 {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	return model.Category{Name: name, Slug: slug}, nil
}

func (u *CategoryUsecase) AdminCreateCategory(ctx context.Context, adminUserID int64, in AdminCategoryInput) (model.Category, error) {
	if adminUserID <= 0 {
		return model.Category{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	c, err := in.toModel()
	if err != nil {
		return model.Category{}, err
	}

	created, err := u.categories.Create(ctx, c)
	if errors.Is(err, repo.ErrConflict) {
		return model.Category{}, NewHTTPError(http.StatusConflict, "category already exists")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, adminUserID, model.AuditActionCreateCategory, created.ID, nil, created)
	return created, nil
}

func (u *CategoryUsecase) AdminUpdateCategory(ctx context.Context, adminUserID int64, categoryID int64, in AdminCategoryInput) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if categoryID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	c, err := in.toModel()
	if err != nil {
		return err
	}
	c.ID = categoryID

	before, err := u.categories.FindByID(ctx, categoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err = u.categories.Update(ctx, c)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if errors.Is(err, repo.ErrConflict) {
		return NewHTTPError(http.StatusConflict, "category already exists")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, adminUserID, model.AuditActionUpdateCategory, categoryID, before, c)
	return nil
}

func (u *CategoryUsecase) AdminDeleteCategory(ctx context.Context, adminUserID int64, categoryID int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if categoryID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	before, err := u.categories.FindByID(ctx, categoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err = u.categories.Delete(ctx, categoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, adminUserID, model.AuditActionDeleteCategory, categoryID, before, nil)
	return nil
}

func (u *CategoryUsecase) audit(ctx context.Context, actorID int64, action model.AuditAction, resourceID int64, before, after interface{}) {
	log := model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: model.AuditResourceCategory,
		ResourceID:   resourceID,
		BeforeJSON:   marshalAudit(before),
		AfterJSON:    marshalAudit(after),
	}
	if err := u.audits.Create(ctx, log); err != nil {
		logger.FromCtx(ctx).Warn("audit log write failed", zap.Error(err))
	}
}
