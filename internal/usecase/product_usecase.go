package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"mvee-store/internal/catalog"
	"mvee-store/internal/domain/model"
	"mvee-store/internal/logger"
	repo "mvee-store/internal/repository"

	"go.uber.org/zap"
)

type ProductUsecase struct {
	products repo.ProductRepository
	audits   repo.AuditLogRepository
}

// DI
func NewProductUsecase(products repo.ProductRepository, audits repo.AuditLogRepository) *ProductUsecase {
	return &ProductUsecase{
		products: products,
		audits:   audits,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Category     string
	Subcategory  string
	Search       string
	MinPrice     *int64
	MaxPrice     *int64
	InStockOnly  bool
	FeaturedOnly bool
	Sort         string
	Page         int
	Limit        int
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// 公開カタログ。DBから公開商品を新着順で取り、catalogのパイプラインで
// 絞り込み・並び替えしてからページングする
func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Search) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}

	sortKey := catalog.SortKey(in.Sort)
	if in.Sort == "" {
		sortKey = catalog.SortNewest
	}
	if !sortKey.Valid() {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, err := u.products.ListActive(ctx)
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	filtered := catalog.Apply(items, catalog.Filter{
		Category:     in.Category,
		Subcategory:  in.Subcategory,
		Search:       strings.TrimSpace(in.Search),
		MinPrice:     in.MinPrice,
		MaxPrice:     in.MaxPrice,
		InStockOnly:  in.InStockOnly,
		FeaturedOnly: in.FeaturedOnly,
		Sort:         sortKey,
	})

	total := int64(len(filtered))

	//ページング（範囲外は空）。掛け算を先にやるとpageが巨大なとき
	//オーバーフローするので、割り算側で範囲内かを先に判定する
	start := len(filtered)
	if in.Page-1 <= len(filtered)/in.Limit {
		start = (in.Page - 1) * in.Limit
	}
	end := start + in.Limit
	if end > len(filtered) {
		end = len(filtered)
	}

	return ProductListOutput{
		Items: filtered[start:end],
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

// slugで商品詳細。非公開は404扱い
func (u *ProductUsecase) GetProductBySlug(ctx context.Context, slug string) (model.Product, error) {
	if strings.TrimSpace(slug) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid slug")
	}

	p, err := u.products.FindBySlug(ctx, slug)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return p, nil
}

// =====================
// Admin
// =====================

type AdminProductInput struct {
	Name          string
	Slug          string
	Description   string
	Price         int64
	OriginalPrice *int64
	Category      string
	Subcategory   string
	Images        model.ImageList
	Sizes         model.StringList
	Colors        model.ColorList
	InStock       bool
	Featured      bool
	Promotion     bool
	IsActive      bool
}

func (in AdminProductInput) validate() error {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 255 {
		return NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.OriginalPrice != nil && *in.OriginalPrice < 0 {
		return NewHTTPError(http.StatusBadRequest, "original_price must be >= 0")
	}
	if strings.TrimSpace(in.Category) == "" {
		return NewHTTPError(http.StatusBadRequest, "category is required")
	}
	return nil
}

func (in AdminProductInput) toModel() model.Product {
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = Slugify(in.Name)
	}
	return model.Product{
		Name:          strings.TrimSpace(in.Name),
		Slug:          slug,
		Description:   in.Description,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Category:      in.Category,
		Subcategory:   in.Subcategory,
		Images:        in.Images,
		Sizes:         in.Sizes,
		Colors:        in.Colors,
		InStock:       in.InStock,
		Featured:      in.Featured,
		Promotion:     in.Promotion,
		IsActive:      in.IsActive,
	}
}

func (u *ProductUsecase) AdminListProducts(ctx context.Context, page, limit int) (ProductListOutput, error) {
	if page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.products.ListAll(ctx, page, limit)
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ProductListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// 管理画面の詳細。非公開も返す
func (u *ProductUsecase) AdminGetProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, adminUserID int64, in AdminProductInput) (model.Product, error) {
	if adminUserID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}

	created, err := u.products.Create(ctx, in.toModel())
	if errors.Is(err, repo.ErrConflict) {
		return model.Product{}, NewHTTPError(http.StatusConflict, "slug already used")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, adminUserID, model.AuditActionCreateProduct, created.ID, nil, created)
	return created, nil
}

func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, adminUserID int64, productID int64, in AdminProductInput) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := in.validate(); err != nil {
		return err
	}

	before, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p := in.toModel()
	p.ID = productID

	err = u.products.Update(ctx, p)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if errors.Is(err, repo.ErrConflict) {
		return NewHTTPError(http.StatusConflict, "slug already used")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, adminUserID, model.AuditActionUpdateProduct, productID, before, p)
	return nil
}

func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, adminUserID int64, productID int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	before, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err = u.products.SoftDelete(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, adminUserID, model.AuditActionDeleteProduct, productID, before, nil)
	return nil
}

// 監査ログは操作の成否を変えない（失敗はログだけ残す）
func (u *ProductUsecase) audit(ctx context.Context, actorID int64, action model.AuditAction, resourceID int64, before, after interface{}) {
	log := model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   resourceID,
		BeforeJSON:   marshalAudit(before),
		AfterJSON:    marshalAudit(after),
	}
	if err := u.audits.Create(ctx, log); err != nil {
		logger.FromCtx(ctx).Warn("audit log write failed", zap.Error(err))
	}
}

func marshalAudit(v interface{}) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
