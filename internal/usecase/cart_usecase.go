package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"mvee-store/internal/cart"
	repo "mvee-store/internal/repository"
)

// CartUsecase はセッションのカート操作をまとめる。
// カート本体はcart.Storeが持ち、ここでは商品の実在チェックと入力検証だけやる
type CartUsecase struct {
	carts    *cart.Manager
	products repo.ProductRepository
}

// DI
func NewCartUsecase(carts *cart.Manager, products repo.ProductRepository) *CartUsecase {
	return &CartUsecase{
		carts:    carts,
		products: products,
	}
}

type CartOutput struct {
	Items []cart.Line `json:"items"`
	Total int64       `json:"total"`
	Count int64       `json:"count"`
}

type AddCartItemInput struct {
	ProductID int64
	Quantity  int64
	Size      string
	Color     string
}

func (u *CartUsecase) GetCart(ctx context.Context, sessionKey string) (CartOutput, error) {
	s := u.carts.Store(ctx, sessionKey)
	return u.cartOutput(s), nil
}

// カートへ追加。同一バリアントは数量加算（cart.Store側の仕事）
func (u *CartUsecase) AddItem(ctx context.Context, sessionKey string, in AddCartItemInput) (CartOutput, error) {
	if in.ProductID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	p, err := u.products.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product")
	}
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product")
	}

	//未選択は空文字で統一
	size := strings.TrimSpace(in.Size)
	color := strings.TrimSpace(in.Color)

	//商品が扱っていないバリアントは弾く
	if !p.HasSize(size) {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid size")
	}
	if !p.HasColor(color) {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid color")
	}

	s := u.carts.Store(ctx, sessionKey)
	if _, err := s.Add(ctx, p, in.Quantity, size, color); err != nil {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	return u.cartOutput(s), nil
}

// 数量の変更。1未満は何もしない（仕様どおりエラーにもしない）
func (u *CartUsecase) UpdateItem(ctx context.Context, sessionKey string, lineID string, quantity int64) (CartOutput, error) {
	if strings.TrimSpace(lineID) == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	s := u.carts.Store(ctx, sessionKey)
	s.UpdateQuantity(ctx, lineID, quantity)
	return u.cartOutput(s), nil
}

// 明細の削除。無いIDでもエラーにしない
func (u *CartUsecase) RemoveItem(ctx context.Context, sessionKey string, lineID string) (CartOutput, error) {
	if strings.TrimSpace(lineID) == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	s := u.carts.Store(ctx, sessionKey)
	s.Remove(ctx, lineID)
	return u.cartOutput(s), nil
}

func (u *CartUsecase) ClearCart(ctx context.Context, sessionKey string) (CartOutput, error) {
	s := u.carts.Store(ctx, sessionKey)
	s.Clear(ctx)
	return u.cartOutput(s), nil
}

func (u *CartUsecase) cartOutput(s *cart.Store) CartOutput {
	return CartOutput{
		Items: s.Lines(),
		Total: s.Total(),
		Count: s.Count(),
	}
}
