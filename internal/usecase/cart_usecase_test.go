package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"mvee-store/internal/cart"
	"mvee-store/internal/domain/model"
	repo "mvee-store/internal/repository"
	"mvee-store/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// メモリだけのスナップショット置き場
type memSnapshotRepo struct {
	payloads map[string]string
}

func newMemSnapshotRepo() *memSnapshotRepo {
	return &memSnapshotRepo{payloads: map[string]string{}}
}

func (m *memSnapshotRepo) Save(ctx context.Context, sessionKey string, payload string) error {
	m.payloads[sessionKey] = payload
	return nil
}

func (m *memSnapshotRepo) Load(ctx context.Context, sessionKey string) (string, error) {
	p, ok := m.payloads[sessionKey]
	if !ok {
		return "", repo.ErrNotFound
	}
	return p, nil
}

func newCartManager() *cart.Manager {
	return cart.NewManager(newMemSnapshotRepo(), zap.NewNop())
}

func cartProduct() model.Product {
	return model.Product{
		ID:       1,
		Name:     "Basic Tee",
		Slug:     "basic-tee",
		Price:    150,
		Sizes:    model.StringList{"M", "L"},
		Colors:   model.ColorList{{Name: "Black"}},
		InStock:  true,
		IsActive: true,
	}
}

func TestCartUsecase_AddItem_OK(t *testing.T) {
	productRepo := new(ProdProductRepoMock)
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(cartProduct(), nil)

	uc := usecase.NewCartUsecase(newCartManager(), productRepo)

	out, err := uc.AddItem(context.Background(), "sess-1", usecase.AddCartItemInput{
		ProductID: 1,
		Quantity:  2,
		Size:      "M",
		Color:     "Black",
	})
	require.NoError(t, err)

	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(300), out.Total)
	assert.Equal(t, int64(2), out.Count)
}

func TestCartUsecase_AddItem_InvalidQuantity(t *testing.T) {
	uc := usecase.NewCartUsecase(newCartManager(), new(ProdProductRepoMock))

	_, err := uc.AddItem(context.Background(), "sess-1", usecase.AddCartItemInput{
		ProductID: 1,
		Quantity:  0,
	})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestCartUsecase_AddItem_UnknownProduct(t *testing.T) {
	productRepo := new(ProdProductRepoMock)
	productRepo.On("FindByID", mock.Anything, int64(99)).
		Return(model.Product{}, repo.ErrNotFound)

	uc := usecase.NewCartUsecase(newCartManager(), productRepo)

	_, err := uc.AddItem(context.Background(), "sess-1", usecase.AddCartItemInput{
		ProductID: 99,
		Quantity:  1,
	})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestCartUsecase_AddItem_InactiveProduct(t *testing.T) {
	p := cartProduct()
	p.IsActive = false

	productRepo := new(ProdProductRepoMock)
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(p, nil)

	uc := usecase.NewCartUsecase(newCartManager(), productRepo)

	_, err := uc.AddItem(context.Background(), "sess-1", usecase.AddCartItemInput{
		ProductID: 1,
		Quantity:  1,
	})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestCartUsecase_AddItem_UnknownVariant(t *testing.T) {
	productRepo := new(ProdProductRepoMock)
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(cartProduct(), nil)

	uc := usecase.NewCartUsecase(newCartManager(), productRepo)

	//XXLは扱っていない
	_, err := uc.AddItem(context.Background(), "sess-1", usecase.AddCartItemInput{
		ProductID: 1,
		Quantity:  1,
		Size:      "XXL",
	})
	assertHTTPStatus(t, err, http.StatusBadRequest)

	_, err = uc.AddItem(context.Background(), "sess-1", usecase.AddCartItemInput{
		ProductID: 1,
		Quantity:  1,
		Color:     "Red",
	})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestCartUsecase_AddItem_NoVariantIsAllowed(t *testing.T) {
	productRepo := new(ProdProductRepoMock)
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(cartProduct(), nil)

	uc := usecase.NewCartUsecase(newCartManager(), productRepo)

	//サイズ・色の未選択は許される
	out, err := uc.AddItem(context.Background(), "sess-1", usecase.AddCartItemInput{
		ProductID: 1,
		Quantity:  1,
	})
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
}

func TestCartUsecase_UpdateItem_BelowOneIsNoop(t *testing.T) {
	productRepo := new(ProdProductRepoMock)
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(cartProduct(), nil)

	uc := usecase.NewCartUsecase(newCartManager(), productRepo)
	ctx := context.Background()

	added, err := uc.AddItem(ctx, "sess-1", usecase.AddCartItemInput{ProductID: 1, Quantity: 3, Size: "M"})
	require.NoError(t, err)

	out, err := uc.UpdateItem(ctx, "sess-1", added.Items[0].ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.Count)
}

func TestCartUsecase_RemoveItem_UnknownIDIsNoop(t *testing.T) {
	uc := usecase.NewCartUsecase(newCartManager(), new(ProdProductRepoMock))

	out, err := uc.RemoveItem(context.Background(), "sess-1", "no-such-line")
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}

func TestCartUsecase_ClearCart(t *testing.T) {
	productRepo := new(ProdProductRepoMock)
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(cartProduct(), nil)

	uc := usecase.NewCartUsecase(newCartManager(), productRepo)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "sess-1", usecase.AddCartItemInput{ProductID: 1, Quantity: 2})
	require.NoError(t, err)

	out, err := uc.ClearCart(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.Equal(t, int64(0), out.Total)
}

func TestCartUsecase_SessionsAreIsolated(t *testing.T) {
	productRepo := new(ProdProductRepoMock)
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(cartProduct(), nil)

	uc := usecase.NewCartUsecase(newCartManager(), productRepo)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "sess-a", usecase.AddCartItemInput{ProductID: 1, Quantity: 1})
	require.NoError(t, err)

	out, err := uc.GetCart(ctx, "sess-b")
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}
