package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"mvee-store/internal/cart"
	"mvee-store/internal/checkout"
	"mvee-store/internal/domain/model"
	repo "mvee-store/internal/repository"
)

// 配送フォームの検証。実装はvalidatorパッケージ
type CheckoutValidator interface {
	Validate(in CheckoutInput) error
}

// ストア側の固定値（configから渡す）
type CheckoutSettings struct {
	WhatsAppNumber        string
	FreeDeliveryThreshold int64
	DeliveryFee           int64
	OrderRefPrefix        string
}

type CheckoutUsecase struct {
	carts     *cart.Manager
	orders    repo.OrderRepository
	validator CheckoutValidator
	settings  CheckoutSettings
	now       func() time.Time
}

// DI
func NewCheckoutUsecase(
	carts *cart.Manager,
	orders repo.OrderRepository,
	validator CheckoutValidator,
	settings CheckoutSettings,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		carts:     carts,
		orders:    orders,
		validator: validator,
		settings:  settings,
		now:       time.Now,
	}
}

type CheckoutInput struct {
	CustomerName string
	Phone        string
	Address      string
	Notes        string
}

type CheckoutOutput struct {
	OrderID     int64  `json:"order_id"`
	Ref         string `json:"ref"`
	Subtotal    int64  `json:"subtotal"`
	DeliveryFee int64  `json:"delivery_fee"`
	Total       int64  `json:"total"`
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsapp_url"`
}

// PlaceOrder はチェックアウトを確定する。
// フォーム検証 → 金額確定 → 注文の保存 → WhatsAppリンク生成 → カートを空にする。
// 検証で弾かれたら何も書かない（部分的な注文は残さない）
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, sessionKey string, in CheckoutInput) (CheckoutOutput, error) {
	if err := u.validator.Validate(in); err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	store := u.carts.Store(ctx, sessionKey)
	lines := store.Lines()
	if len(lines) == 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	//小計は上で読んだlinesから出す。store.Total()は別ロックなので
	//並行更新が挟まると明細と食い違う金額を保存しかねない
	var subtotal int64
	for _, l := range lines {
		subtotal += l.Price * l.Quantity
	}

	totals := checkout.CalcTotals(subtotal, u.settings.FreeDeliveryThreshold, u.settings.DeliveryFee)
	ref := checkout.NewOrderRef(u.settings.OrderRefPrefix, u.now())

	customer := checkout.Customer{
		Name:    strings.TrimSpace(in.CustomerName),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
		Notes:   strings.TrimSpace(in.Notes),
	}

	order := model.Order{
		Ref:          ref,
		CustomerName: customer.Name,
		Phone:        customer.Phone,
		Address:      customer.Address,
		Notes:        customer.Notes,
		Subtotal:     totals.Subtotal,
		DeliveryFee:  totals.DeliveryFee,
		Total:        totals.GrandTotal,
		Status:       model.OrderStatusPending,
	}

	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, model.OrderItem{
			ProductID:           l.ProductID,
			ProductNameSnapshot: l.Name,
			UnitPriceSnapshot:   l.Price,
			Size:                l.Size,
			Color:               l.Color,
			ImageURL:            l.Image,
			Quantity:            l.Quantity,
		})
	}

	created, err := u.orders.CreateWithItems(ctx, order, items)
	if err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	message := checkout.BuildMessage(ref, lines, customer, totals)
	link := checkout.DeepLink(u.settings.WhatsAppNumber, message)

	//注文確定後はカートを空にする（スナップショットも空で上書きされる）
	store.Clear(ctx)

	return CheckoutOutput{
		OrderID:     created.ID,
		Ref:         ref,
		Subtotal:    totals.Subtotal,
		DeliveryFee: totals.DeliveryFee,
		Total:       totals.GrandTotal,
		Message:     message,
		WhatsAppURL: link,
	}, nil
}
