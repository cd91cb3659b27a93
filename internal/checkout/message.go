package checkout

import (
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"mvee-store/internal/cart"
)

// 注文サマリの金額
type Totals struct {
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"delivery_fee"`
	GrandTotal  int64 `json:"grand_total"`
}

// フォーム入力の配送先
type Customer struct {
	Name    string
	Phone   string
	Address string
	Notes   string
}

// CalcTotals は配送料を確定する。小計がしきい値以上なら無料
func CalcTotals(subtotal, freeThreshold, flatFee int64) Totals {
	fee := flatFee
	if subtotal >= freeThreshold {
		fee = 0
	}
	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		GrandTotal:  subtotal + fee,
	}
}

// NewOrderRef は PREFIX-YYYYMMDD-NNNN 形式の注文参照番号を作る。
// メッセージ上の目印であってDBのキーではないので、一意性は保証しない
func NewOrderRef(prefix string, now time.Time) string {
	n := 1000 + rand.Intn(9000)
	return fmt.Sprintf("%s-%s-%04d", prefix, now.Format("20060102"), n)
}

// BuildMessage はWhatsAppへ送る注文メッセージ本文を組み立てる。
// 同じ入力からは必ず同じ本文になる
func BuildMessage(ref string, lines []cart.Line, customer Customer, t Totals) string {
	var b strings.Builder

	b.WriteString("*New Order from MVEE Clothing*\n\n")
	fmt.Fprintf(&b, "Order Ref: %s\n\n", ref)

	b.WriteString("*Customer Details:*\n")
	fmt.Fprintf(&b, "Name: %s\n", customer.Name)
	fmt.Fprintf(&b, "Phone: %s\n", customer.Phone)
	fmt.Fprintf(&b, "Address: %s\n", customer.Address)
	if customer.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", customer.Notes)
	}

	b.WriteString("\n*Order Items:*\n")
	for i, l := range lines {
		fmt.Fprintf(&b, "%d. %s", i+1, l.Name)
		if l.Size != "" {
			fmt.Fprintf(&b, " (Size: %s)", l.Size)
		}
		if l.Color != "" {
			fmt.Fprintf(&b, " (Color: %s)", l.Color)
		}
		fmt.Fprintf(&b, " x%d - R%d\n", l.Quantity, l.Subtotal())
	}

	fmt.Fprintf(&b, "\nSubtotal: R%d\n", t.Subtotal)
	if t.DeliveryFee == 0 {
		b.WriteString("Delivery: FREE\n")
	} else {
		fmt.Fprintf(&b, "Delivery: R%d\n", t.DeliveryFee)
	}
	fmt.Fprintf(&b, "Total: R%d\n", t.GrandTotal)
	b.WriteString("\nPayment: Pay on Delivery")

	return b.String()
}

// DeepLink は wa.me のリンクを作る。
// 番号は数字以外を落とし、本文はパーセントエンコードして載せる
func DeepLink(whatsappNumber, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, whatsappNumber)

	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(message))
}
