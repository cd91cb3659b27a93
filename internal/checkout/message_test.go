package checkout

import (
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"mvee-store/internal/cart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcTotals_BelowThresholdChargesFee(t *testing.T) {
	got := CalcTotals(450, 500, 50)
	assert.Equal(t, int64(450), got.Subtotal)
	assert.Equal(t, int64(50), got.DeliveryFee)
	assert.Equal(t, int64(500), got.GrandTotal)
}

func TestCalcTotals_AtThresholdIsFree(t *testing.T) {
	//ちょうど閾値でも無料
	got := CalcTotals(500, 500, 50)
	assert.Equal(t, int64(0), got.DeliveryFee)
	assert.Equal(t, int64(500), got.GrandTotal)
}

func TestCalcTotals_AboveThresholdIsFree(t *testing.T) {
	got := CalcTotals(1200, 500, 50)
	assert.Equal(t, int64(0), got.DeliveryFee)
	assert.Equal(t, int64(1200), got.GrandTotal)
}

func TestNewOrderRef_Format(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

	re := regexp.MustCompile(`^MVEE-20250314-\d{4}$`)
	for i := 0; i < 20; i++ {
		ref := NewOrderRef("MVEE", now)
		assert.Regexp(t, re, ref)
	}
}

func testLines() []cart.Line {
	return []cart.Line{
		{ID: "l1", ProductID: 1, Name: "Basic Tee", Price: 150, Size: "M", Color: "Black", Quantity: 2},
		{ID: "l2", ProductID: 2, Name: "Oversized Hoodie", Price: 400, Quantity: 1},
	}
}

func TestBuildMessage_Contents(t *testing.T) {
	customer := Customer{
		Name:    "Jane Doe",
		Phone:   "082 555 1234",
		Address: "12 Long Street, Cape Town",
	}
	totals := CalcTotals(700, 500, 50)

	msg := BuildMessage("MVEE-20250314-1234", testLines(), customer, totals)

	assert.True(t, strings.HasPrefix(msg, "*New Order from MVEE Clothing*"))
	assert.Contains(t, msg, "Order Ref: MVEE-20250314-1234")
	assert.Contains(t, msg, "Name: Jane Doe")
	assert.Contains(t, msg, "Phone: 082 555 1234")
	assert.Contains(t, msg, "Address: 12 Long Street, Cape Town")
	//Notesが空なら行ごと出さない
	assert.NotContains(t, msg, "Notes:")

	assert.Contains(t, msg, "1. Basic Tee (Size: M) (Color: Black) x2 - R300")
	//サイズ・色の無い明細は括弧を出さない
	assert.Contains(t, msg, "2. Oversized Hoodie x1 - R400")

	assert.Contains(t, msg, "Subtotal: R700")
	assert.Contains(t, msg, "Delivery: FREE")
	assert.Contains(t, msg, "Total: R700")
	assert.True(t, strings.HasSuffix(msg, "Payment: Pay on Delivery"))
}

func TestBuildMessage_PaidDeliveryAndNotes(t *testing.T) {
	customer := Customer{
		Name:    "Jane Doe",
		Phone:   "0825551234",
		Address: "12 Long Street, Cape Town",
		Notes:   "Leave at the gate",
	}
	totals := CalcTotals(300, 500, 50)

	msg := BuildMessage("MVEE-20250314-5678", testLines()[:1], customer, totals)

	assert.Contains(t, msg, "Notes: Leave at the gate")
	assert.Contains(t, msg, "Delivery: R50")
	assert.Contains(t, msg, "Total: R350")
}

func TestBuildMessage_Deterministic(t *testing.T) {
	customer := Customer{Name: "Jane", Phone: "0825551234", Address: "12 Long Street"}
	totals := CalcTotals(700, 500, 50)

	a := BuildMessage("MVEE-20250314-1234", testLines(), customer, totals)
	b := BuildMessage("MVEE-20250314-1234", testLines(), customer, totals)
	assert.Equal(t, a, b)
}

func TestDeepLink_StripsNonDigits(t *testing.T) {
	link := DeepLink("+27 82 555-1234", "hello")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/27825551234?text="))
}

func TestDeepLink_EncodesMessage(t *testing.T) {
	msg := "*New Order*\nTotal: R700 & more"
	link := DeepLink("27825551234", msg)

	u, err := url.Parse(link)
	require.NoError(t, err)
	//エンコードを戻すと元の本文になる
	assert.Equal(t, msg, u.Query().Get("text"))
	assert.NotContains(t, link, "\n")
	assert.NotContains(t, link, " ")
}
