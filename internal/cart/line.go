package cart

// カートの明細。商品名・価格・画像は追加時点のスナップショットを持つ
type Line struct {
	ID        string `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Image     string `json:"image,omitempty"`
	Slug      string `json:"slug,omitempty"`

	//未選択は空文字で統一する（空文字同士は同一バリアント扱い）
	Size  string `json:"size,omitempty"`
	Color string `json:"color,omitempty"`

	Quantity int64 `json:"quantity"`
}

// 同一明細か（productId + size + color で判定）
func (l Line) sameVariant(productID int64, size, color string) bool {
	return l.ProductID == productID && l.Size == size && l.Color == color
}

// この明細の小計
func (l Line) Subtotal() int64 {
	return l.Price * l.Quantity
}
