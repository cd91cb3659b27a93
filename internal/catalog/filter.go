package catalog

import (
	"sort"
	"strings"

	"mvee-store/internal/domain/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// 「絞り込みなし」を表す値
const All = "all"

type SortKey string

const (
	//取得順（新着順）をそのまま使う
	SortNewest SortKey = "newest"

	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortNameAsc   SortKey = "name_asc"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortNewest, SortPriceAsc, SortPriceDesc, SortNameAsc:
		return true
	}
	return false
}

// 一覧の絞り込み条件。Min/Maxはnilで上限・下限なし
type Filter struct {
	Category     string
	Subcategory  string
	Search       string
	MinPrice     *int64
	MaxPrice     *int64
	InStockOnly  bool
	FeaturedOnly bool
	Sort         SortKey
}

// Apply は商品一覧に絞り込みと並び替えをこの順で適用する:
// カテゴリ → サブカテゴリ → 検索語 → 価格帯 → 在庫 → ソート。
// 入力スライスは変更しない。min > max はエラーにせず空の結果になるだけ
func Apply(products []model.Product, f Filter) []model.Product {
	result := make([]model.Product, len(products))
	copy(result, products)

	if f.Category != "" && f.Category != All {
		result = keep(result, func(p model.Product) bool { return p.Category == f.Category })
	}

	if f.Subcategory != "" && f.Subcategory != All {
		result = keep(result, func(p model.Product) bool { return p.Subcategory == f.Subcategory })
	}

	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		//名前か説明のどちらかに部分一致（大文字小文字は無視）
		result = keep(result, func(p model.Product) bool {
			return strings.Contains(strings.ToLower(p.Name), q) ||
				strings.Contains(strings.ToLower(p.Description), q)
		})
	}

	result = keep(result, func(p model.Product) bool {
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			return false
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			return false
		}
		return true
	})

	if f.InStockOnly {
		result = keep(result, func(p model.Product) bool { return p.InStock })
	}

	//トップページの「おすすめ」向け
	if f.FeaturedOnly {
		result = keep(result, func(p model.Product) bool { return p.Featured })
	}

	//同値は元の並びを保つ（stable）
	switch f.Sort {
	case SortPriceAsc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price < result[j].Price })
	case SortPriceDesc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price > result[j].Price })
	case SortNameAsc:
		c := collate.New(language.English)
		sort.SliceStable(result, func(i, j int) bool {
			return c.CompareString(result[i].Name, result[j].Name) < 0
		})
	default:
		// newest: 並び替えしない
	}

	return result
}

// keep は述語を満たす要素だけを残す。resultはApply内のコピーなので
// バッキング配列の再利用で良い
func keep(in []model.Product, pred func(model.Product) bool) []model.Product {
	out := in[:0]
	for _, p := range in {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}
