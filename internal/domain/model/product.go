package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// 商品画像（URLと代替テキスト）
type ProductImage struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// 商品カラー（表示名とHEX）
type ProductColor struct {
	Name string `json:"name"`
	Hex  string `json:"hex,omitempty"`
}

// jsonbカラムに入れるリスト型
type ImageList []ProductImage
type ColorList []ProductColor
type StringList []string

func (l ImageList) Value() (driver.Value, error)  { return jsonValue(l) }
func (l *ImageList) Scan(src interface{}) error   { return jsonScan(src, l) }
func (l ColorList) Value() (driver.Value, error)  { return jsonValue(l) }
func (l *ColorList) Scan(src interface{}) error   { return jsonScan(src, l) }
func (l StringList) Value() (driver.Value, error) { return jsonValue(l) }
func (l *StringList) Scan(src interface{}) error  { return jsonScan(src, l) }

type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Description string `gorm:"type:text" json:"description"`

	Price int64 `gorm:"not null" json:"price"`

	//割引表示用。price との大小関係は強制しない
	OriginalPrice *int64 `json:"original_price,omitempty"`

	Category    string `gorm:"type:varchar(100);not null;index" json:"category"`
	Subcategory string `gorm:"type:varchar(100);index" json:"subcategory"`

	Images ImageList  `gorm:"type:jsonb" json:"images"`
	Sizes  StringList `gorm:"type:jsonb" json:"sizes"`
	Colors ColorList  `gorm:"type:jsonb" json:"colors"`

	InStock   bool `gorm:"not null;default:true" json:"in_stock"`
	Featured  bool `gorm:"not null;default:false" json:"featured"`
	Promotion bool `gorm:"not null;default:false" json:"promotion"`
	IsActive  bool `gorm:"not null;default:false" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// 先頭画像のURL。無ければ空文字
func (p Product) FirstImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// 指定サイズを扱っているか。空文字（未選択）は常に許可
func (p Product) HasSize(size string) bool {
	if size == "" {
		return true
	}
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// 指定カラー名を扱っているか。空文字（未選択）は常に許可
func (p Product) HasColor(name string) bool {
	if name == "" {
		return true
	}
	for _, c := range p.Colors {
		if c.Name == name {
			return true
		}
	}
	return false
}

func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonScan(src interface{}, dst interface{}) error {
	if src == nil {
		return nil
	}
	switch s := src.(type) {
	case []byte:
		return json.Unmarshal(s, dst)
	case string:
		return json.Unmarshal([]byte(s), dst)
	default:
		return errors.New("unsupported jsonb source")
	}
}
