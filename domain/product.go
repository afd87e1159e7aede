package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Every shard table shares this schema:
//
// CREATE TABLE public.products (
//     id             TEXT PRIMARY KEY,
//     name           TEXT,
//     description    TEXT,
//     category       TEXT,
//     gender         TEXT,
//     price          NUMERIC,
//     mrp            NUMERIC,
//     discount       NUMERIC,
//     quantity       NUMERIC,
//     in_stock       BOOLEAN,
//     colors         JSONB,
//     images         JSONB,
//     view_count     BIGINT DEFAULT 0,
//     purchase_count BIGINT DEFAULT 0,
//     created_at     TIMESTAMPTZ DEFAULT NOW()
// );
//
// Category partitions live in products_<category> tables; "products"
// itself is the default/overflow partition. Product has no fixed
// TableName on purpose: every query goes through an explicit shard
// table name.

type Product struct {
	ID            string         `gorm:"column:id;primaryKey" json:"id"`
	Name          string         `gorm:"column:name;type:text" json:"name"`
	Description   string         `gorm:"column:description;type:text" json:"description"`
	Category      string         `gorm:"column:category;type:text" json:"category"`
	Gender        string         `gorm:"column:gender;type:text" json:"gender,omitempty"`
	Price         float64        `gorm:"column:price;type:numeric" json:"price"`
	MRP           float64        `gorm:"column:mrp;type:numeric" json:"mrp"`
	Discount      float64        `gorm:"column:discount;type:numeric" json:"discount"`
	Quantity      float64        `gorm:"column:quantity;type:numeric" json:"quantity"`
	InStock       bool           `gorm:"column:in_stock" json:"inStock"`
	Colors        datatypes.JSON `gorm:"column:colors" json:"colors,omitempty"`
	Images        datatypes.JSON `gorm:"column:images" json:"images,omitempty"`
	ViewCount     int64          `gorm:"column:view_count;default:0" json:"-"`
	PurchaseCount int64          `gorm:"column:purchase_count;default:0" json:"-"`
	CreatedAt     time.Time      `gorm:"column:created_at" json:"createdAt"`
}

// PopularityScore is the composite sort key for the "popularity"
// catalog sort: a purchase weighs five times a view.
func (p Product) PopularityScore() int64 {
	return p.ViewCount + 5*p.PurchaseCount
}
