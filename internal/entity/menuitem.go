package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// MenuItem is a dish on the menu, stored in the relational catalog.
type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items"`

	ID        int64     `bun:",pk,autoincrement" json:"id"`
	Name      string    `bun:"name" json:"name"`
	Category  string    `bun:"category" json:"category"`
	Price     float64   `bun:"price" json:"price"`
	Available bool      `bun:"available" json:"available"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero" json:"updated_at"`
}
