package domain

import "time"

// RelationKind различает два вида связи user -> recipe. Таблицы разные,
// форма одна, поэтому репозиторий один на оба.
type RelationKind string

const (
	KindFavorite     RelationKind = "favorite"
	KindShoppingCart RelationKind = "shopping_cart"
)

func (k RelationKind) Table() string {
	switch k {
	case KindFavorite:
		return Favorite{}.TableName()
	case KindShoppingCart:
		return ShoppingCart{}.TableName()
	default:
		return ""
	}
}

func (k RelationKind) Valid() bool {
	return k.Table() != ""
}

// Label is the human name used in error messages.
func (k RelationKind) Label() string {
	if k == KindShoppingCart {
		return "shopping cart"
	}
	return "favorites"
}

type Favorite struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_favorite_user_recipe"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User   *User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (Favorite) TableName() string {
	return "favorites"
}

type ShoppingCart struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_cart_user_recipe"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User   *User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}

// InteractionEdge is the row shape shared by favorites and shopping_carts;
// always used with db.Table(kind.Table()).
type InteractionEdge struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"not null"`
	RecipeID  int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
