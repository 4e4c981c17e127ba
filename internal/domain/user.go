package domain

import "time"

// User — профиль пользователя. Учётные данные живут у внешнего провайдера,
// здесь только публичные поля.
type User struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"size:254;not null;uniqueIndex"`
	Username  string    `json:"username" gorm:"size:150;not null;uniqueIndex"`
	FirstName string    `json:"first_name" gorm:"size:150;not null"`
	LastName  string    `json:"last_name" gorm:"size:150;not null"`
	Avatar    *string   `json:"avatar" gorm:"size:512"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Subscription — user подписан на author.
type Subscription struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_subscription_pair"`
	AuthorID  int64     `json:"author_id" gorm:"not null;index;uniqueIndex:idx_subscription_pair;check:chk_subscription_not_self,user_id <> author_id"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User   *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Author *User `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
