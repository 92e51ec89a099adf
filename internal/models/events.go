package models

import "time"

// ArticleModerated публикуется после решения модератора.
type ArticleModerated struct {
	ArticleID   string        `json:"articleId"`
	AuthorEmail string        `json:"authorEmail"`
	Status      ArticleStatus `json:"status"`
	Feedback    *string       `json:"feedback,omitempty"`
	At          time.Time     `json:"at"`
}

// SubscriptionPurchased публикуется после покупки плана.
type SubscriptionPurchased struct {
	Email        string    `json:"email"`
	Plan         Plan      `json:"plan"`
	PremiumValid time.Time `json:"premiumValid"`
	At           time.Time `json:"at"`
}
