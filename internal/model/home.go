// Package model はドメインモデルを定義する。
package model

import "time"

// Home はバケーションレンタルの物件を表す。
// OwnerIDは必ずセッションから解決したユーザーIDを設定する。
// クライアント入力から設定してはならない（所有者の偽装防止）。
type Home struct {
	ID          string
	Image       string
	Title       string
	Description string
	Price       float64
	Guests      int
	Beds        int
	Baths       int
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
