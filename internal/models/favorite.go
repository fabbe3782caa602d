package models

// UserFavorites is the single per-user document in users_and_fav.
type UserFavorites struct {
	UserID    string `bson:"UserId"`
	Favorites []int  `bson:"Favorites"`
}

const (
	FavoriteActionAdd    = "add"
	FavoriteActionRemove = "remove"
)

type FavoriteMsg struct {
	UserID   string `json:"user_id"`
	MuseumID int    `json:"museum_id"`
	Action   string `json:"action"` // "add" or "remove"
}
