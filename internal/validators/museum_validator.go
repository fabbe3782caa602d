package validators

// Fields are pointers so that "required" rejects a missing key or null
// while still accepting zero values such as id 0 or an empty user id.

type UserIDRequest struct {
	UserID *Text `json:"user_id" binding:"required"`
}

type FavMuseumRequest struct {
	UserID *Text `json:"user_id" binding:"required"`
	FavID  *ID   `json:"fav_id" binding:"required"`
}

type MuseumIDRequest struct {
	MuseumID *ID   `json:"museum_id" binding:"required"`
	UserID   *Text `json:"user_id" binding:"required"`
}
