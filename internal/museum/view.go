package museum

import "github.com/DarkArtheme/museumguide-backend/internal/models"

// favoriteSet is one user's favorites, loaded once per request.
type favoriteSet map[int]struct{}

func newFavoriteSet(ids []int) favoriteSet {
	set := make(favoriteSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s favoriteSet) has(id int) bool {
	_, ok := s[id]
	return ok
}

// ShortView is the list projection. Pictures carries only the first picture.
type ShortView struct {
	ID           int         `json:"id"`
	Name         interface{} `json:"name"`
	Pictures     string      `json:"pictures"`
	Address      interface{} `json:"address"`
	Phone        interface{} `json:"phone"`
	WorkTime     interface{} `json:"worktime"`
	Distance     interface{} `json:"distance"`
	Station      interface{} `json:"station"`
	Payment      interface{} `json:"payment"`
	InFavourites bool        `json:"in_favourites"`
}

type FullView struct {
	ID            int         `json:"id"`
	Name          interface{} `json:"name"`
	Description   interface{} `json:"description"`
	Pictures      []string    `json:"pictures"`
	Address       interface{} `json:"address"`
	Phone         interface{} `json:"phone"`
	Website       interface{} `json:"website"`
	WorkTime      interface{} `json:"worktime"`
	VK            interface{} `json:"vk"`
	Instagram     interface{} `json:"inst"`
	Twitter       interface{} `json:"twitter"`
	Facebook      interface{} `json:"facebook"`
	Odnoklassniki interface{} `json:"odnokl"`
	EngName       interface{} `json:"eng_name"`
	Distance      interface{} `json:"distance"`
	Station       interface{} `json:"station"`
	Payment       interface{} `json:"payment"`
	InFavourites  bool        `json:"in_favourites"`
}

func newShortView(m models.Museum, favs favoriteSet) ShortView {
	var picture string
	if len(m.Pictures) > 0 {
		picture = m.Pictures[0]
	}
	return ShortView{
		ID:           m.ID,
		Name:         m.Name,
		Pictures:     picture,
		Address:      m.Address,
		Phone:        m.Phone,
		WorkTime:     m.WorkTime,
		Distance:     m.Distance,
		Station:      m.Station,
		Payment:      m.Payment,
		InFavourites: favs.has(m.ID),
	}
}

func newFullView(m models.Museum, favs favoriteSet) FullView {
	pictures := m.Pictures
	if pictures == nil {
		pictures = []string{}
	}
	return FullView{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		Pictures:      pictures,
		Address:       m.Address,
		Phone:         m.Phone,
		Website:       m.Website,
		WorkTime:      m.WorkTime,
		VK:            m.VK,
		Instagram:     m.Instagram,
		Twitter:       m.Twitter,
		Facebook:      m.Facebook,
		Odnoklassniki: m.Odnoklassniki,
		EngName:       m.EngName,
		Distance:      m.Distance,
		Station:       m.Station,
		Payment:       m.Payment,
		InFavourites:  favs.has(m.ID),
	}
}
