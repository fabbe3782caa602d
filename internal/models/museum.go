package models

// Museum is a catalog entry from the museums collection. Documents are
// seeded outside the service; the API never writes them.
//
// Scalar attributes are passed through with whatever BSON type the seed
// data used (usually strings, sometimes numbers such as distance or phone).
type Museum struct {
	ID            int         `bson:"_id" json:"id"`
	Name          interface{} `bson:"name" json:"name"`
	Description   interface{} `bson:"description" json:"description"`
	Pictures      []string    `bson:"pictures" json:"pictures"`
	Address       interface{} `bson:"address" json:"address"`
	Phone         interface{} `bson:"phone" json:"phone"`
	Website       interface{} `bson:"website" json:"website"`
	WorkTime      interface{} `bson:"worktime" json:"worktime"`
	VK            interface{} `bson:"vk" json:"vk"`
	Instagram     interface{} `bson:"inst" json:"inst"`
	Twitter       interface{} `bson:"twitter" json:"twitter"`
	Facebook      interface{} `bson:"facebook" json:"facebook"`
	Odnoklassniki interface{} `bson:"odnokl" json:"odnokl"`
	EngName       interface{} `bson:"eng" json:"eng"`
	Distance      interface{} `bson:"distance" json:"distance"`
	Station       interface{} `bson:"station" json:"station"`
	Payment       interface{} `bson:"payment" json:"payment"`
}

type MuseumPopularity struct {
	MuseumID int   `json:"museum_id"`
	Count    int64 `json:"count"`
}
