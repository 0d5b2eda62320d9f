package domain

import "math"

// Product mirrors the catalog API payload.
type Product struct {
	ID          int64   `json:"id" bson:"id"`
	Title       string  `json:"title" bson:"title"`
	Price       float64 `json:"price" bson:"price"`
	Image       string  `json:"image" bson:"image"`
	Category    string  `json:"category" bson:"category"`
	Description string  `json:"description" bson:"description"`
	Rating      Rating  `json:"rating" bson:"rating"`
}

type Rating struct {
	Rate  float64 `json:"rate" bson:"rate"`
	Count int     `json:"count" bson:"count"`
}

// Stars rounds the rate to the nearest half star within [0, 5].
func (r Rating) Stars() float64 {
	stars := math.Round(r.Rate*2) / 2
	return math.Max(0, math.Min(5, stars))
}

// FullStars and HasHalfStar split Stars for rendering.
func (r Rating) FullStars() int {
	return int(math.Floor(r.Stars()))
}

func (r Rating) HasHalfStar() bool {
	s := r.Stars()
	return math.Ceil(s) > math.Floor(s)
}
