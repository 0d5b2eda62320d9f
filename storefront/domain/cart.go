package domain

// CartLine is one product in the cart. A cart holds at most one line per
// product id and Quantity is always at least 1.
type CartLine struct {
	Product  Product `json:"product" bson:"product"`
	Quantity int     `json:"quantity" bson:"quantity"`
}
