package domain

type ProductScore struct {
	Product string  `json:"product"`
	Score   float64 `json:"score"`
}

// Neighbor is a reference row returned by the index. Row is the zero based
// position in the reference dataset.
type Neighbor struct {
	Row      int     `json:"row"`
	Distance float64 `json:"distance"`
}

type Recommendation struct {
	Products  []ProductScore `json:"products"`
	Neighbors []Neighbor     `json:"neighbors"`
}
