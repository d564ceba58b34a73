package domain

type FieldSchema struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Kind    string   `json:"kind"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Options []string `json:"options,omitempty"`
}

// FormSchema describes the query form: fields in training order, the category
// options known to the loaded encoders and the product catalogue.
type FormSchema struct {
	Fields   []FieldSchema `json:"fields"`
	Products []string      `json:"products"`
	K        int           `json:"k"`
	DebtUnit string        `json:"debt_unit"`
}

// Health summarises the artifacts the service was started with.
type Health struct {
	Status           string `json:"status"`
	Rows             int    `json:"rows"`
	Fields           int    `json:"fields"`
	Products         int    `json:"products"`
	ScorableProducts int    `json:"scorable_products"`
	K                int    `json:"k"`
}
