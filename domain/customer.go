package domain

// CustomerProfile is the raw query record as entered by the user. Categorical
// fields hold labels, numeric fields hold values in the units of the form
// (indebtedness is a percentage 0-100).
type CustomerProfile struct {
	Age         int     `json:"idade"`
	Gender      string  `json:"sexo"`
	Color       string  `json:"cor"`
	Married     string  `json:"casado"`
	Children    int     `json:"qt_filhos"`
	City        string  `json:"cidade"`
	Income      float64 `json:"renda"`
	Cars        int     `json:"qt_carros"`
	CreditCards int     `json:"qt_cart_cred"`
	HomeOwner   string  `json:"casa_propria"`
	CreditScore int     `json:"credit_score"`
	DebtRatio   float64 `json:"endivid"`
	Employed    string  `json:"trabalha"`
}
