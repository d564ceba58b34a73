package encoder

import "myCreditAdvisor/domain"

// Field identifies one input of the training-time feature vector. The numeric
// value of a Field is its position in that vector.
type Field int

const (
	FieldAge Field = iota
	FieldGender
	FieldColor
	FieldMarried
	FieldChildren
	FieldCity
	FieldIncome
	FieldCars
	FieldCreditCards
	FieldHomeOwner
	FieldCreditScore
	FieldDebtRatio
	FieldEmployed

	NumFields int = iota
)

type Kind int

const (
	KindNumeric Kind = iota
	KindCategorical
)

func (k Kind) String() string {
	if k == KindCategorical {
		return "categorical"
	}
	return "numeric"
}

type FieldSpec struct {
	Field Field
	Name  string
	Label string
	Kind  Kind
	Min   *float64
	Max   *float64
}

func bound(v float64) *float64 { return &v }

// Schema is the feature order the neighbour index was built with. Every
// component that needs the order reads it from here.
var Schema = [NumFields]FieldSpec{
	{Field: FieldAge, Name: "idade", Label: "Idade", Kind: KindNumeric, Min: bound(18), Max: bound(100)},
	{Field: FieldGender, Name: "sexo", Label: "Sexo", Kind: KindCategorical},
	{Field: FieldColor, Name: "cor", Label: "Cor", Kind: KindCategorical},
	{Field: FieldMarried, Name: "casado", Label: "Casado?", Kind: KindCategorical},
	{Field: FieldChildren, Name: "qt_filhos", Label: "Quantidade de filhos", Kind: KindNumeric, Min: bound(0)},
	{Field: FieldCity, Name: "cidade", Label: "Cidade", Kind: KindCategorical},
	{Field: FieldIncome, Name: "renda", Label: "Renda mensal (R$)", Kind: KindNumeric, Min: bound(0)},
	{Field: FieldCars, Name: "qt_carros", Label: "Quantidade de carros", Kind: KindNumeric, Min: bound(0)},
	{Field: FieldCreditCards, Name: "qt_cart_cred", Label: "Quantidade de cartões de crédito", Kind: KindNumeric, Min: bound(0)},
	{Field: FieldHomeOwner, Name: "casa_propria", Label: "Possui casa própria?", Kind: KindCategorical},
	{Field: FieldCreditScore, Name: "credit_score", Label: "Credit Score", Kind: KindNumeric, Min: bound(0), Max: bound(1000)},
	{Field: FieldDebtRatio, Name: "endivid", Label: "Endividamento (%)", Kind: KindNumeric, Min: bound(0), Max: bound(100)},
	{Field: FieldEmployed, Name: "trabalha", Label: "Trabalha atualmente?", Kind: KindCategorical},
}

func (f Field) String() string {
	if f < 0 || int(f) >= NumFields {
		return "unknown"
	}
	return Schema[f].Name
}

func (f Field) Kind() Kind {
	return Schema[f].Kind
}

// FeatureOrder returns the field names in vector order.
func FeatureOrder() []string {
	names := make([]string, 0, NumFields)
	for _, spec := range Schema {
		names = append(names, spec.Name)
	}
	return names
}

func CategoricalFields() []Field {
	var out []Field
	for _, spec := range Schema {
		if spec.Kind == KindCategorical {
			out = append(out, spec.Field)
		}
	}
	return out
}

func FieldByName(name string) (Field, bool) {
	for _, spec := range Schema {
		if spec.Name == name {
			return spec.Field, true
		}
	}
	return 0, false
}

func categoryOf(p domain.CustomerProfile, f Field) string {
	switch f {
	case FieldGender:
		return p.Gender
	case FieldColor:
		return p.Color
	case FieldMarried:
		return p.Married
	case FieldCity:
		return p.City
	case FieldHomeOwner:
		return p.HomeOwner
	case FieldEmployed:
		return p.Employed
	}
	return ""
}

func numberOf(p domain.CustomerProfile, f Field) float64 {
	switch f {
	case FieldAge:
		return float64(p.Age)
	case FieldChildren:
		return float64(p.Children)
	case FieldIncome:
		return p.Income
	case FieldCars:
		return float64(p.Cars)
	case FieldCreditCards:
		return float64(p.CreditCards)
	case FieldCreditScore:
		return float64(p.CreditScore)
	case FieldDebtRatio:
		return p.DebtRatio
	}
	return 0
}
