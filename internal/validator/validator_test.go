package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type sample struct {
	Color  string          `validate:"hex_color"`
	Type   string          `validate:"transaction_type"`
	Amount decimal.Decimal `validate:"positive_amount"`
	Value  decimal.Decimal `validate:"non_negative_amount"`
}

func newValidate(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	_ = v.RegisterValidation("hex_color", validateHexColor)
	_ = v.RegisterValidation("transaction_type", validateEntryType)
	_ = v.RegisterValidation("positive_amount", validatePositiveAmount)
	_ = v.RegisterValidation("non_negative_amount", validateNonNegativeAmount)
	return v
}

func TestCustomValidators(t *testing.T) {
	v := newValidate(t)

	valid := sample{Color: "#22c55e", Type: "expense", Amount: decimal.NewFromInt(1), Value: decimal.Zero}
	if err := v.Struct(valid); err != nil {
		t.Fatalf("expected valid sample, got %v", err)
	}

	cases := map[string]sample{
		"bad color":       {Color: "green", Type: "income", Amount: decimal.NewFromInt(1)},
		"transfer type":   {Color: "#fff", Type: "transfer", Amount: decimal.NewFromInt(1)},
		"zero amount":     {Color: "#fff", Type: "income", Amount: decimal.Zero},
		"negative value":  {Color: "#fff", Type: "income", Amount: decimal.NewFromInt(1), Value: decimal.NewFromInt(-1)},
		"negative amount": {Color: "#fff", Type: "income", Amount: decimal.NewFromInt(-5)},
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			if err := v.Struct(s); err == nil {
				t.Errorf("expected validation error for %+v", s)
			}
		})
	}
}
