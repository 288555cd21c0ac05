package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Money is an exact decimal amount kept at currency precision (2dp).
// It is stored as Decimal128 and rendered as a fixed two-place string.
type Money struct {
	decimal.Decimal
}

// Ratio is an exact decimal without rounding, used for rates and shares.
type Ratio struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{d.Round(2)}
}

func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return NewMoney(d), nil
}

// MustMoney panics on malformed input. Intended for constants and tests.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Plus(o Money) Money {
	return NewMoney(m.Decimal.Add(o.Decimal))
}

func (m Money) String() string {
	return m.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*m = NewMoney(d)
	return nil
}

func (m Money) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return marshalDecimal(m.StringFixed(2))
}

func (m *Money) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	d, err := unmarshalDecimal(t, data)
	if err != nil {
		return err
	}
	*m = NewMoney(d)
	return nil
}

func ParseRatio(s string) (Ratio, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Ratio{}, fmt.Errorf("invalid ratio %q: %w", s, err)
	}
	return Ratio{d}, nil
}

func MustRatio(s string) Ratio {
	r, err := ParseRatio(s)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.Decimal.String() + `"`), nil
}

func (r *Ratio) UnmarshalJSON(data []byte) error {
	return r.Decimal.UnmarshalJSON(data)
}

func (r Ratio) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return marshalDecimal(r.Decimal.String())
}

func (r *Ratio) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	d, err := unmarshalDecimal(t, data)
	if err != nil {
		return err
	}
	r.Decimal = d
	return nil
}

func marshalDecimal(s string) (bsontype.Type, []byte, error) {
	d128, err := primitive.ParseDecimal128(s)
	if err != nil {
		return 0, nil, err
	}
	return bson.MarshalValue(d128)
}

func unmarshalDecimal(t bsontype.Type, data []byte) (decimal.Decimal, error) {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Decimal128:
		return decimal.NewFromString(raw.Decimal128().String())
	case bsontype.String:
		return decimal.NewFromString(raw.StringValue())
	case bsontype.Int32:
		return decimal.NewFromInt32(raw.Int32()), nil
	case bsontype.Int64:
		return decimal.NewFromInt(raw.Int64()), nil
	case bsontype.Double:
		return decimal.NewFromFloat(raw.Double()), nil
	case bsontype.Null, bsontype.Undefined:
		return decimal.Zero, nil
	default:
		return decimal.Zero, fmt.Errorf("cannot decode %s into a decimal", t)
	}
}
