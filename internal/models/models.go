package models

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Kind identifies which scalar type a Value holds.
type Kind int

const (
	KindInvalid Kind = iota
	KindBoolean
	KindInt
	KindFloat
	KindDecimal
	KindString
)

var kindNames = [...]string{
	KindInvalid: "Invalid",
	KindBoolean: "Bool",
	KindInt:     "Int",
	KindFloat:   "Float",
	KindDecimal: "Decimal",
	KindString:  "String",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Invalid"
	}
	return kindNames[k]
}

// ParseKind maps a kind name as written in flags and config files to a
// Kind. "auto" and "" map to KindInvalid, meaning full dispatch.
func ParseKind(name string) (Kind, bool) {
	switch strings.ToLower(name) {
	case "", "auto":
		return KindInvalid, true
	case "bool", "boolean":
		return KindBoolean, true
	case "int":
		return KindInt, true
	case "float":
		return KindFloat, true
	case "decimal":
		return KindDecimal, true
	case "string":
		return KindString, true
	}
	return KindInvalid, false
}

// Value is a decoded scalar literal. Each kind has its own null, so a
// null Int is not equal to a null Bool. Values are immutable: the
// constructors copy their payloads and the accessors hand out copies.
type Value struct {
	kind Kind
	null bool

	b   bool
	i   *big.Int
	f   float64
	d   *apd.Decimal
	str string
}

// Null returns the typed null of the given kind.
func Null(kind Kind) Value {
	return Value{kind: kind, null: true}
}

// NewBoolean wraps a bool.
func NewBoolean(b bool) Value {
	return Value{kind: KindBoolean, b: b}
}

// NewInt wraps a copy of i. A nil i yields the null Int.
func NewInt(i *big.Int) Value {
	if i == nil {
		return Null(KindInt)
	}
	return Value{kind: KindInt, i: new(big.Int).Set(i)}
}

// NewInt64 is a convenience for small integers.
func NewInt64(i int64) Value {
	return Value{kind: KindInt, i: big.NewInt(i)}
}

// NewFloat wraps a float64.
func NewFloat(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// NewDecimal wraps a copy of d. A nil d yields the null Decimal.
func NewDecimal(d *apd.Decimal) Value {
	if d == nil {
		return Null(KindDecimal)
	}
	return Value{kind: KindDecimal, d: new(apd.Decimal).Set(d)}
}

// NewString wraps UTF-8 text.
func NewString(s string) Value {
	return Value{kind: KindString, str: s}
}

// Kind returns the kind fixed at construction.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is its kind's typed null.
func (v Value) IsNull() bool { return v.null }

// IsValid reports whether v was produced by a decoder.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// Bool returns the payload of a non-null Bool.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBoolean || v.null {
		return false, false
	}
	return v.b, true
}

// BigInt returns a copy of the payload of a non-null Int, or nil.
func (v Value) BigInt() *big.Int {
	if v.kind != KindInt || v.null {
		return nil
	}
	return new(big.Int).Set(v.i)
}

// Float64 returns the payload of a non-null Float.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindFloat || v.null {
		return 0, false
	}
	return v.f, true
}

// Decimal returns a copy of the payload of a non-null Decimal, or nil.
func (v Value) Decimal() *apd.Decimal {
	if v.kind != KindDecimal || v.null {
		return nil
	}
	return new(apd.Decimal).Set(v.d)
}

// Text returns the payload of a non-null String.
func (v Value) Text() (string, bool) {
	if v.kind != KindString || v.null {
		return "", false
	}
	return v.str, true
}

// Scale is the number of digits a Decimal keeps after the point.
// It is zero for every other kind.
func (v Value) Scale() int32 {
	if v.kind != KindDecimal || v.null {
		return 0
	}
	return -v.d.Exponent
}

// Equal reports whether v and o have the same kind, the same nullness
// and equal payloads. Decimals compare numerically, so 1.10 equals 1.1.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.null != o.null {
		return false
	}
	if v.null {
		return true
	}
	switch v.kind {
	case KindBoolean:
		return v.b == o.b
	case KindInt:
		return v.i.Cmp(o.i) == 0
	case KindFloat:
		return v.f == o.f
	case KindDecimal:
		return v.d.Cmp(o.d) == 0
	case KindString:
		return v.str == o.str
	}
	return true
}

// Payload renders the payload alone, or NULL for a typed null.
func (v Value) Payload() string {
	if v.null {
		return "NULL"
	}
	switch v.kind {
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindInt:
		return v.i.String()
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindDecimal:
		return v.d.String()
	case KindString:
		return v.str
	}
	return ""
}

// String renders "<Kind> <payload>", e.g. "Int 66" or "Bool NULL".
func (v Value) String() string {
	return v.kind.String() + " " + v.Payload()
}
