package parser

import (
	stderrors "errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/mcncl/ionlit/internal/errors"
	"github.com/mcncl/ionlit/internal/grammar"
	"github.com/mcncl/ionlit/internal/models"
)

func stripUnderscores(s string) string {
	return strings.ReplaceAll(s, "_", "")
}

// decodeInt converts an int, radix int or null.int lexeme to an Int.
func decodeInt(rule grammar.Rule, lexeme string) (models.Value, error) {
	base := 10
	switch rule {
	case grammar.RuleNullInt:
		return models.Null(models.KindInt), nil
	case grammar.RuleHexInt:
		base = 16
	case grammar.RuleOctInt:
		base = 8
	case grammar.RuleBinInt:
		base = 2
	}

	text := stripUnderscores(lexeme)
	negative := false
	if base != 10 {
		// The sign sits in front of the radix prefix; move it behind.
		if text[0] == '-' || text[0] == '+' {
			negative = text[0] == '-'
			text = text[1:]
		}
		text = text[2:]
	}

	n, ok := new(big.Int).SetString(text, base)
	if !ok {
		return models.Value{}, errors.NewDecodeError(
			fmt.Sprintf("cannot decode %q as a base %d integer", lexeme, base),
			errors.ErrInvalidDigits,
		)
	}
	if negative {
		n.Neg(n)
	}
	return models.NewInt(n), nil
}

// decodeFloat converts a float, real_num or null.float lexeme to a Float.
func decodeFloat(rule grammar.Rule, lexeme string) (models.Value, error) {
	if rule == grammar.RuleNullFloat {
		return models.Null(models.KindFloat), nil
	}
	// Overflow comes back as ±Inf together with ErrRange.
	f, err := strconv.ParseFloat(stripUnderscores(lexeme), 64)
	if err != nil && !stderrors.Is(err, strconv.ErrRange) {
		return models.Value{}, errors.NewDecodeError(fmt.Sprintf("cannot decode %q as a float", lexeme), err)
	}
	return models.NewFloat(f), nil
}

// decodeDecimal converts a decimal or null.decimal lexeme to an exact
// Decimal. The text never passes through a float64.
func decodeDecimal(rule grammar.Rule, lexeme string) (models.Value, error) {
	if rule == grammar.RuleNullDecimal {
		return models.Null(models.KindDecimal), nil
	}
	text := strings.NewReplacer("_", "", "d", "e", "D", "e").Replace(lexeme)
	text = strings.TrimPrefix(text, "+")

	d, _, err := apd.NewFromString(text)
	if err != nil {
		return models.Value{}, errors.NewDecodeError(fmt.Sprintf("cannot decode %q as a decimal", lexeme), err)
	}
	return models.NewDecimal(d), nil
}

// decodeBoolean compares the lexeme against the three boolean spellings.
func decodeBoolean(_ grammar.Rule, lexeme string) (models.Value, error) {
	switch lexeme {
	case "true":
		return models.NewBoolean(true), nil
	case "false":
		return models.NewBoolean(false), nil
	case grammar.NullBool:
		return models.Null(models.KindBoolean), nil
	}
	return models.Value{}, errors.NewDecodeError(fmt.Sprintf("%q is not a boolean", lexeme), errors.ErrNoMatch)
}
