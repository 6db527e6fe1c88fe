package parser

import (
	"fmt"

	"github.com/mcncl/ionlit/internal/errors"
	"github.com/mcncl/ionlit/internal/grammar"
	"github.com/mcncl/ionlit/internal/models"
)

// Options controls how Parse dispatches a literal.
type Options struct {
	// Strict requires the matched literal to consume the whole input,
	// apart from trailing spaces and tabs.
	Strict bool

	// PromoteDecimals routes decimal literals (1.5, 1d5) to Decimal.
	// Without it a bare fractional literal decodes as a Float and a
	// d-exponent literal is only reachable through MatchDecimal.
	PromoteDecimals bool
}

// Rule groups, each in the order its alternatives are tried.
var (
	floatRules   = []grammar.Rule{grammar.RuleFloat, grammar.RuleNullFloat, grammar.RuleRealNum}
	intRules     = []grammar.Rule{grammar.RuleHexInt, grammar.RuleOctInt, grammar.RuleBinInt, grammar.RuleInt, grammar.RuleNullInt}
	booleanRules = []grammar.Rule{grammar.RuleBoolean}
	decimalRules = []grammar.Rule{grammar.RuleDecimal, grammar.RuleNullDecimal}
	stringRules  = []grammar.Rule{grammar.RuleString, grammar.RuleNullString}

	dispatchRules = concat(
		floatRules,
		intRules,
		booleanRules,
		stringRules,
		[]grammar.Rule{grammar.RuleNullDecimal},
	)
	promotedRules = concat(
		[]grammar.Rule{grammar.RuleFloat, grammar.RuleNullFloat},
		decimalRules,
		intRules,
		booleanRules,
		stringRules,
	)
)

func concat(groups ...[]grammar.Rule) []grammar.Rule {
	var out []grammar.Rule
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func decode(rule grammar.Rule, lexeme string) (models.Value, error) {
	switch rule {
	case grammar.RuleFloat, grammar.RuleNullFloat, grammar.RuleRealNum:
		return decodeFloat(rule, lexeme)
	case grammar.RuleHexInt, grammar.RuleOctInt, grammar.RuleBinInt, grammar.RuleInt, grammar.RuleNullInt:
		return decodeInt(rule, lexeme)
	case grammar.RuleBoolean:
		return decodeBoolean(rule, lexeme)
	case grammar.RuleDecimal, grammar.RuleNullDecimal:
		return decodeDecimal(rule, lexeme)
	case grammar.RuleString, grammar.RuleNullString:
		return decodeString(rule, lexeme)
	}
	return models.Value{}, errors.NewDecodeError(fmt.Sprintf("no decoder for rule %s", rule), errors.ErrNoMatch)
}

// Parser decodes literals from one input string. It is not safe for
// concurrent use; create one Parser per input.
type Parser struct {
	scanner *grammar.Scanner
	opts    Options

	rule   grammar.Rule
	lexeme string
}

// New returns a Parser over text.
func New(text string, opts Options) *Parser {
	return &Parser{scanner: grammar.NewScanner(text), opts: opts}
}

// Parse decodes the literal at the current position and the first rule
// that matches wins. Rules are tried in this order:
//
//  1. float, null.float and bare fractions such as 1.5
//  2. hex, octal, binary, then plain int, then null.int
//  3. true, false and null.bool
//  4. quoted string, then null.string
//  5. null.decimal
//
// With PromoteDecimals the decimal rules replace bare fractions: float,
// null.float, decimal and null.decimal come first, followed by steps 2
// to 4.
//
// When nothing matches Parse returns ok == false and a nil error. A
// lexeme that matches but cannot be converted returns a decode error.
func (p *Parser) Parse() (models.Value, bool, error) {
	if p.opts.PromoteDecimals {
		return p.match(promotedRules)
	}
	return p.match(dispatchRules)
}

// MatchInt decodes a hex, octal, binary or decimal int, or null.int.
func (p *Parser) MatchInt() (models.Value, bool, error) { return p.match(intRules) }

// MatchFloat decodes a float, a bare fractional literal, or null.float.
func (p *Parser) MatchFloat() (models.Value, bool, error) { return p.match(floatRules) }

// MatchDecimal decodes a decimal or null.decimal. This is the only way to
// reach bare fractional decimals without PromoteDecimals.
func (p *Parser) MatchDecimal() (models.Value, bool, error) { return p.match(decimalRules) }

// MatchBoolean decodes true, false or null.bool.
func (p *Parser) MatchBoolean() (models.Value, bool, error) { return p.match(booleanRules) }

// MatchString decodes a quoted string or null.string.
func (p *Parser) MatchString() (models.Value, bool, error) { return p.match(stringRules) }

// MatchKind calls the entry point for kind; KindInvalid means full dispatch.
func (p *Parser) MatchKind(kind models.Kind) (models.Value, bool, error) {
	switch kind {
	case models.KindInvalid:
		return p.Parse()
	case models.KindBoolean:
		return p.MatchBoolean()
	case models.KindInt:
		return p.MatchInt()
	case models.KindFloat:
		return p.MatchFloat()
	case models.KindDecimal:
		return p.MatchDecimal()
	case models.KindString:
		return p.MatchString()
	}
	return models.Value{}, false, fmt.Errorf("%w: %d", errors.ErrUnknownKind, kind)
}

func (p *Parser) match(rules []grammar.Rule) (models.Value, bool, error) {
	rule, lexeme, ok := p.scanner.Match(rules...)
	if !ok {
		return models.Value{}, false, nil
	}
	p.rule, p.lexeme = rule, lexeme

	v, err := decode(rule, lexeme)
	if err != nil {
		return models.Value{}, false, err
	}
	if p.opts.Strict && !p.scanner.AtEnd() {
		return models.Value{}, false, errors.NewTrailingError(
			fmt.Sprintf("%q remains after %s %q", p.scanner.Rest(), rule, lexeme),
			errors.ErrTrailingInput,
		)
	}
	return v, true, nil
}

// AtEnd reports whether all input has been consumed, ignoring trailing
// spaces and tabs. Callers that need whole-string validation without
// Strict check it after a successful match.
func (p *Parser) AtEnd() bool { return p.scanner.AtEnd() }

// Rest returns the unconsumed input.
func (p *Parser) Rest() string { return p.scanner.Rest() }

// Lexeme returns the rule and text of the most recent match.
func (p *Parser) Lexeme() (grammar.Rule, string) { return p.rule, p.lexeme }

// Parse decodes text with a fresh Parser. See (*Parser).Parse.
func Parse(text string, opts Options) (models.Value, bool, error) {
	return New(text, opts).Parse()
}

// DecodeInt decodes text, which must hold exactly one int literal.
func DecodeInt(text string) (models.Value, error) { return decodeWhole(text, models.KindInt) }

// DecodeFloat decodes text, which must hold exactly one float literal.
func DecodeFloat(text string) (models.Value, error) { return decodeWhole(text, models.KindFloat) }

// DecodeDecimal decodes text, which must hold exactly one decimal literal.
func DecodeDecimal(text string) (models.Value, error) { return decodeWhole(text, models.KindDecimal) }

// DecodeBoolean decodes text, which must hold exactly one boolean literal.
func DecodeBoolean(text string) (models.Value, error) { return decodeWhole(text, models.KindBoolean) }

// DecodeString decodes text, which must hold exactly one string literal.
func DecodeString(text string) (models.Value, error) { return decodeWhole(text, models.KindString) }

func decodeWhole(text string, kind models.Kind) (models.Value, error) {
	v, ok, err := New(text, Options{Strict: true}).MatchKind(kind)
	if err != nil {
		return models.Value{}, err
	}
	if !ok {
		return models.Value{}, errors.NewInputError(
			fmt.Sprintf("%q is not a valid %s literal", text, kind),
			errors.ErrNoMatch,
		)
	}
	return v, nil
}
