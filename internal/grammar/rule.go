// Package grammar recognizes the scalar literals of the Ion text format.
//
// Every rule matches a maximal prefix of its input. Rules are pure
// functions over strings; a rule either matches a whole lexeme or does not
// match at all. Alternatives inside a rule are ordered and the first one
// that matches wins, as in a PEG.
package grammar

// Rule names one grammar production.
type Rule int

const (
	RuleInvalid Rule = iota
	RuleFloat
	RuleNullFloat
	RuleRealNum
	RuleHexInt
	RuleOctInt
	RuleBinInt
	RuleInt
	RuleNullInt
	RuleBoolean
	RuleDecimal
	RuleNullDecimal
	RuleString
	RuleNullString

	maxRule
)

var ruleNames = [...]string{
	RuleInvalid:     "invalid",
	RuleFloat:       "float",
	RuleNullFloat:   "null_float",
	RuleRealNum:     "real_num",
	RuleHexInt:      "hex_int",
	RuleOctInt:      "oct_int",
	RuleBinInt:      "bin_int",
	RuleInt:         "int",
	RuleNullInt:     "null_int",
	RuleBoolean:     "boolean",
	RuleDecimal:     "decimal",
	RuleNullDecimal: "null_decimal",
	RuleString:      "string",
	RuleNullString:  "null_string",
}

func (r Rule) String() string {
	if r <= RuleInvalid || r >= maxRule {
		return ruleNames[RuleInvalid]
	}
	return ruleNames[r]
}

// Null literal spellings.
const (
	NullBool    = "null.bool"
	NullInt     = "null.int"
	NullFloat   = "null.float"
	NullDecimal = "null.decimal"
	NullString  = "null.string"
)

var matchers = [...]func(string) int{
	RuleFloat:       matchFloat,
	RuleNullFloat:   literal(NullFloat),
	RuleRealNum:     matchRealNum,
	RuleHexInt:      radixInt('x', 'X', isHexDigit),
	RuleOctInt:      radixInt('o', 'O', isOctDigit),
	RuleBinInt:      radixInt('b', 'B', isBinDigit),
	RuleInt:         matchInt,
	RuleNullInt:     literal(NullInt),
	RuleBoolean:     literal("true", "false", NullBool),
	RuleDecimal:     matchDecimal,
	RuleNullDecimal: literal(NullDecimal),
	RuleString:      matchString,
	RuleNullString:  literal(NullString),
}

// Match returns the length of the prefix of s that r matches, or -1.
func Match(r Rule, s string) int {
	if r <= RuleInvalid || r >= maxRule {
		return -1
	}
	return matchers[r](s)
}
