package formatter

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-json-experiment/json/jsontext"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/ionlit/internal/errors"
	"github.com/mcncl/ionlit/internal/grammar"
	"github.com/mcncl/ionlit/internal/models"
)

// cborDecimalTag is the RFC 8949 decimal fraction tag.
const cborDecimalTag = 4

// Record is one decoded literal together with how it was matched.
type Record struct {
	Input  string
	Rule   grammar.Rule
	Lexeme string
	Value  models.Value
}

// Options configures a Formatter.
type Options struct {
	// Format is one of text, json, yaml or cbor.
	Format string

	// KeyName renders record field names for json, yaml and cbor.
	// Nil leaves the Go field names unchanged.
	KeyName func(string) string

	// ShowLexeme adds the matched rule and lexeme to every record.
	ShowLexeme bool
}

// Formatter writes decoded records in one output format.
type Formatter struct {
	opts  Options
	write func(io.Writer, []Record) error
	cbor  cbor.EncMode
}

// NewFormatter creates a Formatter, rejecting unknown formats.
func NewFormatter(opts Options) (*Formatter, error) {
	if opts.KeyName == nil {
		opts.KeyName = func(s string) string { return s }
	}
	f := &Formatter{opts: opts}

	switch opts.Format {
	case "", "text":
		f.write = f.writeText
	case "json":
		f.write = f.writeJSON
	case "yaml":
		f.write = f.writeYAML
	case "cbor":
		em, err := cbor.CoreDetEncOptions().EncMode()
		if err != nil {
			return nil, errors.NewOutputError("failed to initialize CBOR encoder", err)
		}
		f.cbor = em
		f.write = f.writeCBOR
	default:
		return nil, errors.NewOutputError(fmt.Sprintf("unknown format %q", opts.Format), errors.ErrUnknownFormat)
	}
	return f, nil
}

// Format returns the encoded records.
func (f *Formatter) Format(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes records to w.
func (f *Formatter) Write(w io.Writer, records []Record) error {
	if err := f.write(w, records); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to write %s output", f.opts.Format), err)
	}
	return nil
}

// field is one key/value pair of a structured record, in output order.
type field struct {
	key   string
	value models.Value
	text  string
	plain bool
}

func (f *Formatter) fields(r Record) []field {
	out := []field{
		{key: "Input", text: r.Input, plain: true},
		{key: "Kind", text: r.Value.Kind().String(), plain: true},
		{key: "IsNull", value: models.NewBoolean(r.Value.IsNull())},
		{key: "Value", value: r.Value},
	}
	if f.opts.ShowLexeme {
		out = append(out,
			field{key: "MatchedRule", text: r.Rule.String(), plain: true},
			field{key: "Lexeme", text: r.Lexeme, plain: true},
		)
	}
	for i := range out {
		out[i].key = f.opts.KeyName(out[i].key)
	}
	return out
}

func (f *Formatter) writeText(w io.Writer, records []Record) error {
	for _, r := range records {
		line := r.Value.String()
		if f.opts.ShowLexeme {
			line = fmt.Sprintf("%s\t%s %q", line, r.Rule, r.Lexeme)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// jsonToken renders a payload. Ints and decimals are strings so that no
// JSON reader rounds them through a float64.
func jsonToken(v models.Value) jsontext.Token {
	if v.IsNull() {
		return jsontext.Null
	}
	switch v.Kind() {
	case models.KindBoolean:
		b, _ := v.Bool()
		return jsontext.Bool(b)
	case models.KindFloat:
		f, _ := v.Float64()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return jsontext.String(v.Payload())
		}
		return jsontext.Float(f)
	case models.KindString:
		s, _ := v.Text()
		return jsontext.String(s)
	}
	return jsontext.String(v.Payload())
}

func (f *Formatter) writeJSON(w io.Writer, records []Record) error {
	enc := jsontext.NewEncoder(w, jsontext.WithIndent("  "))
	if err := enc.WriteToken(jsontext.ArrayStart); err != nil {
		return err
	}
	for _, r := range records {
		if err := enc.WriteToken(jsontext.ObjectStart); err != nil {
			return err
		}
		for _, fl := range f.fields(r) {
			if err := enc.WriteToken(jsontext.String(fl.key)); err != nil {
				return err
			}
			tok := jsontext.String(fl.text)
			if !fl.plain {
				tok = jsonToken(fl.value)
			}
			if err := enc.WriteToken(tok); err != nil {
				return err
			}
		}
		if err := enc.WriteToken(jsontext.ObjectEnd); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.ArrayEnd)
}

func yamlScalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func yamlValue(v models.Value) *yaml.Node {
	if v.IsNull() {
		return yamlScalar("!!null", "null")
	}
	switch v.Kind() {
	case models.KindBoolean:
		return yamlScalar("!!bool", v.Payload())
	case models.KindInt:
		return yamlScalar("!!int", v.Payload())
	case models.KindFloat:
		f, _ := v.Float64()
		switch {
		case math.IsNaN(f):
			return yamlScalar("!!float", ".nan")
		case math.IsInf(f, 1):
			return yamlScalar("!!float", ".inf")
		case math.IsInf(f, -1):
			return yamlScalar("!!float", "-.inf")
		}
		return yamlScalar("!!float", strconv.FormatFloat(f, 'g', -1, 64))
	case models.KindDecimal:
		// Quoted so that readers do not round it to a float.
		n := yamlScalar("!!str", v.Payload())
		n.Style = yaml.DoubleQuotedStyle
		return n
	}
	s, _ := v.Text()
	return yamlScalar("!!str", s)
}

func (f *Formatter) writeYAML(w io.Writer, records []Record) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, r := range records {
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, fl := range f.fields(r) {
			val := yamlScalar("!!str", fl.text)
			if !fl.plain {
				val = yamlValue(fl.value)
			}
			m.Content = append(m.Content, yamlScalar("!!str", fl.key), val)
		}
		doc.Content = append(doc.Content, m)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// cborValue maps a payload onto the CBOR data model: ints become
// integers or bignums, decimals become tag 4 decimal fractions
// [exponent, mantissa].
func cborValue(v models.Value) any {
	if v.IsNull() {
		return nil
	}
	switch v.Kind() {
	case models.KindBoolean:
		b, _ := v.Bool()
		return b
	case models.KindInt:
		return v.BigInt()
	case models.KindFloat:
		f, _ := v.Float64()
		return f
	case models.KindDecimal:
		d := v.Decimal()
		mantissa := new(big.Int).Set(d.Coeff.MathBigInt())
		if d.Negative {
			mantissa.Neg(mantissa)
		}
		return cbor.Tag{Number: cborDecimalTag, Content: []any{int64(d.Exponent), mantissa}}
	}
	s, _ := v.Text()
	return s
}

func (f *Formatter) writeCBOR(w io.Writer, records []Record) error {
	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		m := make(map[string]any)
		for _, fl := range f.fields(r) {
			if fl.plain {
				m[fl.key] = fl.text
			} else {
				m[fl.key] = cborValue(fl.value)
			}
		}
		out = append(out, m)
	}
	return f.cbor.NewEncoder(w).Encode(out)
}
