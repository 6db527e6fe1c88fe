// Package equiv checks fixture files of equivalence groups: every member
// of a group must decode to the same value as the group's first member.
//
// A fixture is line oriented:
//
//	(
//	0x42
//	66
//	)
//
// Lines outside a group and blank lines are ignored. Parentheses must
// balance: a stray ")" is an error, as is a "(" that is never closed.
// Groups do not nest.
package equiv

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/mcncl/ionlit/internal/errors"
	"github.com/mcncl/ionlit/internal/models"
	"github.com/mcncl/ionlit/internal/parser"
)

// Group is one parenthesised block of literals.
type Group struct {
	// Line is the 1-based line of the opening parenthesis.
	Line    int
	Members []string
}

// DecodeFunc decodes a whole literal.
type DecodeFunc func(string) (models.Value, error)

// Failure records one member that did not decode, or decoded to a value
// different from the group's first member.
type Failure struct {
	Group  Group
	Member string
	Err    error
}

func (f Failure) Error() string {
	return fmt.Sprintf("group at line %d, member %q: %v", f.Group.Line, f.Member, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Report summarises a Check run.
type Report struct {
	Groups   int
	Members  int
	Failures []Failure
}

// OK reports whether every group held.
func (r Report) OK() bool { return len(r.Failures) == 0 }

// Err returns nil when every group held, otherwise a fixture error
// naming the first failure.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	return errors.NewFixtureError(
		fmt.Sprintf("%d of %d members failed, first: %v", len(r.Failures), r.Members, r.Failures[0]),
		errors.ErrEquivMismatch,
	)
}

// ReadGroups reads every group from r.
func ReadGroups(r io.Reader) ([]Group, error) {
	var (
		groups []Group
		open   *Group
		lineNo int
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lineNo++
		line := strings.TrimLeft(sc.Text(), " \t")
		switch {
		case line == "(":
			if open != nil {
				return nil, errors.NewFixtureError(
					fmt.Sprintf("line %d: group opened at line %d is still open", lineNo, open.Line),
					errors.ErrUnbalancedGroup,
				)
			}
			open = &Group{Line: lineNo}
		case line == ")":
			if open == nil {
				return nil, errors.NewFixtureError(
					fmt.Sprintf("line %d: no group to close", lineNo),
					errors.ErrUnbalancedGroup,
				)
			}
			groups = append(groups, *open)
			open = nil
		case strings.TrimSpace(line) == "":
		case open != nil:
			open.Members = append(open.Members, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.NewFixtureError("failed to read fixture", err)
	}
	if open != nil {
		return nil, errors.NewFixtureError(
			fmt.Sprintf("group opened at line %d is never closed", open.Line),
			errors.ErrUnbalancedGroup,
		)
	}
	return groups, nil
}

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g gzipFile) Close() error {
	err := g.Reader.Close()
	if cerr := g.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// OpenFile opens a fixture, decompressing it when the name ends in .gz.
func OpenFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(fmt.Sprintf("fixture %s", path), errors.ErrFileNotFound)
		}
		return nil, errors.NewInputError(fmt.Sprintf("cannot open fixture %s", path), err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, errors.NewFixtureError(fmt.Sprintf("%s is not gzip data", path), err)
	}
	return gzipFile{Reader: zr, f: f}, nil
}

// Check decodes every member of every group and compares it with the
// group's first member. A failing member is recorded and checking goes on.
func Check(groups []Group, decode DecodeFunc) Report {
	var report Report
	for _, g := range groups {
		report.Groups++
		if len(g.Members) == 0 {
			continue
		}

		var (
			want    models.Value
			haveRef bool
		)
		for _, m := range g.Members {
			report.Members++
			got, err := decode(m)
			if err != nil {
				report.Failures = append(report.Failures, Failure{Group: g, Member: m, Err: err})
				continue
			}
			if !haveRef {
				want, haveRef = got, true
				continue
			}
			if !got.Equal(want) {
				report.Failures = append(report.Failures, Failure{
					Group:  g,
					Member: m,
					Err: errors.NewFixtureError(
						fmt.Sprintf("decodes to %s, want %s", got, want),
						errors.ErrEquivMismatch,
					),
				})
			}
		}
	}
	return report
}

var fileKinds = map[string]models.Kind{
	"ints":                    models.KindInt,
	"bigInts":                 models.KindInt,
	"intsWithUnderscores":     models.KindInt,
	"floats":                  models.KindFloat,
	"decimals":                models.KindDecimal,
	"decimalsWithUnderscores": models.KindDecimal,
	"zeroDecimals":            models.KindDecimal,
	"strings":                 models.KindString,
	"bools":                   models.KindBoolean,
}

// fixtureName strips the directory and the .ion and .gz extensions.
func fixtureName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".gz")
	return strings.TrimSuffix(name, ".ion")
}

// KindForFile maps a fixture file to the kind its literals decode as.
// Entries in extra take precedence over the built-in names.
func KindForFile(path string, extra map[string]models.Kind) (models.Kind, bool) {
	name := fixtureName(path)
	if kind, ok := extra[name]; ok {
		return kind, true
	}
	kind, ok := fileKinds[name]
	return kind, ok
}

// DecoderFor returns the whole-literal entry point for kind. KindInvalid
// selects full dispatch.
func DecoderFor(kind models.Kind) (DecodeFunc, error) {
	switch kind {
	case models.KindInvalid:
		return decodeAny, nil
	case models.KindBoolean:
		return parser.DecodeBoolean, nil
	case models.KindInt:
		return parser.DecodeInt, nil
	case models.KindFloat:
		return parser.DecodeFloat, nil
	case models.KindDecimal:
		return parser.DecodeDecimal, nil
	case models.KindString:
		return parser.DecodeString, nil
	}
	return nil, fmt.Errorf("%w: %d", errors.ErrUnknownKind, kind)
}

func decodeAny(text string) (models.Value, error) {
	v, ok, err := parser.Parse(text, parser.Options{Strict: true})
	if err != nil {
		return models.Value{}, err
	}
	if !ok {
		return models.Value{}, errors.NewInputError(fmt.Sprintf("%q is not a literal", text), errors.ErrNoMatch)
	}
	return v, nil
}

// CheckFile reads the fixture at path and checks it with the entry point
// for kind.
func CheckFile(path string, kind models.Kind) (Report, error) {
	decode, err := DecoderFor(kind)
	if err != nil {
		return Report{}, err
	}

	rc, err := OpenFile(path)
	if err != nil {
		return Report{}, err
	}
	defer func() { _ = rc.Close() }()

	groups, err := ReadGroups(rc)
	if err != nil {
		return Report{}, err
	}
	return Check(groups, decode), nil
}
