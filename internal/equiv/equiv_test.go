package equiv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/ionlit/internal/errors"
	"github.com/mcncl/ionlit/internal/models"
	"github.com/mcncl/ionlit/internal/parser"
)

func TestReadGroups(t *testing.T) {
	input := `ignored before
(
0x42
  66

	0b1000010
)
stray
(
1
)
`
	groups, err := ReadGroups(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, Group{Line: 2, Members: []string{"0x42", "66", "0b1000010"}}, groups[0])
	assert.Equal(t, Group{Line: 9, Members: []string{"1"}}, groups[1])
}

func TestReadGroups_Unbalanced(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"never closed", "(\n1\n"},
		{"nested", "(\n1\n(\n2\n)\n)\n"},
		{"stray close", "1\n)\n"},
		{"closed twice", "(\n1\n)\n)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGroups(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrUnbalancedGroup)
			assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeFixture})
		})
	}
}

func TestReadGroups_StrayCloseLine(t *testing.T) {
	_, err := ReadGroups(strings.NewReader("(\n1\n)\n\n)\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 5: no group to close")
}

func TestCheck_IsolatesFailures(t *testing.T) {
	groups := []Group{
		{Line: 1, Members: []string{"0x42", "66"}},
		{Line: 5, Members: []string{"1", "2", "0x_1", "1"}},
		{Line: 11, Members: []string{"0b1", "1"}},
	}

	report := Check(groups, parser.DecodeInt)
	assert.False(t, report.OK())
	assert.Equal(t, 3, report.Groups)
	assert.Equal(t, 8, report.Members)
	require.Len(t, report.Failures, 2)

	mismatch := report.Failures[0]
	assert.Equal(t, "2", mismatch.Member)
	assert.Equal(t, 5, mismatch.Group.Line)
	assert.ErrorIs(t, mismatch, errors.ErrEquivMismatch)

	noMatch := report.Failures[1]
	assert.Equal(t, "0x_1", noMatch.Member)
	assert.ErrorIs(t, noMatch, errors.ErrTrailingInput)

	err := report.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrEquivMismatch)
	assert.Contains(t, err.Error(), "2 of 8 members failed")
}

func TestCheck_DecodeErrorIsRecorded(t *testing.T) {
	groups := []Group{{Line: 1, Members: []string{`"\uD800"`, `"x"`}}}

	report := Check(groups, parser.DecodeString)
	require.Len(t, report.Failures, 1)
	assert.True(t, errors.IsDecodeError(report.Failures[0].Err))
}

func TestCheckFile_Fixtures(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.ion"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			kind, ok := KindForFile(path, nil)
			require.True(t, ok, "no kind for %s", path)

			report, err := CheckFile(path, kind)
			require.NoError(t, err)
			assert.NotZero(t, report.Groups)
			for _, f := range report.Failures {
				t.Error(f)
			}
		})
	}
}

func TestCheckFile_FullDispatch(t *testing.T) {
	// Floats, strings and bools dispatch to their own kind.
	for _, name := range []string{"floats.ion", "strings.ion", "bools.ion", "ints.ion"} {
		report, err := CheckFile(filepath.Join("testdata", name), models.KindInvalid)
		require.NoError(t, err)
		assert.True(t, report.OK(), "%s: %v", name, report.Failures)
	}
}

func TestOpenFile_Gzip(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("testdata", "ints.ion"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ints.ion.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write(src)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	kind, ok := KindForFile(path, nil)
	require.True(t, ok)
	assert.Equal(t, models.KindInt, kind)

	report, err := CheckFile(path, kind)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 4, report.Groups)
}

func TestOpenFile_Errors(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.ion"))
	assert.ErrorIs(t, err, errors.ErrFileNotFound)

	path := filepath.Join(t.TempDir(), "plain.ion.gz")
	require.NoError(t, os.WriteFile(path, []byte("(\n1\n)\n"), 0o644))
	_, err = OpenFile(path)
	assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeFixture})
}

func TestKindForFile(t *testing.T) {
	extra := map[string]models.Kind{"prices": models.KindDecimal, "floats": models.KindDecimal}

	tests := []struct {
		path string
		want models.Kind
		ok   bool
	}{
		{"a/b/ints.ion", models.KindInt, true},
		{"bigInts.ion.gz", models.KindInt, true},
		{"zeroDecimals", models.KindDecimal, true},
		{"bools.ion", models.KindBoolean, true},
		{"prices.ion", models.KindDecimal, true},
		{"floats.ion", models.KindDecimal, true},
		{"symbols.ion", models.KindInvalid, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			kind, ok := KindForFile(tt.path, extra)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestDecoderFor(t *testing.T) {
	decode, err := DecoderFor(models.KindDecimal)
	require.NoError(t, err)
	v, err := decode("1d-1")
	require.NoError(t, err)
	assert.Equal(t, models.KindDecimal, v.Kind())

	decode, err = DecoderFor(models.KindInvalid)
	require.NoError(t, err)
	_, err = decode("hello")
	assert.ErrorIs(t, err, errors.ErrNoMatch)

	_, err = DecoderFor(models.Kind(99))
	assert.ErrorIs(t, err, errors.ErrUnknownKind)
}
