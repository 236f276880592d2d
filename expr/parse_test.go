package expr

import (
	"errors"
	"testing"

	u "github.com/araddon/gou"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lytics/odataql/lex"
	"github.com/lytics/odataql/value"
)

func init() {
	u.SetupLogging("debug")
}

func TestParsePrecedence(t *testing.T) {
	n, err := ParseFilter("a eq 1 OR b eq 2 AND b eq 3")
	require.NoError(t, err)
	or, ok := n.(*BooleanNode)
	require.True(t, ok)
	assert.Equal(t, lex.OpOr, or.Operator)
	require.Len(t, or.Args, 2)
	assert.Equal(t, BinaryNodeType, or.Args[0].NodeType())
	and, ok := or.Args[1].(*BooleanNode)
	require.True(t, ok)
	assert.Equal(t, lex.OpAnd, and.Operator)
	assert.Len(t, and.Args, 2)
}

func TestParseFlattens(t *testing.T) {
	n, err := ParseFilter("a eq 1 AND b eq 2 AND c eq 3")
	require.NoError(t, err)
	and, ok := n.(*BooleanNode)
	require.True(t, ok)
	assert.Len(t, and.Args, 3)

	n, err = ParseFilter("a eq 1")
	require.NoError(t, err)
	assert.Equal(t, BinaryNodeType, n.NodeType())
}

func TestParseDeterministic(t *testing.T) {
	filters := []string{
		"a eq 1 OR b eq 2 AND b eq 3",
		"toLower(substring(name, 1, 3)) eq 'ohn'",
		"type in ['INTERNAL', 'EXTERNAL']",
		"metadata.settings.notifications eq true",
		"created_at ge 2023-01-15 AND start lt 10:30",
		"neg lt -7",
		"metadata eq null",
	}
	for _, f := range filters {
		t.Run(f, func(t *testing.T) {
			a, err := ParseFilter(f)
			require.NoError(t, err)
			b, err := ParseFilter(f)
			require.NoError(t, err)
			assert.True(t, a.Equal(b))
			// String round trips to an equal tree
			c, err := ParseFilter(a.String())
			require.NoError(t, err)
			assert.True(t, a.Equal(c), "%s != %s", a, c)
		})
	}
}

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		filter string
		want   value.ValueType
	}{
		{"a eq 10", value.IntType},
		{"a eq -7", value.IntType},
		{"a eq 10.5", value.NumberType},
		{"a eq 'x'", value.StringType},
		{`a eq "x"`, value.StringType},
		{"a eq 2023-01-15", value.DateType},
		{"a eq '2023-01-15'", value.DateType},
		{"a eq 10:30", value.ClockType},
		{"a eq TRUE", value.BoolType},
	}
	for _, tt := range tests {
		n, err := ParseFilter(tt.filter)
		require.NoError(t, err, tt.filter)
		bn := n.(*BinaryNode)
		lit, ok := bn.Args[1].(*LiteralNode)
		require.True(t, ok, tt.filter)
		assert.Equal(t, tt.want, lit.Value.Type(), tt.filter)
	}
	// lower case keywords stay identifiers, the interpreter classifies them
	n, err := ParseFilter("a eq null")
	require.NoError(t, err)
	assert.Equal(t, IdentityNodeType, n.(*BinaryNode).Args[1].NodeType())
}

func TestParseFunctions(t *testing.T) {
	n, err := ParseFilter("ToLower(trim(name)) eq 'x'")
	require.NoError(t, err)
	fn, ok := n.(*BinaryNode).Args[0].(*FuncNode)
	require.True(t, ok)
	assert.Equal(t, lex.FuncToLower, fn.Func)
	require.Len(t, fn.Args, 1)
	inner := fn.Args[0].(*FuncNode)
	assert.Equal(t, lex.FuncTrim, inner.Func)

	n, err = ParseFilter("concat(a, b) eq 'x'")
	require.NoError(t, err)
	assert.Equal(t, lex.FuncUnknown, n.(*BinaryNode).Args[0].(*FuncNode).Func)
}

func TestParseCollections(t *testing.T) {
	n, err := ParseFilter("type in ['A', \"B\", c, 3]")
	require.NoError(t, err)
	arr, ok := n.(*BinaryNode).Args[1].(*ArrayNode)
	require.True(t, ok)
	assert.Len(t, arr.Args, 4)
	assert.Equal(t, "type in ['A', \"B\", c, 3]", n.String())

	n, err = ParseFilter("type in []")
	require.NoError(t, err)
	assert.Len(t, n.(*BinaryNode).Args[1].(*ArrayNode).Args, 0)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		filter string
		err    error
	}{
		{"", ErrEmptyFilter},
		{"a eq", ErrUnexpectedEnd},
		{"a", ErrUnexpectedEnd},
		{"a foo 1", ErrUnexpectedToken},
		{"a AND b", ErrUnexpectedToken},
		{"a eq 1 AND", ErrUnexpectedEnd},
		{"a eq 1 and b eq 2", ErrUnexpectedToken},
		{"(a eq 1)", ErrGroupedFilter},
		{"Name eq 1", ErrUnexpectedToken},
		{"a eq 1.2.3", ErrUnexpectedToken},
		{"a eq 2023-13-01", value.ErrLiteral},
		{"a in [[1]]", ErrUnexpectedToken},
		{"a eq 'open", lex.ErrUnterminatedString},
		{"a eq 1 b", ErrUnexpectedToken},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			_, err := ParseFilter(tt.filter)
			require.Error(t, err)
			var se *SyntaxError
			require.True(t, errors.As(err, &se), "%T %v", err, err)
			assert.Equal(t, tt.filter, se.Filter)
			assert.True(t, errors.Is(err, tt.err), "%v", err)
		})
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := ParseFilter("a eq 1 OR b foo 2")
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 12, se.Pos)
}
