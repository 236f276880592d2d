package mongogen

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/lytics/odataql/expr"
	"github.com/lytics/odataql/generators/gentypes"
	"github.com/lytics/odataql/value"
	"github.com/lytics/odataql/vm"
)

func TestCompileExact(t *testing.T) {
	g := NewGenerator()
	doc, err := g.Compile("a eq 1 OR b eq 2")
	require.NoError(t, err)
	assert.Equal(t, bson.M{"$or": bson.A{
		bson.M{"a": bson.M{"$eq": int64(1)}},
		bson.M{"b": bson.M{"$eq": int64(2)}},
	}}, doc)
	js, err := ExtJSON(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"$or":[{"a":{"$eq":1}},{"b":{"$eq":2}}]}`, js)
}

func TestCompileJSON(t *testing.T) {
	tests := []struct {
		filter string
		want   string
	}{
		{"field eq 10", `{"field":{"$eq":10}}`},
		{"field ne null", `{"field":{"$ne":null}}`},
		{"neg lt -7", `{"neg":{"$lt":-7}}`},
		{"score ge 99.5", `{"score":{"$gte":99.5}}`},
		{"duration le 45 AND direction eq 'inbound'",
			`{"$and":[{"duration":{"$lte":45}},{"direction":{"$eq":"inbound"}}]}`},
		{"a eq 1 OR b eq 2 AND c eq 3",
			`{"$or":[{"a":{"$eq":1}},{"$and":[{"b":{"$eq":2}},{"c":{"$eq":3}}]}]}`},
		{"name startswith 'John'", `{"name":{"$regex":"^John","$options":"i"}}`},
		{"call_id endswith '100'", `{"call_id":{"$regex":"100$","$options":"i"}}`},
		{"name like 'oh'", `{"name":{"$regex":"oh","$options":"i"}}`},
		{"name like 'J%n'", `{"name":{"$regex":"^J.*n$","$options":"i"}}`},
		{"name startswith 'a.b'", `{"name":{"$regex":"^a\\.b","$options":"i"}}`},
		{"tags has 'urgent'", `{"tags":{"$elemMatch":{"$eq":"urgent"}}}`},
		{"tags hasNot 'urgent'", `{"tags":{"$not":{"$elemMatch":{"$eq":"urgent"}}}}`},
		{"type in ['INTERNAL', 'EXTERNAL']", `{"type":{"$in":["INTERNAL","EXTERNAL"]}}`},
		{"type contains 'INTERNAL'", `{"type":{"$in":["INTERNAL"]}}`},
		{"type lacks ['INTERNAL']", `{"type":{"$nin":["INTERNAL"]}}`},
		{"a add b", `{"$add":["$a","$b"]}`},
		{"a mod 2", `{"$mod":["$a",2]}`},
		{"a eq b", `{"$expr":{"$eq":["$a","$b"]}}`},
		{"toLower(name) eq 'john'", `{"$expr":{"$eq":[{"$toLower":"$name"},"john"]}}`},
		{"length(trim(name)) gt 3", `{"$expr":{"$gt":[{"$strLenCP":{"$trim":{"input":"$name"}}},3]}}`},
		{"year(created) eq 2023", `{"$expr":{"$eq":[{"$year":"$created"},2023]}}`},
		{"substring(name, 1, 2) eq 'oh'", `{"$expr":{"$eq":[{"$substrCP":["$name",1,2]},"oh"]}}`},
		{"replace(name, 'a', 'b') eq 'x'", `{"$expr":{"$eq":[{"$replaceAll":{"input":"$name","find":"a","replacement":"b"}},"x"]}}`},
		{"toUpper(name) startswith 'JO'", `{"$expr":{"$regexMatch":{"input":{"$toUpper":"$name"},"regex":"^JO","options":"i"}}}`},
		{"a in b", `{"$expr":{"$in":["$a","$b"]}}`},
		{"a eq '$b'", `{"a":{"$eq":"$b"}}`},
		{"toLower(a) eq '$b'", `{"$expr":{"$eq":[{"$toLower":"$a"},{"$literal":"$b"}]}}`},
		{"flag eq true", `{"flag":{"$eq":true}}`},
		{"at eq 10:30", `{"at":{"$eq":"10:30:00"}}`},
		{"timestamp ge 2023-10-01", `{"timestamp":{"$gte":{"$date":"2023-10-01T00:00:00Z"}}}`},
	}
	g := NewGenerator()
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			doc, err := g.Compile(tt.filter)
			require.NoError(t, err)
			js, err := ExtJSON(doc)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, js)
		})
	}
}

func TestRegexKeyOrder(t *testing.T) {
	doc, err := NewGenerator().Compile("name startswith 'John'")
	require.NoError(t, err)
	assert.Equal(t, bson.M{"name": bson.D{{Key: "$regex", Value: "^John"}, {Key: "$options", Value: "i"}}}, doc)
}

func TestDateLiteral(t *testing.T) {
	doc, err := NewGenerator().Compile("timestamp lt 2023-10-01")
	require.NoError(t, err)
	inner := doc["timestamp"].(bson.M)
	assert.Equal(t, time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC), inner["$lt"])
}

func TestSchema(t *testing.T) {
	schema := gentypes.NewSchema(
		&gentypes.FieldType{Field: "id", Path: "_id", Type: value.StringType},
		&gentypes.FieldType{Field: "duration", Type: value.IntType},
		&gentypes.FieldType{Field: "timestamp", Type: value.DateType},
	)
	g := NewGenerator(WithSchema(schema))

	doc, err := g.Compile("id eq '507f1f77bcf86cd799439011' AND duration gt '30'")
	require.NoError(t, err)
	assert.Equal(t, bson.M{"$and": bson.A{
		bson.M{"_id": bson.M{"$eq": "507f1f77bcf86cd799439011"}},
		bson.M{"duration": bson.M{"$gt": int64(30)}},
	}}, doc)

	doc, err = g.Compile("timestamp ge 'Oct 1, 2023'")
	require.NoError(t, err)
	ts, ok := doc["timestamp"].(bson.M)["$gte"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 2023, ts.Year())

	_, err = g.Compile("direction eq 'inbound'")
	var mf *gentypes.ErrorMissingField
	assert.True(t, errors.As(err, &mf))
}

func TestCompileErrors(t *testing.T) {
	g := NewGenerator()

	_, err := g.Compile("a eq")
	var se *expr.SyntaxError
	assert.True(t, errors.As(err, &se))

	_, err = g.Compile("concat(a) eq 'x'")
	var fe *vm.UnknownFunctionError
	assert.True(t, errors.As(err, &fe))

	_, err = g.Compile("toLower(a) has 'x'")
	assert.True(t, errors.Is(err, gentypes.ErrInvalidOperand))

	_, err = g.Compile("a like b")
	assert.True(t, errors.Is(err, gentypes.ErrInvalidOperand))

	_, err = g.Compile("trim(a, b) eq 'x'")
	var ae *vm.ArityError
	assert.True(t, errors.As(err, &ae))
}

func TestWalk(t *testing.T) {
	p, err := NewGenerator().Walk("a eq 1")
	require.NoError(t, err)
	assert.Equal(t, bson.M{"a": bson.M{"$eq": int64(1)}}, p.Filter)
}
