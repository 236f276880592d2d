package blevegen

import (
	"strings"

	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/lytics/odataql/generators/gentypes"
)

// Bleve's equivalent to match_all
func MatchAll() query.Query {
	return query.NewMatchAllQuery()
}

// Bleve's equivalent to match_none
func MatchNone() query.Query {
	return query.NewMatchNoneQuery()
}

// Phrase matches the analyzed text of a string in a field.
func Phrase(fieldName string, text string) query.Query {
	q := query.NewMatchPhraseQuery(text)
	q.SetField(fieldName)
	return q
}

// Prefix matches terms starting with prefix.
func Prefix(fieldName string, prefix string) query.Query {
	q := query.NewPrefixQuery(prefix)
	q.SetField(fieldName)
	return q
}

// In creates a disjunction (OR) of scalar queries. An empty list
// matches nothing.
func In(field gentypes.Field, values []any) (query.Query, error) {
	if len(values) == 0 {
		return MatchNone(), nil
	}
	disjQuery := query.NewDisjunctionQuery(nil)
	for _, val := range values {
		q, err := scalarQuery(field, val)
		if err != nil {
			return nil, err
		}
		disjQuery.AddQuery(q)
	}
	return disjQuery, nil
}

// Exists matches documents where the field has any value.
func Exists(fieldName string) query.Query {
	wildcardQuery := query.NewWildcardQuery("*")
	wildcardQuery.SetField(fieldName)
	return wildcardQuery
}

// AndFilter creates a boolean query with multiple "must" clauses
func AndFilter(queries []query.Query) query.Query {
	boolQuery := query.NewBooleanQuery(nil, nil, nil)
	for _, q := range queries {
		boolQuery.AddMust(q)
	}
	return boolQuery
}

// OrFilter creates a boolean query with multiple "should" clauses
func OrFilter(queries []query.Query) query.Query {
	boolQuery := query.NewBooleanQuery(nil, nil, nil)
	for _, q := range queries {
		boolQuery.AddShould(q)
	}
	boolQuery.SetMinShould(1)
	return boolQuery
}

// NotFilter creates a boolean query with a "must not" clause
func NotFilter(q query.Query) query.Query {
	boolQuery := query.NewBooleanQuery(nil, nil, nil)
	boolQuery.AddMustNot(q)
	return boolQuery
}

// Wildcard creates a new Bleve wildcard query
func Wildcard(field, value string, addStars bool) query.Query {
	if addStars {
		if !strings.HasPrefix(value, "*") {
			value = "*" + value
		}
		if !strings.HasSuffix(value, "*") {
			value = value + "*"
		}
	}
	wildcardQuery := query.NewWildcardQuery(value)
	wildcardQuery.SetField(field)
	return wildcardQuery
}
