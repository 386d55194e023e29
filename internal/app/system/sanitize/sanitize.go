// Package sanitize strips values the document store rejects from a payload
// before it is written.
//
// Mongo update documents built from partial client input routinely carry
// nil entries for fields the caller never set. Writing those would clobber
// stored data with nulls, so every store write passes its payload through
// Clean (or CleanBlank for team-member records) first. Skipping this step
// is a correctness bug, not a style choice.
package sanitize

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Clean returns a copy of doc with every nil value removed, applied
// recursively to nested documents and to each element of nested arrays.
// The input is never mutated.
func Clean(doc bson.M) bson.M {
	return clean(doc, false)
}

// CleanBlank is Clean plus removal of blank or whitespace-only strings.
// Team-member records use it so that a member with an empty position does
// not slip past required-field validation.
func CleanBlank(doc bson.M) bson.M {
	return clean(doc, true)
}

func clean(doc bson.M, dropBlank bool) bson.M {
	if doc == nil {
		return nil
	}
	out := make(bson.M, len(doc))
	for k, v := range doc {
		cv, keep := cleanValue(v, dropBlank)
		if keep {
			out[k] = cv
		}
	}
	return out
}

func cleanValue(v interface{}, dropBlank bool) (interface{}, bool) {
	switch tv := v.(type) {
	case nil:
		return nil, false
	case string:
		if dropBlank && strings.TrimSpace(tv) == "" {
			return nil, false
		}
		return tv, true
	case bson.M:
		return clean(tv, dropBlank), true
	case map[string]interface{}:
		return clean(bson.M(tv), dropBlank), true
	case bson.A:
		return cleanSlice(tv, dropBlank), true
	case []interface{}:
		return cleanSlice(tv, dropBlank), true
	case []bson.M:
		out := make([]bson.M, 0, len(tv))
		for _, el := range tv {
			out = append(out, clean(el, dropBlank))
		}
		return out, true
	default:
		return v, true
	}
}

func cleanSlice(in []interface{}, dropBlank bool) []interface{} {
	out := make([]interface{}, 0, len(in))
	for _, el := range in {
		cv, keep := cleanValue(el, dropBlank)
		if keep {
			out = append(out, cv)
		}
	}
	return out
}
