package sanitize

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestClean_RemovesNilValues(t *testing.T) {
	in := bson.M{
		"title": "Tech Fest",
		"venue": nil,
		"nested": bson.M{
			"keep": 1,
			"drop": nil,
		},
	}

	got := Clean(in)

	want := bson.M{
		"title":  "Tech Fest",
		"nested": bson.M{"keep": 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Clean() = %#v, want %#v", got, want)
	}
}

func TestClean_RecursesIntoArrays(t *testing.T) {
	in := bson.M{
		"team": []interface{}{
			bson.M{"id": "u1", "name": "Amit", "position": nil},
			nil,
			bson.M{"id": "u2", "name": "Priya"},
		},
	}

	got := Clean(in)

	team, ok := got["team"].([]interface{})
	if !ok {
		t.Fatalf("team is %T, want []interface{}", got["team"])
	}
	if len(team) != 2 {
		t.Fatalf("got %d team entries, want 2 (nil element dropped)", len(team))
	}
	first := team[0].(bson.M)
	if _, present := first["position"]; present {
		t.Error("nil position should be removed from nested member")
	}
}

func TestClean_DoesNotMutateInput(t *testing.T) {
	in := bson.M{
		"a": nil,
		"b": bson.M{"c": nil, "d": "x"},
	}

	_ = Clean(in)

	if _, present := in["a"]; !present {
		t.Error("input map was mutated: key a removed")
	}
	if _, present := in["b"].(bson.M)["c"]; !present {
		t.Error("nested input map was mutated: key c removed")
	}
}

func TestClean_KeepsEmptyStrings(t *testing.T) {
	got := Clean(bson.M{"description": ""})
	if _, present := got["description"]; !present {
		t.Error("Clean should keep empty strings; only CleanBlank drops them")
	}
}

func TestCleanBlank_DropsBlankStrings(t *testing.T) {
	in := bson.M{
		"id":       "u1",
		"name":     "   ",
		"position": "",
		"note":     "ok",
	}

	got := CleanBlank(in)

	want := bson.M{"id": "u1", "note": "ok"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CleanBlank() = %#v, want %#v", got, want)
	}
}
