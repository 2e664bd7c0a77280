package tile

import (
	"encoding/json"
	"testing"
)

func TestResultMarshalShapes(t *testing.T) {
	tests := []struct {
		name string
		in   Result
		want string
	}{
		{"success with image", Success("https://x/a.png", "Dog CEO API"), `{"image":"https://x/a.png","text":"Dog CEO API"}`},
		{"success without image", Success("", "a fact"), `{"image":null,"text":"a fact"}`},
		{"failure", Failure("HTTP 500"), `{"error":"HTTP 500"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResultUnmarshalTolerant(t *testing.T) {
	var r Result
	if err := json.Unmarshal([]byte(`{"image":42,"text":"hello"}`), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Image != "" || r.Text != "hello" || r.Failed() {
		t.Errorf("unexpected result %+v", r)
	}

	if err := json.Unmarshal([]byte(`{"error":"boom","text":"ignored"}`), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Failed() || r.Err != "boom" || r.Text != "" {
		t.Errorf("expected pure failure, got %+v", r)
	}

	if err := json.Unmarshal([]byte(`"just a string"`), &r); err == nil {
		t.Error("expected error for non-object")
	}
}

func TestFailureNeverEmpty(t *testing.T) {
	if r := Failure(""); !r.Failed() {
		t.Error("Failure(\"\") should still be a failure")
	}
}

func TestFind(t *testing.T) {
	defs := []Definition{{ID: "dog", Title: "Random Dog"}, {ID: "fox", Title: "Random Fox"}}
	if d, ok := Find(defs, "fox"); !ok || d.Title != "Random Fox" {
		t.Errorf("Find(fox) = %+v, %v", d, ok)
	}
	if _, ok := Find(defs, "duck"); ok {
		t.Error("Find(duck) should miss")
	}
	ids := IDs(defs)
	if len(ids) != 2 || ids[0] != "dog" || ids[1] != "fox" {
		t.Errorf("IDs = %v", ids)
	}
}
