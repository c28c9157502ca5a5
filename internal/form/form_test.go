package form

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestTextAcceptsScalars(t *testing.T) {
	var got struct {
		Amount  Text `json:"amount"`
		Name    Text `json:"name"`
		Flag    Text `json:"flag"`
		Missing Text `json:"missing"`
	}
	if err := json.Unmarshal([]byte(`{"amount":1000,"name":"Ada","flag":true,"missing":null}`), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Amount != "1000" || got.Name != "Ada" || got.Flag != "true" || got.Missing != "" {
		t.Fatalf("unexpected values: %+v", got)
	}
}

func TestTextRejectsObjects(t *testing.T) {
	var got struct {
		Amount Text `json:"amount"`
	}
	if err := json.Unmarshal([]byte(`{"amount":[1]}`), &got); err == nil {
		t.Fatal("expected error for array value")
	}
}
