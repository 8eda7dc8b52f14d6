package coachdto

import (
	"encoding/json"
	"testing"
)

func TestOKEnvelope(t *testing.T) {
	move := "Nf3"
	raw, err := json.Marshal(OK(&move, "Play Nf3."))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"success":true,"bestMove":"Nf3","advice":"Play Nf3.","error":null}`
	if string(raw) != want {
		t.Fatalf("envelope = %s, want %s", raw, want)
	}
}

func TestOKEnvelope_NilBestMove(t *testing.T) {
	raw, err := json.Marshal(OK(nil, "Play carefully."))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"success":true,"bestMove":null,"advice":"Play carefully.","error":null}`
	if string(raw) != want {
		t.Fatalf("envelope = %s, want %s", raw, want)
	}
}

func TestFailEnvelope(t *testing.T) {
	raw, err := json.Marshal(Fail("moves field is required"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"success":false,"bestMove":null,"advice":"","error":"moves field is required"}`
	if string(raw) != want {
		t.Fatalf("envelope = %s, want %s", raw, want)
	}
}
