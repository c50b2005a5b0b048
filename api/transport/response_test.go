package transport

import (
	"encoding/json"
	"testing"
)

func TestEnvelope_ErrorCarriesCode(t *testing.T) {
	env := NewError("NOT_FOUND", "sale not found", nil)
	if !env.IsError() {
		t.Error("error envelope must report IsError")
	}
	body, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(body)
	if got != `{"status":"error","code":"NOT_FOUND","error":"sale not found"}` {
		t.Errorf("unexpected body: %s", got)
	}
}

func TestEnvelope_SuccessOmitsErrorFields(t *testing.T) {
	env := NewSuccess(map[string]int{"stock": 4}, nil)
	if env.IsError() {
		t.Error("success envelope must not report IsError")
	}
	body, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(body)
	if got != `{"status":"success","data":{"stock":4}}` {
		t.Errorf("unexpected body: %s", got)
	}
}
