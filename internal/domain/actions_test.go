package domain

import (
	"strings"
	"testing"
)

func TestParseActions(t *testing.T) {
	actions, err := ParseActions(`[{"type":"mint","params":{"to":"alice","amount":"100"}},{"type":"burn","params":{"from":"bob","amount":"50"}}]`)
	if err != nil {
		t.Fatalf("ParseActions error = %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("len(actions) = %d, want 2", len(actions))
	}
	if actions[0].Type != ActionMint || actions[1].Type != ActionBurn {
		t.Errorf("types = %s, %s", actions[0].Type, actions[1].Type)
	}
}

func TestParseActionsEmpty(t *testing.T) {
	actions, err := ParseActions("")
	if err != nil || actions != nil {
		t.Errorf("ParseActions(\"\") = %v, %v, want nil, nil", actions, err)
	}
}

func TestParseActionsInvalidJSON(t *testing.T) {
	if _, err := ParseActions("{not json"); err == nil {
		t.Error("ParseActions accepted malformed JSON")
	}
}

func TestDecodeParams(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{"mint ok", `[{"type":"mint","params":{"to":"alice","amount":"100"}}]`, ""},
		{"mint missing to", `[{"type":"mint","params":{"amount":"100"}}]`, "mint action requires to"},
		{"mint zero amount", `[{"type":"mint","params":{"to":"alice","amount":"0"}}]`, "must be positive"},
		{"burn ok", `[{"type":"burn","params":{"from":"bob","amount":"50"}}]`, ""},
		{"burn missing from", `[{"type":"burn","params":{"amount":"50"}}]`, "burn action requires from"},
		{"parameter change ok", `[{"type":"parameter_change","params":{"config":"staking","key":"annual_rate_percent","value":"7"}}]`, ""},
		{"parameter change missing key", `[{"type":"parameter_change","params":{"config":"staking"}}]`, "requires config and key"},
		{"unknown type", `[{"type":"teleport"}]`, `unknown action type "teleport"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions, err := ParseActions(tt.raw)
			if err != nil {
				t.Fatalf("ParseActions error = %v", err)
			}
			_, err = actions[0].DecodeParams()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("DecodeParams error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("DecodeParams error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
