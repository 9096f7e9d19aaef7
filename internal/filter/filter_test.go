package filter

import (
	"encoding/json"
	"testing"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		expr    string
		want    string
		wantErr bool
	}{
		{name: "empty expression", body: `{"a":1}`, expr: "", want: `{"a":1}`},
		{name: "field", body: `{"a":{"b":2}}`, expr: "a.b", want: "2"},
		{name: "projection", body: `[{"n":"x"},{"n":"y"}]`, expr: "[].n", want: "[\n  \"x\",\n  \"y\"\n]"},
		{name: "missing field", body: `{"a":1}`, expr: "b", want: "null"},
		{name: "invalid json", body: `{`, expr: "a", wantErr: true},
		{name: "invalid expression", body: `{}`, expr: "[?", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.body, tt.expr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Apply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRows(t *testing.T) {
	rows := []json.RawMessage{
		json.RawMessage(`{"name":"alice","age":31}`),
		json.RawMessage(`{"name":"bob","age":17}`),
		json.RawMessage(`{"name":"carol","age":45}`),
	}

	got, err := Rows(rows, "[?age > `30`].name")
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if len(got) != 2 || string(got[0]) != `"alice"` || string(got[1]) != `"carol"` {
		t.Errorf("Rows() = %s", got)
	}

	got, err = Rows(rows, "length(@)")
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if len(got) != 1 || string(got[0]) != "3" {
		t.Errorf("Rows(length) = %s", got)
	}

	got, err = Rows(rows, "")
	if err != nil || len(got) != 3 {
		t.Errorf("Rows(empty) = %s, %v", got, err)
	}

	if _, err := Rows(rows, "[?"); err == nil {
		t.Error("expected error for invalid expression")
	}
}

func TestIsValidJMESPath(t *testing.T) {
	if !IsValidJMESPath("a.b[0]") {
		t.Error("expected a.b[0] to be valid")
	}
	if IsValidJMESPath("a.[") {
		t.Error("expected a.[ to be invalid")
	}
}

func TestFuzzy(t *testing.T) {
	names := []string{"customers", "orders", "_system_users", "order_items"}

	all := Fuzzy("", names)
	if len(all) != 4 || all[0] != 0 || all[3] != 3 {
		t.Errorf("Fuzzy(\"\") = %v", all)
	}

	got := Fuzzy("ord", names)
	if len(got) != 2 {
		t.Fatalf("Fuzzy(ord) = %v, want 2 matches", got)
	}
	for _, idx := range got {
		if names[idx] != "orders" && names[idx] != "order_items" {
			t.Errorf("unexpected match %q", names[idx])
		}
	}

	if got := Fuzzy("zzz", names); len(got) != 0 {
		t.Errorf("Fuzzy(zzz) = %v, want none", got)
	}
}
