package parse

import "testing"

func TestJSONObjectRecoversWrappedObject(t *testing.T) {
	raw := "\x1b[32mDone!\x1b[0m some prose before {\"ok\": true, \"n\": 3} and after"
	obj := JSONObject(raw)
	if obj == nil {
		t.Fatal("expected object, got nil")
	}
	if v, _ := obj["ok"].(bool); !v {
		t.Fatalf("unexpected object: %+v", obj)
	}
}

func TestJSONObjectNilCases(t *testing.T) {
	cases := []string{
		"",
		"no braces at all",
		"} misordered {",
		"{ not json ]",
	}
	for _, raw := range cases {
		if obj := JSONObject(raw); obj != nil {
			t.Fatalf("expected nil for %q, got %+v", raw, obj)
		}
	}
}

func TestStripANSI(t *testing.T) {
	in := "\x1b[1;33mwarn\x1b[0m plain \x1b[2Ktail"
	if got := StripANSI(in); got != "warn plain tail" {
		t.Fatalf("unexpected strip result: %q", got)
	}
}
