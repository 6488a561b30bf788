package domain

import "testing"

func TestNormalizeAccessKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"clt-7f2k", "CLT-7F2K"},
		{"  CLT-7F2K  ", "CLT-7F2K"},
		{"Clt-7f2K", "CLT-7F2K"},
		{"CLT-7F2K", "CLT-7F2K"},
	}
	for _, tc := range cases {
		if got := NormalizeAccessKey(tc.in); got != tc.want {
			t.Fatalf("NormalizeAccessKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeAccessKey_Idempotent(t *testing.T) {
	once := NormalizeAccessKey(" red-1234 ")
	twice := NormalizeAccessKey(once)
	if once != twice {
		t.Fatalf("normalization not idempotent: %q vs %q", once, twice)
	}
}

func TestValidAccessKey(t *testing.T) {
	valid := []string{"CLT-7F2K", "RED-1234", "ACME-90XZ"}
	for _, key := range valid {
		if !ValidAccessKey(key) {
			t.Fatalf("expected %q to be valid", key)
		}
	}

	invalid := []string{"", "CLT", "CLT-", "CLT-7F", "clt-7f2k", "C-7F2K", "CLT 7F2K", "TOOLONG-7F2K", "CLT-7F2K9"}
	for _, key := range invalid {
		if ValidAccessKey(key) {
			t.Fatalf("expected %q to be invalid", key)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []ProjectStatus{StatusPlanning, StatusActive, StatusReview, StatusDone} {
		if !ValidStatus(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	if ValidStatus("archived") {
		t.Fatalf("expected unknown status to be invalid")
	}
}
