package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("secret123")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("hash equals plaintext")
	}

	if !Verify("secret123", hash) {
		t.Error("Verify rejected the correct password")
	}
	if Verify("wrong-password", hash) {
		t.Error("Verify accepted a wrong password")
	}
}

func TestMeetsPolicyBoundary(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"", false},
		{"12345", false},  // one short of the minimum
		{"123456", true},  // exactly the minimum
		{"1234567", true},
	}

	for _, tc := range cases {
		if got := MeetsPolicy(tc.password); got != tc.want {
			t.Errorf("MeetsPolicy(%q) = %v, want %v", tc.password, got, tc.want)
		}
	}
}

func TestHashTokenDeterministic(t *testing.T) {
	a := HashToken("refresh-token-value")
	b := HashToken("refresh-token-value")
	if a != b {
		t.Error("same token hashed to different values")
	}
	if a == HashToken("other-token") {
		t.Error("different tokens hashed to the same value")
	}
	if len(a) != 64 {
		t.Errorf("hash length %d, want 64 hex chars", len(a))
	}
}
