package models

import "testing"

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{StatusPending, StatusPending},
		{StatusInProgress, StatusInProgress},
		{StatusCompleted, StatusCompleted},
		{"", StatusPending},
		{"archived", StatusPending},
		{"PENDING", StatusPending},
		{"done", StatusPending},
	}

	for _, tc := range cases {
		if got := NormalizeStatus(tc.in); got != tc.want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRequestToResponseNormalizesStatus(t *testing.T) {
	r := &Request{
		ID:     7,
		Status: "archived",
		Title:  "Split wall unit leaking",
		Customer: &Customer{
			Name: "PT Sejuk Abadi",
		},
	}

	resp := r.ToResponse()
	if resp.Status != StatusPending {
		t.Errorf("status %q, want pending", resp.Status)
	}
	if resp.CustomerName != "PT Sejuk Abadi" {
		t.Errorf("customer name %q not carried over", resp.CustomerName)
	}

	// Read-side only: the stored value stays what it was.
	if r.Status != "archived" {
		t.Errorf("stored status mutated to %q", r.Status)
	}
}
