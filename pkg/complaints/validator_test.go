package complaints

import (
	"strings"
	"testing"
)

func TestValidateSubmission(t *testing.T) {
	v := NewValidator(20)

	cases := []struct {
		name    string
		text    string
		ip      string
		want    string
		wantErr bool
	}{
		{name: "valid", text: "  broken app  ", ip: "8.8.8.8", want: "broken app"},
		{name: "valid ipv6", text: "text", ip: "2001:db8::1", want: "text"},
		{name: "no ip is fine", text: "text", ip: "", want: "text"},
		{name: "empty", text: "", wantErr: true},
		{name: "whitespace only", text: "   \n\t", wantErr: true},
		{name: "too long", text: strings.Repeat("a", 21), wantErr: true},
		{name: "limit counts characters not bytes", text: strings.Repeat("ж", 20), want: strings.Repeat("ж", 20)},
		{name: "too many characters", text: strings.Repeat("ж", 21), wantErr: true},
		{name: "bad ip", text: "text", ip: "999.999.1.1", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := v.ValidateSubmission(tc.text, tc.ip)
			if tc.wantErr {
				if !IsValidationError(err) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestValidateStatusTransition(t *testing.T) {
	v := NewValidator(2000)

	if err := v.ValidateStatusTransition(StatusClosed); err != nil {
		t.Fatalf("closing must be allowed: %v", err)
	}
	for _, status := range []string{StatusOpen, "", "resolved"} {
		if err := v.ValidateStatusTransition(status); !IsValidationError(err) {
			t.Fatalf("%q: expected validation error, got %v", status, err)
		}
	}
}
