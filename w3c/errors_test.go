package w3c

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorKindString(t *testing.T) {
	cases := map[ErrorKind]string{
		KindTransport: "transport",
		KindStatus:    "status",
		KindRead:      "read",
		KindDecode:    "decode",
		ErrorKind(42): "kind(42)",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("kind=%d got=%q want=%q", int(k), got, want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Kind: KindStatus, Method: "GET", URL: "http://x/nu/", StatusCode: 503, Status: "503 Service Unavailable", Body: " busy \n"}
	msg := err.Error()
	if !strings.Contains(msg, "status error (GET http://x/nu/)") || !strings.Contains(msg, "503 Service Unavailable: busy") {
		t.Fatalf("unexpected message: %q", msg)
	}

	err = &Error{Kind: KindStatus, StatusCode: 404}
	if !strings.Contains(err.Error(), "unexpected status 404") {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	err = &Error{Kind: KindDecode, Err: errors.New("unexpected end of JSON input")}
	if err.Error() != "decode error: unexpected end of JSON input" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestErrorUnwrapAndIsKind(t *testing.T) {
	err := fmt.Errorf("validate: %w", &Error{Kind: KindTransport, Err: context.Canceled})
	if !errors.Is(err, context.Canceled) {
		t.Fatal("expected context.Canceled to be reachable")
	}
	if !IsKind(err, KindTransport) {
		t.Fatal("expected transport kind")
	}
	if IsKind(err, KindDecode) {
		t.Fatal("unexpected decode kind")
	}
	if IsKind(errors.New("plain"), KindTransport) {
		t.Fatal("plain error has no kind")
	}
}
