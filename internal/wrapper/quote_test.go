package wrapper

import "testing"

func TestPosixQuoteEscapesEmbeddedQuote(t *testing.T) {
	got := posixQuote(`it's here`)
	want := `'it'"'"'s here'`
	if got != want {
		t.Fatalf("posixQuote = %q, want %q", got, want)
	}
}

func TestWindowsQuoteDoublesEmbeddedQuote(t *testing.T) {
	got := windowsQuote(`say "hi"`)
	want := `"say ""hi"""`
	if got != want {
		t.Fatalf("windowsQuote = %q, want %q", got, want)
	}
}

func TestSanitizeReplacesInvalidChars(t *testing.T) {
	got := Sanitize(`web:api/main`)
	want := `web_api_main`
	if got != want {
		t.Fatalf("Sanitize = %q, want %q", got, want)
	}
}

func TestSanitizeLeavesPlainNamesUntouched(t *testing.T) {
	if got := Sanitize("worker-1"); got != "worker-1" {
		t.Fatalf("Sanitize = %q, want unchanged", got)
	}
}
