package textutil

import (
	"testing"
	"time"
)

func TestParseFeedDate(t *testing.T) {
	t.Parallel()

	want := time.Date(2025, time.January, 8, 10, 0, 0, 0, time.UTC)
	for _, raw := range []string{
		"Wed, 08 Jan 2025 10:00:00 GMT",
		"Wed, 8 Jan 2025 10:00:00 +0000",
		"2025-01-08T10:00:00Z",
	} {
		got, ok := ParseFeedDate(raw)
		if !ok || !got.Equal(want) {
			t.Fatalf("ParseFeedDate(%q) = %v, %v", raw, got, ok)
		}
	}
	if _, ok := ParseFeedDate("hier"); ok {
		t.Fatal("expected garbage to be rejected")
	}
}

func TestSourceDomain(t *testing.T) {
	t.Parallel()

	if got := SourceDomain("https://www.lemonde.fr/tech/article.html"); got != "lemonde.fr" {
		t.Fatalf("got %q", got)
	}
	if got := SourceDomain("https://news.test/a"); got != "news.test" {
		t.Fatalf("got %q", got)
	}
	if got := SourceDomain("::"); got != "" {
		t.Fatalf("got %q", got)
	}
}
