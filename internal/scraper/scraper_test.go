package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/khanhduong/wikiquiz/internal/apperr"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Alan Turing - Wikipedia</title></head>
<body>
<h1>Alan Turing</h1>
<div id="mw-content-text"><div class="mw-parser-output">
<div class="infobox"><p>Born 1912 infobox noise that should disappear</p></div>
<p>Alan Mathison Turing was an English mathematician, computer scientist and cryptanalyst, widely considered to be the father of theoretical computer science.</p>
<h2><span class="mw-headline">Early life</span></h2>
<p>Turing was born in Maida Vale, London, while his father was on leave from his position with the Indian Civil Service.</p>
<h2><span class="mw-headline">Career and research</span></h2>
<p>During the Second World War, Turing worked for the Government Code and Cypher School at Bletchley Park.<sup class="reference">[1]</sup></p>
<h2><span class="mw-headline">See also</span></h2>
<h2><span class="mw-headline">References</span></h2>
<h2><span class="mw-headline">External links</span></h2>
</div></div>
</body>
</html>`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchExtractsArticle(t *testing.T) {
	srv := serve(t, http.StatusOK, articleHTML)

	article, err := New(Options{}).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if article.Title != "Alan Turing" {
		t.Errorf("expected title stripped of the Wikipedia suffix, got %q", article.Title)
	}
	if article.RawHTML != articleHTML {
		t.Error("raw HTML was not preserved verbatim")
	}

	want := []string{"Early life", "Career and research"}
	if len(article.Sections) != len(want) {
		t.Fatalf("expected sections %v, got %v", want, article.Sections)
	}
	for i, s := range want {
		if article.Sections[i] != s {
			t.Errorf("section %d: expected %q, got %q", i, s, article.Sections[i])
		}
	}

	if !strings.Contains(article.Text, "father of theoretical computer science") {
		t.Error("body paragraph missing from extracted text")
	}
	if !strings.Contains(article.Text, "Bletchley Park") {
		t.Error("later paragraph missing from extracted text")
	}
	if strings.Contains(article.Text, "infobox noise") {
		t.Error("infobox content should be removed before text extraction")
	}
	if strings.Contains(article.Text, "[1]") {
		t.Error("reference markers should be removed before text extraction")
	}
}

func TestFetchSkipHeadingsPolicy(t *testing.T) {
	srv := serve(t, http.StatusOK, articleHTML)

	// Caller-supplied denylist replaces the default one.
	s := New(Options{SkipHeadings: []string{"Early life"}})
	article, err := s.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, sec := range article.Sections {
		if sec == "Early life" {
			t.Error("denylisted heading survived extraction")
		}
	}
	// With the default list gone, "References" counts as content again.
	found := false
	for _, sec := range article.Sections {
		if sec == "References" {
			found = true
		}
	}
	if !found {
		t.Error("custom denylist should not inherit the default entries")
	}
}

func TestFetchNon2xxStatus(t *testing.T) {
	srv := serve(t, http.StatusForbidden, "forbidden")

	_, err := New(Options{}).Fetch(context.Background(), srv.URL)
	if !apperr.IsKind(err, apperr.KindFetch) {
		t.Fatalf("expected fetch error kind, got %v", err)
	}
}

func TestFetchNetworkFailure(t *testing.T) {
	srv := serve(t, http.StatusOK, articleHTML)
	srv.Close()

	_, err := New(Options{}).Fetch(context.Background(), srv.URL)
	if !apperr.IsKind(err, apperr.KindFetch) {
		t.Fatalf("expected fetch error kind, got %v", err)
	}
}

func TestFetchEmptyPage(t *testing.T) {
	srv := serve(t, http.StatusOK, "<html><head><title>Stub</title></head><body></body></html>")

	_, err := New(Options{}).Fetch(context.Background(), srv.URL)
	if !apperr.IsKind(err, apperr.KindExtraction) {
		t.Fatalf("expected extraction error kind for empty page, got %v", err)
	}
}

func TestFetchSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	if _, err := New(Options{}).Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gotUA, "Mozilla") {
		t.Errorf("expected a browser-style User-Agent, got %q", gotUA)
	}
}
