package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReadURLs(t *testing.T) {
	in := "https://a.example/1.pdf\n\n  # comment\n   https://b.example/2.pdf  \n#https://skipped\n"
	got, err := ReadURLs(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadURLs() error = %v", err)
	}
	want := []string{"https://a.example/1.pdf", "https://b.example/2.pdf"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadURLs() = %v, want %v", got, want)
	}
}

func TestLoadURLsFromFile_Missing(t *testing.T) {
	if _, err := LoadURLsFromFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCollectDirectory(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"b.pdf", "a.DOCX", "notes.md", "sub/c.png", ".hidden/d.pdf", ".e.txt"} {
		writeFile(t, filepath.Join(root, p))
	}

	got, stats, err := CollectDirectory(root, true, quietLogger())
	if err != nil {
		t.Fatalf("CollectDirectory() error = %v", err)
	}
	want := []string{
		filepath.Join(root, "a.DOCX"),
		filepath.Join(root, "b.pdf"),
		filepath.Join(root, "sub", "c.png"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
	if stats.Matched != 3 {
		t.Errorf("Matched = %d, want 3", stats.Matched)
	}

	all, _, err := CollectDirectory(root, false, quietLogger())
	if err != nil {
		t.Fatalf("CollectDirectory() error = %v", err)
	}
	if len(all) != 5 {
		t.Errorf("with hidden: %v, want 5 paths", all)
	}
}

func TestCollectDirectory_BadRoot(t *testing.T) {
	if _, _, err := CollectDirectory("", true, quietLogger()); err == nil {
		t.Error("expected error for empty root")
	}
	if _, _, err := CollectDirectory(filepath.Join(t.TempDir(), "missing"), true, quietLogger()); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestDiscoverPDFs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/reports/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="annual.pdf">rel</a>
			<a href="/docs/Q1.PDF#page=2">abs path</a>
			<a href="https://cdn.example/x.pdf">external</a>
			<a href="index.html">not a pdf</a>
			<a href="annual.pdf">dup</a>
			<a>no href</a>
		</body></html>`)
	})
	mux.HandleFunc("/other", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<a href="https://cdn.example/x.pdf">again</a><a href="z.pdf">z</a>`)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	d := NewDiscoverer(5*time.Second, 2, quietLogger())
	got, err := d.DiscoverPDFs(context.Background(), []string{
		srv.URL + "/reports/",
		srv.URL + "/broken",
		srv.URL + "/other",
	})
	if err != nil {
		t.Fatalf("DiscoverPDFs() error = %v", err)
	}
	want := []string{
		srv.URL + "/reports/annual.pdf",
		srv.URL + "/docs/Q1.PDF",
		"https://cdn.example/x.pdf",
		srv.URL + "/z.pdf",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DiscoverPDFs() = %v, want %v", got, want)
	}
}

func TestSearchPDFs(t *testing.T) {
	var gotQuery, gotNum string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotNum = r.URL.Query().Get("num")
		fmt.Fprint(w, `{"items":[{"link":"https://a.example/1.pdf"},{"link":""},{"link":"https://b.example/2.pdf"}]}`)
	}))
	defer srv.Close()

	s := NewSearcher(SearchConfig{APIKey: "k", EngineID: "cx", Endpoint: srv.URL}, quietLogger())
	got, err := s.SearchPDFs(context.Background(), "tax forms", 50)
	if err != nil {
		t.Fatalf("SearchPDFs() error = %v", err)
	}
	if gotQuery != "tax forms filetype:pdf" || gotNum != "10" {
		t.Errorf("q=%q num=%q", gotQuery, gotNum)
	}
	want := []string{"https://a.example/1.pdf", "https://b.example/2.pdf"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SearchPDFs() = %v, want %v", got, want)
	}
}

func TestSearchPDFs_NotConfigured(t *testing.T) {
	s := NewSearcher(SearchConfig{Endpoint: "http://127.0.0.1:1"}, quietLogger())
	got, err := s.SearchPDFs(context.Background(), "anything", 5)
	if err != nil || got != nil {
		t.Errorf("SearchPDFs() = %v, %v; want nil, nil", got, err)
	}
}

func TestStartWatcher(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "old.pdf")
	writeFile(t, existing)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		SkipHidden:  true,
		Debounce:    50 * time.Millisecond,
	}, quietLogger())
	if err != nil {
		t.Fatalf("StartWatcher() error = %v", err)
	}

	next := func() string {
		t.Helper()
		select {
		case p := <-events:
			return p
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for watcher event")
			return ""
		}
	}

	if p := next(); p != existing {
		t.Errorf("initial event = %q, want %q", p, existing)
	}

	writeFile(t, filepath.Join(root, "ignored.md"))
	writeFile(t, filepath.Join(root, ".tmp.pdf"))
	fresh := filepath.Join(root, "new.png")
	writeFile(t, fresh)
	if p := next(); p != fresh {
		t.Errorf("event = %q, want %q", p, fresh)
	}

	cancel()
	for range events {
	}
}

func TestStartWatcher_NoRoots(t *testing.T) {
	if _, _, err := StartWatcher(context.Background(), WatchConfig{}, quietLogger()); err == nil {
		t.Error("expected error without roots")
	}
}
