package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joseph-ayodele/docextract/internal/common"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/"}, discardLogger())
}

func TestExtractFile(t *testing.T) {
	var gotName, gotBody, gotReqID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/extract/file" {
			t.Errorf("got %s %s, want POST /extract/file", r.Method, r.URL.Path)
		}
		gotReqID = r.Header.Get("X-Request-ID")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		gotName, gotBody = hdr.Filename, string(b)
		_, _ = io.WriteString(w, `{"file_name":"report.pdf","page_count":3,"extraction_method":"native","extracted_text":"Hello","success":true}`)
	})

	ctx := common.WithRequestID(context.Background(), "req-1")
	res, err := c.ExtractFile(ctx, Document{Name: "report.pdf", Data: []byte("%PDF-1.4")})
	if err != nil {
		t.Fatalf("ExtractFile() error = %v", err)
	}
	if gotName != "report.pdf" || gotBody != "%PDF-1.4" {
		t.Errorf("uploaded %q (%q), want report.pdf", gotName, gotBody)
	}
	if gotReqID != "req-1" {
		t.Errorf("X-Request-ID = %q, want req-1", gotReqID)
	}
	if res.FileName != "report.pdf" || !res.Success {
		t.Errorf("result = %+v", res)
	}
	if res.PageCount == nil || *res.PageCount != 3 {
		t.Errorf("PageCount = %v, want 3", res.PageCount)
	}
	if res.ExtractedText == nil || *res.ExtractedText != "Hello" {
		t.Errorf("ExtractedText = %v, want Hello", res.ExtractedText)
	}
}

func TestExtractFile_GeneratesRequestID(t *testing.T) {
	var gotReqID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotReqID = r.Header.Get("X-Request-ID")
		_, _ = io.WriteString(w, `{"file_name":"a.txt","success":true}`)
	})
	if _, err := c.ExtractFile(context.Background(), Document{Name: "a.txt"}); err != nil {
		t.Fatalf("ExtractFile() error = %v", err)
	}
	if gotReqID == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestExtractBatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/extract/batch" {
			t.Errorf("path = %s, want /extract/batch", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		files := r.MultipartForm.File["files"]
		if len(files) != 2 || files[0].Filename != "a.pdf" || files[1].Filename != "b.png" {
			t.Errorf("files = %v, want [a.pdf b.png]", files)
		}
		_, _ = io.WriteString(w, `{"results":[
			{"file_name":"a.pdf","page_count":1,"extraction_method":"pdfminer","extracted_text":"A","success":true},
			{"file_name":"b.png","page_count":null,"extraction_method":null,"extracted_text":null,"success":false}
		],"total":2}`)
	})

	res, err := c.ExtractBatch(context.Background(), []Document{{Name: "a.pdf"}, {Name: "b.png"}})
	if err != nil {
		t.Fatalf("ExtractBatch() error = %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("len = %d, want 2", len(res))
	}
	if res[0].FileName != "a.pdf" || res[1].FileName != "b.png" {
		t.Errorf("order = %s, %s", res[0].FileName, res[1].FileName)
	}
	if res[1].Success || res[1].ExtractedText != nil || res[1].PageCount != nil {
		t.Errorf("failed item = %+v, want nulls and success=false", res[1])
	}
}

func TestExtractBatch_KeepsServiceOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"results":[{"file_name":"b","success":true},{"file_name":"a","success":true}],"total":2}`)
	})
	res, err := c.ExtractBatch(context.Background(), []Document{{Name: "a"}, {Name: "b"}})
	if err != nil {
		t.Fatalf("ExtractBatch() error = %v", err)
	}
	if res[0].FileName != "b" || res[1].FileName != "a" {
		t.Errorf("got %s,%s, want service order b,a", res[0].FileName, res[1].FileName)
	}
}

func TestExtractBatch_ShortReplyIsReturnedAsIs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"results":[{"file_name":"a.pdf","success":true}],"total":1}`)
	}))
	t.Cleanup(srv.Close)

	var logs bytes.Buffer
	c := NewClient(Config{BaseURL: srv.URL}, slog.New(slog.NewJSONHandler(&logs, nil)))
	res, err := c.ExtractBatch(context.Background(), []Document{{Name: "a.pdf"}, {Name: "b.pdf"}})
	if err != nil {
		t.Fatalf("ExtractBatch() error = %v", err)
	}
	if len(res) != 1 || res[0].FileName != "a.pdf" {
		t.Errorf("results = %+v, want the single returned entry", res)
	}
	if !strings.Contains(logs.String(), `"msg":"extract.batch.count_mismatch"`) {
		t.Errorf("count mismatch not logged:\n%s", logs.String())
	}
	if !strings.Contains(logs.String(), `"submitted":2`) || !strings.Contains(logs.String(), `"returned":1`) {
		t.Errorf("mismatch counts missing:\n%s", logs.String())
	}
}

func TestExtractBatch_NoDocuments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	})
	_, err := c.ExtractBatch(context.Background(), nil)
	if !errors.Is(err, ErrNoDocuments) {
		t.Errorf("error = %v, want ErrNoDocuments", err)
	}
}

func TestExtractURL(t *testing.T) {
	var got urlRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/extract/url" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = io.WriteString(w, `{"file_name":"doc.pdf","page_count":2,"extraction_method":"ocr","extracted_text":"x","success":true}`)
	})
	res, err := c.ExtractURL(context.Background(), "https://example.com/doc.pdf")
	if err != nil {
		t.Fatalf("ExtractURL() error = %v", err)
	}
	if got.URL != "https://example.com/doc.pdf" {
		t.Errorf("sent url = %q", got.URL)
	}
	if res.ExtractionMethod == nil || *res.ExtractionMethod != "ocr" {
		t.Errorf("method = %v, want ocr", res.ExtractionMethod)
	}
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    error
		wantStatus int
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"detail":"boom"}`, wantStatus: 500},
		{name: "unsupported", status: http.StatusBadRequest, body: `{"detail":"Unsupported file type"}`, wantStatus: 400},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantErr: ErrInvalidResponse},
		{name: "schema mismatch", status: http.StatusOK, body: `{"file_name":3,"success":"yes"}`, wantErr: ErrInvalidResponse},
		{name: "missing success", status: http.StatusOK, body: `{"file_name":"a"}`, wantErr: ErrInvalidResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := c.ExtractFile(context.Background(), Document{Name: "a.pdf"})
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantStatus != 0 {
				var se *StatusError
				if !errors.As(err, &se) {
					t.Fatalf("error = %T, want *StatusError", err)
				}
				if se.StatusCode != tt.wantStatus {
					t.Errorf("StatusCode = %d, want %d", se.StatusCode, tt.wantStatus)
				}
				if strings.Contains(err.Error(), "boom") {
					t.Errorf("error message leaks body: %q", err.Error())
				}
			}
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: url}, discardLogger())
	if _, err := c.ExtractURL(context.Background(), "https://example.com/a.pdf"); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "ok", body: `{"status":"ok"}`},
		{name: "degraded", body: `{"status":"degraded"}`, wantErr: ErrUnhealthy},
		{name: "garbage", body: `nope`, wantErr: ErrInvalidResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/health" {
					t.Errorf("got %s %s", r.Method, r.URL.Path)
				}
				_, _ = io.WriteString(w, tt.body)
			})
			err := c.Health(context.Background())
			if tt.wantErr == nil && err != nil {
				t.Errorf("Health() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Health() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSupportedFormats(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/supported-formats" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"extensions":[".pdf",".docx"]}`)
	})
	got, err := c.SupportedFormats(context.Background())
	if err != nil {
		t.Fatalf("SupportedFormats() error = %v", err)
	}
	if len(got) != 2 || got[0] != ".pdf" || got[1] != ".docx" {
		t.Errorf("got %v", got)
	}
}

func TestContentTypeFor(t *testing.T) {
	tests := map[string]string{
		"a.pdf":  "application/pdf",
		"b.BMP":  "image/bmp",
		"c.TIFF": "image/tiff",
		"noext":  "application/octet-stream",
		"d.docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	for name, want := range tests {
		if got := contentTypeFor(name); got != want {
			t.Errorf("contentTypeFor(%q) = %q, want %q", name, got, want)
		}
	}
}
