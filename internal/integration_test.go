package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/steelquote/internal/cache"
	"github.com/dshills/steelquote/internal/config"
	"github.com/dshills/steelquote/internal/rates"
	"github.com/dshills/steelquote/internal/report"
	"github.com/dshills/steelquote/internal/server"
)

// skipUnlessIntegration skips the test unless STEELQUOTE_INTEGRATION=1 and
// a Redis address is configured.
func skipUnlessIntegration(t *testing.T) string {
	t.Helper()
	if os.Getenv("STEELQUOTE_INTEGRATION") != "1" {
		t.Skip("skipping integration test (set STEELQUOTE_INTEGRATION=1 to run)")
	}
	addr := os.Getenv("STEELQUOTE_REDIS_ADDR")
	if addr == "" {
		t.Skip("skipping integration test (set STEELQUOTE_REDIS_ADDR)")
	}
	return addr
}

// startServer runs the API against a live Redis cache.
func startServer(t *testing.T, addr string) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := cache.NewRedis(ctx, addr, os.Getenv("STEELQUOTE_REDIS_PASSWORD"), 0, time.Minute)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	cfg := config.ServerConfig{
		RequestTimeout: 10 * time.Second,
		MaxBodyBytes:   10 << 20,
		AllowedOrigins: []string{"*"},
		Redact:         true,
	}
	ts := httptest.NewServer(server.NewServer(cfg, rates.Standard(), c, "integration").Router())
	t.Cleanup(ts.Close)
	return ts
}

type apiEnvelope struct {
	Success bool          `json:"success"`
	Data    report.Report `json:"data"`
}

func postQuote(t *testing.T, url, contentType string, body []byte) (*http.Response, report.Report) {
	t.Helper()
	resp, err := http.Post(url+"/api/v1/quote", contentType, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post quote: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, data)
	}
	var env apiEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, env.Data
}

func TestIntegrationQuoteCachedInRedis(t *testing.T) {
	addr := skipUnlessIntegration(t)
	ts := startServer(t, addr)

	text, err := os.ReadFile(filepath.Join(projectRoot(), "testdata", "requirements", "warehouse.txt"))
	if err != nil {
		t.Fatal(err)
	}
	// A fresh timeline keeps earlier runs from warming the cache.
	weeks := int(time.Now().UnixNano()%40) + 10
	body, _ := json.Marshal(map[string]any{
		"text":     string(text),
		"document": "warehouse.txt",
		"options":  map[string]any{"timeline_weeks": weeks},
	})

	resp, first := postQuote(t, ts.URL, "application/json", body)
	if got := resp.Header.Get("X-Cache"); got != "MISS" {
		t.Errorf("first X-Cache = %q, want MISS", got)
	}
	if first.Quote == nil || first.Attributes.TimelineWeeks != weeks {
		t.Fatalf("unexpected report: %+v", first.Attributes)
	}

	resp, second := postQuote(t, ts.URL, "application/json", body)
	if got := resp.Header.Get("X-Cache"); got != "HIT" {
		t.Errorf("second X-Cache = %q, want HIT", got)
	}
	if second.ID != first.ID || second.Quote.RecommendedQuote != first.Quote.RecommendedQuote {
		t.Errorf("cached report differs: %s/%d vs %s/%d",
			second.ID, second.Quote.RecommendedQuote, first.ID, first.Quote.RecommendedQuote)
	}
}

func TestIntegrationPDFUpload(t *testing.T) {
	addr := skipUnlessIntegration(t)
	ts := startServer(t, addr)

	pdf, err := os.ReadFile(filepath.Join(projectRoot(), "internal", "document", "testdata", "requirements.pdf"))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "requirements.pdf")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(pdf)
	mw.Close()

	_, rep := postQuote(t, ts.URL, mw.FormDataContentType(), buf.Bytes())
	if rep.Attributes.DrawingCount != 24 || rep.Attributes.TimelineWeeks != 6 {
		t.Errorf("attributes = %+v", rep.Attributes)
	}
	if !strings.HasPrefix(rep.Attributes.ClientName, "Acme Steel") {
		t.Errorf("ClientName = %q, want Acme Steel", rep.Attributes.ClientName)
	}
	if errs := report.Validate(&rep); len(errs) > 0 {
		t.Errorf("report failed validation: %v", errs)
	}
}
