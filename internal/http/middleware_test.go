package http

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	applog "pagedrop/app/internal/log"
)

func TestRouteSurface(t *testing.T) {
	t.Parallel()

	cases := map[string]surface{
		"/api/pages":         apiSurface,
		"/api/edit/{secret}": apiSurface,
		"/api":               apiSurface,
		"/apiary":            viewSurface,
		"/healthz":           healthSurface,
		"/{slug}":            viewSurface,
		"/edit/{secret}":     viewSurface,
		"/{$}":               viewSurface,
		"/preview":           viewSurface,
	}

	for route, want := range cases {
		if got := routeSurface(route); got != want {
			t.Fatalf("routeSurface(%q) = %q, want %q", route, got, want)
		}
	}
}

func TestRecoveryRendersErrorPageForViews(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	huma.Get(srv.API(), "/explode/view", func(context.Context, *struct{}) (*htmlResponse, error) {
		panic("view exploded")
	})

	rec := serve(srv, "GET", "/explode/view", "", nil)

	if rec.Code != 500 {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != htmlContentType {
		t.Fatalf("expected html error page, got content type %q", ct)
	}
	body := rec.Body.String()
	if !contains(body, "500 Internal Server Error") || !contains(body, errorFallbackMessage) {
		t.Fatalf("unexpected error page %q", body)
	}
	if contains(body, "view exploded") {
		t.Fatalf("panic value leaked into the response: %q", body)
	}
}

func TestRecoveryWritesProblemJSONForAPI(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	huma.Get(srv.API(), "/api/explode", func(context.Context, *struct{}) (*struct{}, error) {
		panic("api exploded")
	})

	rec := serve(srv, "GET", "/api/explode", "", nil)

	if rec.Code != 500 {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "json") {
		t.Fatalf("expected problem json, got content type %q", ct)
	}
	if contains(rec.Body.String(), "api exploded") {
		t.Fatalf("panic value leaked into the response: %s", rec.Body.String())
	}
}

func TestRequestIDReusesInboundUUID(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	inbound := uuid.NewString()

	rec := serve(srv, "GET", "/healthz", "", map[string]string{requestIDHeader: inbound})
	if got := rec.Header().Get(requestIDHeader); got != inbound {
		t.Fatalf("expected request id %q to be reused, got %q", inbound, got)
	}

	rec = serve(srv, "GET", "/healthz", "", map[string]string{requestIDHeader: "not a uuid\r\nX-Evil: 1"})
	got := rec.Header().Get(requestIDHeader)
	if _, err := uuid.Parse(got); err != nil || contains(got, "evil") {
		t.Fatalf("expected a fresh request id, got %q", got)
	}
}

func TestLoggingTagsSurfaceAndQuietsHealthChecks(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := applog.NewLoggerWithOutput("info", &buf)
	if err != nil {
		t.Fatalf("NewLoggerWithOutput returned error: %v", err)
	}

	gormDB := openTestDatabase(t)
	srv, err := NewServer(Options{PageService: newPageService(t, gormDB), Database: gormDB, Logger: logger})
	if err != nil {
		t.Fatalf("NewServer returned error: %v", err)
	}

	if rec := serve(srv, "GET", "/healthz", "", nil); rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if contains(buf.String(), "health check completed") {
		t.Fatalf("health checks should log below info, got %q", buf.String())
	}

	if rec := serve(srv, "GET", "/api/pages/aaaaaaaaaaaa", "", nil); rec.Code != 404 {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	logs := buf.String()
	if !contains(logs, "request completed") || !contains(logs, `"surface":"api"`) {
		t.Fatalf("expected api request log with its surface, got %q", logs)
	}
}
