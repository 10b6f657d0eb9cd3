package http

import (
	"context"
	"testing"

	"pagedrop/app/internal/http/templates"
	"pagedrop/app/internal/page"
)

func TestRenderComponentOutlivesPooledBuffer(t *testing.T) {
	t.Parallel()

	first, err := renderComponent(context.Background(), templates.RawHTML("<p>first</p>"))
	if err != nil {
		t.Fatalf("renderComponent returned error: %v", err)
	}
	for i := 0; i < 8; i++ {
		if _, err := renderComponent(context.Background(), templates.RawHTML("<p>overwritten</p>")); err != nil {
			t.Fatalf("renderComponent returned error: %v", err)
		}
	}

	if string(first) != "<p>first</p>" {
		t.Fatalf("rendered bytes changed after buffer reuse: %q", first)
	}
}

func TestRenderComponentHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := renderComponent(ctx, templates.RawHTML("<p>x</p>")); err == nil {
		t.Fatalf("expected an error for a cancelled context")
	}
}

func TestViewVisibilityHeaders(t *testing.T) {
	t.Parallel()

	srv, svc := newTestServer(t)
	published, err := svc.Create(context.Background(), page.CreateInput{Title: "Headers", Content: "x"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	cases := []struct {
		path           string
		status         int
		cacheControl   string
		referrerPolicy string
		robots         string
	}{
		{path: "/" + published.PublicSlug, status: 200},
		{path: "/", status: 200},
		{path: "/edit/" + published.EditSecret, status: 200, cacheControl: noStore, referrerPolicy: "no-referrer", robots: "noindex, nofollow"},
		{path: "/aaaaaaaaaaaa", status: 404, cacheControl: noStore, robots: "noindex"},
	}

	for _, tc := range cases {
		rec := serve(srv, "GET", tc.path, "", nil)
		if rec.Code != tc.status {
			t.Fatalf("%s: expected status %d, got %d", redactPath(tc.path), tc.status, rec.Code)
		}
		if got := rec.Header().Get("Cache-Control"); got != tc.cacheControl {
			t.Fatalf("%s: Cache-Control = %q, want %q", redactPath(tc.path), got, tc.cacheControl)
		}
		if got := rec.Header().Get("Referrer-Policy"); got != tc.referrerPolicy {
			t.Fatalf("%s: Referrer-Policy = %q, want %q", redactPath(tc.path), got, tc.referrerPolicy)
		}
		if got := rec.Header().Get("X-Robots-Tag"); got != tc.robots {
			t.Fatalf("%s: X-Robots-Tag = %q, want %q", redactPath(tc.path), got, tc.robots)
		}
	}
}

func TestFallbackErrorBodyEscapes(t *testing.T) {
	t.Parallel()

	body := string(fallbackErrorBody("500 Internal Server Error", "<script>x</script>"))
	if contains(body, "<script>") {
		t.Fatalf("fallback body was not escaped: %q", body)
	}
	if !contains(body, "&lt;script&gt;x&lt;/script&gt;") {
		t.Fatalf("unexpected fallback body %q", body)
	}
}
