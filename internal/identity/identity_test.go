package identity

import "testing"

func TestNanoIDProducesWellFormedTokens(t *testing.T) {
	t.Parallel()

	gen := NanoID{}

	slug, err := gen.NewPublicSlug()
	if err != nil {
		t.Fatalf("NewPublicSlug returned error: %v", err)
	}
	if !IsWellFormed(slug, PublicSlugLength) {
		t.Fatalf("expected %d URL-safe characters, got %q", PublicSlugLength, slug)
	}

	secret, err := gen.NewEditSecret()
	if err != nil {
		t.Fatalf("NewEditSecret returned error: %v", err)
	}
	if !IsWellFormed(secret, EditSecretLength) {
		t.Fatalf("expected %d URL-safe characters, got %q", EditSecretLength, secret)
	}
}

func TestNanoIDDoesNotRepeat(t *testing.T) {
	t.Parallel()

	gen := NanoID{}
	seen := make(map[string]struct{})

	for i := 0; i < 2000; i++ {
		slug, err := gen.NewPublicSlug()
		if err != nil {
			t.Fatalf("NewPublicSlug returned error: %v", err)
		}
		if _, dup := seen[slug]; dup {
			t.Fatalf("slug %q generated twice", slug)
		}
		seen[slug] = struct{}{}
	}
}

func TestIsWellFormed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		token  string
		length int
		want   bool
	}{
		{"abcDEF012_-x", 12, true},
		{"abcDEF012_-", 12, false},
		{"abcDEF012_-xy", 12, false},
		{"abcDEF012_/x", 12, false},
		{"abc def012_x", 12, false},
	}

	for _, tc := range cases {
		if got := IsWellFormed(tc.token, tc.length); got != tc.want {
			t.Errorf("IsWellFormed(%q, %d) = %v, want %v", tc.token, tc.length, got, tc.want)
		}
	}
}
