package page

import "testing"

func TestDraftWithReturnsCopy(t *testing.T) {
	t.Parallel()

	base := NewDraft()
	edited := base.WithTitle("Hello").WithContent("**hi**").WithTheme(ThemeModern)

	if base.Title() != "" || base.Content() != "" || base.Theme() != ThemeLight {
		t.Fatalf("original draft mutated: %#v", base)
	}
	if edited.Title() != "Hello" || edited.Content() != "**hi**" || edited.Theme() != ThemeModern {
		t.Fatalf("unexpected edited draft: %#v", edited)
	}
}

func TestDraftCreateInput(t *testing.T) {
	t.Parallel()

	input := NewDraft().WithTitle("T").CreateInput()
	if input.HeroImageURL != nil {
		t.Fatalf("expected no hero image")
	}
	if input.Theme != ThemeLight {
		t.Fatalf("expected default theme, got %q", input.Theme)
	}

	withHero := NewDraft().WithTitle("T").WithHeroImageURL("https://x.test/h.png").CreateInput()
	if withHero.HeroImageURL == nil || *withHero.HeroImageURL != "https://x.test/h.png" {
		t.Fatalf("expected hero image to carry over")
	}
}

func TestDraftUpdateInputClearsBlankHero(t *testing.T) {
	t.Parallel()

	hero := "https://x.test/h.png"
	draft := DraftFromPage(&Page{Title: "T", Content: "C", HeroImageURL: &hero, Theme: ThemeDark})
	if draft.HeroImageURL() != hero {
		t.Fatalf("expected hero image from page, got %q", draft.HeroImageURL())
	}

	input := draft.WithHeroImageURL("").UpdateInput("secret")
	if input.EditSecret != "secret" {
		t.Fatalf("expected secret to carry over")
	}
	if !input.HeroImageURL.Set || input.HeroImageURL.Value != nil {
		t.Fatalf("expected explicit clear, got %#v", input.HeroImageURL)
	}
	if input.Theme == nil || *input.Theme != ThemeDark {
		t.Fatalf("expected theme dark")
	}
}
