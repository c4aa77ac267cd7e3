package catalog

import "testing"

func TestMatchFirstWins(t *testing.T) {
	// github.com appears in both Development (first) and later entries of
	// the organize catalog; the analysis catalog must always pick the
	// earliest entry.
	cat, ok := Analysis.Match("github.com", "https://github.com/golang/go")
	if !ok {
		t.Fatal("expected a match for github.com")
	}
	if cat.Name != "Development" {
		t.Errorf("expected Development, got %q", cat.Name)
	}
}

func TestMatchOrderShadowing(t *testing.T) {
	c := Catalog{
		{Name: "First", Patterns: []string{"example.com"}},
		{Name: "Second", Patterns: []string{"example.com", "other.com"}},
	}
	cat, ok := c.Match("example.com", "https://example.com/")
	if !ok || cat.Name != "First" {
		t.Errorf("expected First to shadow Second, got %q (ok=%v)", cat.Name, ok)
	}
	cat, ok = c.Match("other.com", "https://other.com/")
	if !ok || cat.Name != "Second" {
		t.Errorf("expected Second for other.com, got %q (ok=%v)", cat.Name, ok)
	}
}

func TestMatchCaseFolding(t *testing.T) {
	cat, ok := Analysis.Match("GitHub.COM", "HTTPS://GITHUB.COM/Lotas")
	if !ok || cat.Name != "Development" {
		t.Errorf("expected case-insensitive match, got %q (ok=%v)", cat.Name, ok)
	}
}

func TestMatchURLFallback(t *testing.T) {
	// Pattern matches only the URL path, not the domain.
	cat, ok := Organize.Match("mycompany.atlassian.net", "https://mycompany.atlassian.net/browse/PROJ-1")
	if !ok || cat.Name != "Jira" {
		t.Errorf("expected Jira via URL pattern, got %q (ok=%v)", cat.Name, ok)
	}
}

func TestMatchNone(t *testing.T) {
	if _, ok := Analysis.Match("unheard-of.example", "https://unheard-of.example/"); ok {
		t.Error("expected no match for unknown domain")
	}
}

func TestOrganizeEntriesHaveColors(t *testing.T) {
	for _, cat := range Organize {
		if cat.Color == "" {
			t.Errorf("organize category %q has no color", cat.Name)
		}
		if !ValidGroupColor(cat.Color) {
			t.Errorf("organize category %q has invalid color %q", cat.Name, cat.Color)
		}
		if len(cat.Patterns) == 0 {
			t.Errorf("organize category %q has no patterns", cat.Name)
		}
	}
}

func TestIsInternalURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"about:blank", true},
		{"About:Config", true},
		{"chrome://settings", true},
		{"chrome-extension://abc/popup.html", true},
		{"moz-extension://abc/page.html", true},
		{"view-source:https://example.com", true},
		{"devtools://devtools/bundled/inspector.html", true},
		{"https://example.com/about:blank", false},
		{"https://chrome.google.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsInternalURL(tt.url); got != tt.want {
			t.Errorf("IsInternalURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestValidGroupColor(t *testing.T) {
	for _, c := range GroupColors {
		if !ValidGroupColor(c) {
			t.Errorf("palette color %q reported invalid", c)
		}
	}
	if ValidGroupColor("magenta") {
		t.Error("magenta should not be a valid group color")
	}
	if ValidGroupColor("") {
		t.Error("empty color should not be valid")
	}
}

func TestFocusKeywords(t *testing.T) {
	if kws := FocusKeywords(""); kws != nil {
		t.Errorf("empty context should return nil, got %v", kws)
	}
	if kws := FocusKeywords("   "); kws != nil {
		t.Errorf("whitespace context should return nil, got %v", kws)
	}

	coding := FocusKeywords("coding")
	if len(coding) == 0 {
		t.Fatal("expected keywords for coding context")
	}
	found := false
	for _, kw := range coding {
		if kw == "github" {
			found = true
		}
	}
	if !found {
		t.Error("coding context should include github")
	}

	// Case and whitespace are normalized.
	upper := FocusKeywords("  CODING ")
	if len(upper) != len(coding) {
		t.Errorf("expected normalized lookup, got %v", upper)
	}

	// Unknown contexts pass through verbatim, lowercased.
	kws := FocusKeywords("Kubernetes")
	if len(kws) != 1 || kws[0] != "kubernetes" {
		t.Errorf("unknown context should be a single verbatim keyword, got %v", kws)
	}
}
