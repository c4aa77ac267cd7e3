// Package preview fetches a tab's page and extracts its readable text.
package preview

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/lotas/tabwarden/internal/catalog"
)

const (
	fetchTimeout = 15 * time.Second
	maxTextLen   = 4000
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// FetchReadable fetches a URL and extracts its readable title and text.
// Internal browser pages are refused up front.
func FetchReadable(url string) (title, text string, err error) {
	if catalog.IsInternalURL(url) {
		return "", "", fmt.Errorf("cannot fetch internal browser page %s", url)
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", "", fmt.Errorf("unsupported URL scheme: %s", url)
	}

	client := &http.Client{Timeout: fetchTimeout}
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", "", fmt.Errorf("fetch %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", "", fmt.Errorf("fetch %s: HTTP %d", url, resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, nil)
	if err != nil {
		return "", "", fmt.Errorf("extract readable content from %s: %w", url, err)
	}
	return article.Title, article.TextContent, nil
}

// Truncate caps extracted text for tool responses.
func Truncate(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= maxTextLen {
		return text
	}
	return text[:maxTextLen] + "\n… (truncated)"
}
