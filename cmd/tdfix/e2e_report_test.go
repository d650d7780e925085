//go:build e2e

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/phyten/tdfix/internal/engine"
	"github.com/phyten/tdfix/internal/model"
	"github.com/phyten/tdfix/internal/output"
)

func TestHTMLレポートはエスケープでXSSを防止する(t *testing.T) {
	t.Parallel()

	if !hasBrowser() {
		t.Skip("Chrome/Chromiumが見つからないためスキップします")
	}

	res := &engine.Result{
		Items: []engine.Item{{
			File:        "dir/<file>&.php",
			Span:        model.Span{StartLine: 12, StartCol: 3},
			Message:     `Text domain "old" in function __() should be replaced with "<img src=x onerror=alert(1)>".`,
			Code:        "ReplaceDomain",
			Domain:      "old & <>",
			Replacement: "'<script>alert(1)</script>'",
		}},
		Total:     1,
		FilesSeen: 1,
	}
	sel, err := output.ResolveFields("")
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	var page bytes.Buffer
	if err := output.WriteHTMLReport(&page, res, sel); err != nil {
		t.Fatalf("WriteHTMLReport failed: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page.Bytes())
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	// chromedp navigation can take some time in CI environments.
	ctx, cancel = context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	var location, domain, replacement, message string
	var domainCellHTML string
	var nodeCount int

	err = chromedp.Run(ctx,
		chromedp.Navigate(srv.URL),
		chromedp.WaitVisible(`#out`, chromedp.ByID),
		chromedp.Text(`#out tbody tr td:nth-child(1)`, &location, chromedp.ByQuery),
		chromedp.Text(`#out tbody tr td:nth-child(2)`, &domain, chromedp.ByQuery),
		chromedp.InnerHTML(`#out tbody tr td:nth-child(2)`, &domainCellHTML, chromedp.ByQuery),
		chromedp.Text(`#out tbody tr td:nth-child(3)`, &replacement, chromedp.ByQuery),
		chromedp.Text(`#out tbody tr td:nth-child(5)`, &message, chromedp.ByQuery),
		chromedp.Evaluate(`document.querySelectorAll('#out img, #out script').length`, &nodeCount),
	)
	if err != nil {
		t.Fatalf("chromedpの操作に失敗しました: %v", err)
	}

	if location != "dir/<file>&.php:12:3" {
		t.Fatalf("ロケーションが期待値と異なります: %q", location)
	}
	if domain != "old & <>" {
		t.Fatalf("ドメインが期待値と異なります: %q", domain)
	}
	if !strings.Contains(domainCellHTML, "old &amp; &lt;&gt;") {
		t.Fatalf("ドメインセルのHTMLがエスケープされていません: %q", domainCellHTML)
	}
	if replacement != "'<script>alert(1)</script>'" {
		t.Fatalf("置換文字列が期待値と異なります: %q", replacement)
	}
	if !strings.Contains(message, "<img src=x onerror=alert(1)>") {
		t.Fatalf("メッセージのテキストが期待値と異なります: %q", message)
	}
	if nodeCount != 0 {
		t.Fatalf("危険なノードが挿入されています: %d", nodeCount)
	}
}

func hasBrowser() bool {
	candidates := []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser"}
	for _, name := range candidates {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}
