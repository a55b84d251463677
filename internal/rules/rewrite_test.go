package rules

import (
	"strings"
	"testing"
)

func TestInsertAttr(t *testing.T) {
	if got := insertAttr(`<img src="/a.jpg">`, `loading="lazy"`); got != `<img src="/a.jpg" loading="lazy">` {
		t.Fatalf("plain tag: %q", got)
	}
	if got := insertAttr(`<img src="/a.jpg" />`, `loading="lazy"`); got != `<img src="/a.jpg" loading="lazy" />` {
		t.Fatalf("self-closing tag: %q", got)
	}
	if got := insertAttr(`<img src="/a.jpg`, `loading="lazy"`); got != `<img src="/a.jpg` {
		t.Fatalf("truncated tag should be untouched: %q", got)
	}
}

func TestRewriteImageLoading(t *testing.T) {
	in := `<img src="/below.jpg" alt="">` + "\n" + `<img class="hero" src="/hero.jpg" alt="">`
	out, changes := rewriteImageLoading(in)

	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d: %v", len(changes), changes)
	}
	if !strings.Contains(out, `<img src="/below.jpg" alt="" loading="lazy">`) {
		t.Fatalf("below-fold image not lazied:\n%s", out)
	}
	if strings.Contains(out, `hero.jpg" alt="" loading=`) {
		t.Fatalf("hero image must not be lazy-loaded:\n%s", out)
	}

	// idempotent
	again, changes2 := rewriteImageLoading(out)
	if again != out || len(changes2) != 0 {
		t.Fatalf("rewrite not idempotent: %v", changes2)
	}
}

func TestRewriteImagePriority(t *testing.T) {
	in := `<img class="hero-image" src="/hero.jpg" alt="">`
	out, changes := rewriteImagePriority(in)
	if len(changes) != 1 || !strings.Contains(out, `fetchpriority="high"`) {
		t.Fatalf("hero image not prioritized: %q %v", out, changes)
	}
	again, changes2 := rewriteImagePriority(out)
	if again != out || len(changes2) != 0 {
		t.Fatalf("rewrite not idempotent: %v", changes2)
	}
}

func TestRewriteImageDecoding(t *testing.T) {
	in := `<img src="/a.jpg" alt="">`
	out, changes := rewriteImageDecoding(in)
	if len(changes) != 1 || !strings.Contains(out, `decoding="async"`) {
		t.Fatalf("decoding not added: %q %v", out, changes)
	}
	again, changes2 := rewriteImageDecoding(out)
	if again != out || len(changes2) != 0 {
		t.Fatalf("rewrite not idempotent: %v", changes2)
	}
}

func TestRewriteFontDisplay(t *testing.T) {
	in := "@font-face {\n  font-family: \"Inter\";\n  src: url(\"/fonts/inter.woff2\");\n}"
	out, changes := rewriteFontDisplay(in)
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %v", changes)
	}
	if !strings.Contains(out, "font-display: swap;") {
		t.Fatalf("font-display not inserted:\n%s", out)
	}
	again, changes2 := rewriteFontDisplay(out)
	if again != out || len(changes2) != 0 {
		t.Fatalf("rewrite not idempotent: %v", changes2)
	}
}

func TestRewriteScriptBlocking(t *testing.T) {
	in := `<script src="https://cdn.example.com/app.js"></script>`
	out, changes := rewriteScriptBlocking(in)
	if len(changes) != 1 || !strings.Contains(out, `app.js" defer>`) {
		t.Fatalf("defer not added: %q %v", out, changes)
	}

	// async counts as already handled
	in = `<script async src="https://cdn.example.com/app.js"></script>`
	out, changes = rewriteScriptBlocking(in)
	if out != in || len(changes) != 0 {
		t.Fatalf("async script should be untouched: %q %v", out, changes)
	}

	// local scripts are out of scope
	in = `<script src="/js/local.js"></script>`
	out, changes = rewriteScriptBlocking(in)
	if out != in || len(changes) != 0 {
		t.Fatalf("local script should be untouched: %q %v", out, changes)
	}
}
