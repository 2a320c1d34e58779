package faq

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	out, err := Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	html := string(out)

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<h1>Frequently asked questions</h1>",
		"<h2>How do I book a venue?</h2>",
		"<strong>Book</strong>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q", want)
		}
	}

	if strings.Contains(html, "&lt;h1&gt;") {
		t.Error("rendered markdown was escaped by the page template")
	}
}
