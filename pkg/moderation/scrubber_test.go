package moderation

import (
	"strings"
	"testing"
)

func TestScrubMasksIdentifiers(t *testing.T) {
	scrubber, err := NewScrubber(DefaultRules())
	if err != nil {
		t.Fatalf("failed to create scrubber: %v", err)
	}

	text := "Call me at 555-123-4567 or email jane@example.com, MRN: 12345678"
	masked, findings := scrubber.Scrub(text)

	if strings.Contains(masked, "555-123-4567") {
		t.Fatalf("phone number survived scrubbing: %q", masked)
	}
	if strings.Contains(masked, "jane@example.com") {
		t.Fatalf("email survived scrubbing: %q", masked)
	}
	if strings.Contains(masked, "12345678") {
		t.Fatalf("MRN survived scrubbing: %q", masked)
	}
	if len(findings) < 3 {
		t.Fatalf("expected at least 3 finding types, got %v", findings)
	}
}

func TestScrubCleanTextUnchanged(t *testing.T) {
	scrubber, err := NewScrubber(DefaultRules())
	if err != nil {
		t.Fatalf("failed to create scrubber: %v", err)
	}

	text := "Finished my third round of TMZ today, feeling okay."
	masked, findings := scrubber.Scrub(text)
	if masked != text {
		t.Fatalf("clean text altered: %q", masked)
	}
	if len(findings) != 0 {
		t.Fatalf("unexpected findings: %v", findings)
	}
}

func TestScrubSkipsDisabledRules(t *testing.T) {
	rules := DefaultRules()
	for i := range rules.Rules {
		if rules.Rules[i].Type == "email" {
			rules.Rules[i].Enabled = false
		}
	}
	scrubber, err := NewScrubber(rules)
	if err != nil {
		t.Fatalf("failed to create scrubber: %v", err)
	}

	masked, _ := scrubber.Scrub("reach me at jane@example.com")
	if !strings.Contains(masked, "jane@example.com") {
		t.Fatal("disabled rule was still applied")
	}
}

func TestDetect(t *testing.T) {
	scrubber, err := NewScrubber(DefaultRules())
	if err != nil {
		t.Fatalf("failed to create scrubber: %v", err)
	}

	if !scrubber.Detect("my SSN is 123-45-6789") {
		t.Fatal("expected detection")
	}
	if scrubber.Detect("no identifiers here") {
		t.Fatal("unexpected detection")
	}
}

func TestNilScrubberPassesThrough(t *testing.T) {
	var scrubber *Scrubber
	text := "email jane@example.com"
	masked, findings := scrubber.Scrub(text)
	if masked != text || findings != nil {
		t.Fatal("nil scrubber must pass text through")
	}
}
