package moderation

import "regexp"

type compiledRule struct {
	rule Rule
	re   *regexp.Regexp
}

// Scrubber masks personal identifiers in user-authored text before it is
// stored or shown to other members.
type Scrubber struct {
	rules []compiledRule
}

func NewScrubber(cfg RulesConfig) (*Scrubber, error) {
	var compiled []compiledRule
	for _, rule := range cfg.Rules {
		if !rule.Enabled {
			continue
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledRule{rule: rule, re: re})
	}
	return &Scrubber{rules: compiled}, nil
}

// Finding reports one masked identifier.
type Finding struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Count    int    `json:"count"`
}

// Scrub returns the text with every enabled rule's matches replaced by its
// mask, plus a summary of what was found. A nil Scrubber passes text through.
func (s *Scrubber) Scrub(text string) (string, []Finding) {
	if s == nil || text == "" {
		return text, nil
	}

	var findings []Finding
	masked := text
	for _, rule := range s.rules {
		matches := rule.re.FindAllStringIndex(masked, -1)
		if len(matches) == 0 {
			continue
		}
		findings = append(findings, Finding{
			Type:     rule.rule.Type,
			Severity: rule.rule.Severity,
			Count:    len(matches),
		})
		masked = rule.re.ReplaceAllString(masked, rule.rule.Mask)
	}
	return masked, findings
}

// Detect reports whether the text contains any maskable identifier without
// altering it.
func (s *Scrubber) Detect(text string) bool {
	if s == nil || text == "" {
		return false
	}
	for _, rule := range s.rules {
		if rule.re.MatchString(text) {
			return true
		}
	}
	return false
}
