package services

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed faq_rules.yaml
var defaultRulesYAML []byte

// Rule maps a keyword group to a canned response.
type Rule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Response string   `yaml:"response"`
}

// Matches reports whether the lowercased text contains any keyword.
func (r Rule) Matches(lowered string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// RuleSet is the on-disk form of the barista's knowledge.
type RuleSet struct {
	Greeting       string   `yaml:"greeting"`
	QuickQuestions []string `yaml:"quick_questions"`
	Rules          []Rule   `yaml:"rules"`
	Default        string   `yaml:"default"`
}

// Responder answers free text with the response of the first matching rule.
// It holds no mutable state and is safe for concurrent use.
type Responder struct {
	greeting       string
	quickQuestions []string
	rules          []Rule
	fallback       string
}

func NewResponder(set RuleSet) (*Responder, error) {
	if strings.TrimSpace(set.Default) == "" {
		return nil, fmt.Errorf("%w: default response is required", ErrInvalidRules)
	}
	r := &Responder{
		greeting:       strings.TrimSpace(set.Greeting),
		quickQuestions: append([]string(nil), set.QuickQuestions...),
		fallback:       strings.TrimSpace(set.Default),
	}
	seen := make(map[string]bool)
	for i, rule := range set.Rules {
		name := strings.TrimSpace(rule.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: rule %d has no name", ErrInvalidRules, i)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate rule %q", ErrInvalidRules, name)
		}
		seen[name] = true
		if strings.TrimSpace(rule.Response) == "" {
			return nil, fmt.Errorf("%w: rule %q has no response", ErrInvalidRules, name)
		}
		var kws []string
		for _, kw := range rule.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				kws = append(kws, kw)
			}
		}
		if len(kws) == 0 {
			return nil, fmt.Errorf("%w: rule %q has no keywords", ErrInvalidRules, name)
		}
		r.rules = append(r.rules, Rule{Name: name, Keywords: kws, Response: strings.TrimSpace(rule.Response)})
	}
	return r, nil
}

// ParseRules decodes a YAML rule set.
func ParseRules(data []byte) (RuleSet, error) {
	var set RuleSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return RuleSet{}, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	return set, nil
}

// DefaultRules returns the built-in rule set.
func DefaultRules() RuleSet {
	set, err := ParseRules(defaultRulesYAML)
	if err != nil {
		panic(err)
	}
	return set
}

func DefaultResponder() *Responder {
	r, err := NewResponder(DefaultRules())
	if err != nil {
		panic(err)
	}
	return r
}

// LoadResponder reads rules from path, or uses the built-in rules when path is empty.
func LoadResponder(path string) (*Responder, error) {
	if path == "" {
		return NewResponder(DefaultRules())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read faq rules: %w", err)
	}
	set, err := ParseRules(data)
	if err != nil {
		return nil, err
	}
	return NewResponder(set)
}

// Match returns the first rule that fires for text.
func (r *Responder) Match(text string) (Rule, bool) {
	lowered := strings.ToLower(text)
	for _, rule := range r.rules {
		if rule.Matches(lowered) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Respond never fails; unmatched (including empty) input gets the default response.
func (r *Responder) Respond(text string) string {
	if rule, ok := r.Match(text); ok {
		return rule.Response
	}
	return r.fallback
}

func (r *Responder) Greeting() string { return r.greeting }

func (r *Responder) DefaultResponse() string { return r.fallback }

func (r *Responder) QuickQuestions() []string {
	return append([]string(nil), r.quickQuestions...)
}

// RuleNames lists rules in priority order.
func (r *Responder) RuleNames() []string {
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.Name
	}
	return names
}
