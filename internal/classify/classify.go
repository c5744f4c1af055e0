// Package classify maps free-text questions to knowledge base topics by
// keyword containment.
package classify

import "strings"

// Rule binds a keyword pattern to the topic it selects.
type Rule struct {
	Pattern string
	Topic   string
}

// DefaultRules is the product's keyword map. Order is significant: the first
// matching rule wins, even when a later pattern is longer or more specific.
var DefaultRules = []Rule{
	{Pattern: "اختراق", Topic: "الاختراق الأخلاقي"},
	{Pattern: "penetration", Topic: "الاختراق الأخلاقي"},
	{Pattern: "هاكر", Topic: "الاختراق الأخلاقي"},
	{Pattern: "اختبار", Topic: "الاختراق الأخلاقي"},
	{Pattern: "برمجة آمنة", Topic: "البرمجة الآمنة"},
	{Pattern: "secure coding", Topic: "البرمجة الآمنة"},
	{Pattern: "تشفير", Topic: "التشفير"},
	{Pattern: "cryptography", Topic: "التشفير"},
	{Pattern: "هندسة اجتماعية", Topic: "الهندسة الاجتماعية"},
	{Pattern: "social engineering", Topic: "الهندسة الاجتماعية"},
	{Pattern: "فيروس", Topic: "البرمجيات الخبيثة"},
	{Pattern: "malware", Topic: "البرمجيات الخبيثة"},
	{Pattern: "فيروسات", Topic: "البرمجيات الخبيثة"},
	{Pattern: "keylogger", Topic: "البرمجيات الخبيثة"},
}

// Classifier scans an ordered rule list against case-folded input.
type Classifier struct {
	rules []Rule
}

// New builds a classifier over rules. Patterns are case-folded once here so
// Classify only folds the input text.
func New(rules []Rule) *Classifier {
	folded := make([]Rule, len(rules))
	for i, r := range rules {
		folded[i] = Rule{Pattern: strings.ToLower(r.Pattern), Topic: r.Topic}
	}
	return &Classifier{rules: folded}
}

// Classify returns the topic of the first rule whose pattern occurs in the
// case-folded text, or "" when no rule matches. For fixed rules the result is
// deterministic in the input.
func (c *Classifier) Classify(text string) string {
	folded := strings.ToLower(text)
	for _, r := range c.rules {
		if strings.Contains(folded, r.Pattern) {
			return r.Topic
		}
	}
	return ""
}
