package classify

import "testing"

func TestClassifyFirstMatchWins(t *testing.T) {
	// "secure" (rule one) is a prefix of "secure coding" (rule two); the
	// earlier, shorter rule must win regardless of specificity.
	c := New([]Rule{
		{Pattern: "secure", Topic: "general"},
		{Pattern: "secure coding", Topic: "coding"},
	})
	if got := c.Classify("tell me about secure coding"); got != "general" {
		t.Fatalf("Classify = %q, want %q", got, "general")
	}
}

func TestClassifyCaseFolds(t *testing.T) {
	c := New([]Rule{{Pattern: "Malware", Topic: "malware-topic"}})
	if got := c.Classify("WHAT IS MALWARE?"); got != "malware-topic" {
		t.Fatalf("Classify = %q, want %q", got, "malware-topic")
	}
}

func TestClassifyNoMatch(t *testing.T) {
	c := New(DefaultRules)
	if got := c.Classify("what is the weather today"); got != "" {
		t.Fatalf("Classify = %q, want none", got)
	}
}

func TestClassifyMixedArabicEnglish(t *testing.T) {
	c := New([]Rule{{Pattern: "keylogger", Topic: "malware-topic"}})
	if got := c.Classify("ما هو keylogger وكيف يعمل"); got != "malware-topic" {
		t.Fatalf("Classify = %q, want %q", got, "malware-topic")
	}
}

func TestClassifyDefaultRules(t *testing.T) {
	c := New(DefaultRules)
	cases := []struct {
		text, want string
	}{
		{"ما هو keylogger وكيف يعمل", "البرمجيات الخبيثة"},
		{"what is penetration testing", "الاختراق الأخلاقي"},
		{"شرح التشفير المتماثل", "التشفير"},
		{"مثال عن هندسة اجتماعية", "الهندسة الاجتماعية"},
		{"best secure coding practices", "البرمجة الآمنة"},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.text); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := New(DefaultRules)
	text := "فيروس malware keylogger"
	first := c.Classify(text)
	for i := 0; i < 100; i++ {
		if got := c.Classify(text); got != first {
			t.Fatalf("iteration %d: Classify = %q, want %q", i, got, first)
		}
	}
}
