package locale

import "testing"

func TestNormalizeLanguage(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "zh", want: LanguageChinese},
		{input: "zh-CN", want: LanguageChinese},
		{input: "ZH_hans", want: LanguageChinese},
		{input: "en", want: LanguageEnglish},
		{input: "en-US", want: LanguageEnglish},
		{input: "fr", want: ""},
		{input: "", want: ""},
	}

	for _, tc := range cases {
		if got := NormalizeLanguage(tc.input); got != tc.want {
			t.Fatalf("NormalizeLanguage(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestLanguageFromAcceptLanguage(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "zh-CN,zh;q=0.9", want: LanguageChinese},
		{input: "en-US,en;q=0.9", want: LanguageEnglish},
		{input: "en-GB,zh;q=0.5", want: LanguageEnglish},
		{input: "fr-FR,fr;q=0.9", want: ""},
		{input: "", want: ""},
	}

	for _, tc := range cases {
		if got := LanguageFromAcceptLanguage(tc.input); got != tc.want {
			t.Fatalf("LanguageFromAcceptLanguage(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestResolve(t *testing.T) {
	if got := Resolve("zh", "", "fr"); got != LanguageChinese {
		t.Fatalf("Resolve fallback = %q, want %q", got, LanguageChinese)
	}
	if got := Resolve("zh", "en-US"); got != LanguageEnglish {
		t.Fatalf("Resolve candidate = %q, want %q", got, LanguageEnglish)
	}
	if got := Resolve(""); got != LanguageEnglish {
		t.Fatalf("Resolve default = %q, want %q", got, LanguageEnglish)
	}
}

func TestPick(t *testing.T) {
	if got := Pick("en", "english", "chinese"); got != "english" {
		t.Fatalf("Pick(en) = %q, want %q", got, "english")
	}
	if got := Pick("zh", "english", "chinese"); got != "chinese" {
		t.Fatalf("Pick(zh) = %q, want %q", got, "chinese")
	}
	if got := Pick("fr", "english", "chinese"); got != "english" {
		t.Fatalf("Pick(fr) = %q, want %q", got, "english")
	}
	if got := Pick("zh", "english", ""); got != "english" {
		t.Fatalf("Pick(zh, missing) = %q, want %q", got, "english")
	}
}
