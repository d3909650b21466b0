package auth

import "testing"

func TestSanitizeRedirect(t *testing.T) {
	cases := map[string]string{
		"":                       AccountPath,
		"/checkout":              "/checkout",
		"/pedido/abc?x=1":        "/pedido/abc?x=1",
		"  /carrinho ":           "/carrinho",
		"//evil.example":         AccountPath,
		"https://evil.example":   AccountPath,
		"/\\evil.example":        AccountPath,
		"javascript:alert(1)":    AccountPath,
		"/entrar":                AccountPath,
		"/entrar?from=/checkout": AccountPath,
		"relative/path":          AccountPath,
	}
	for input, want := range cases {
		if got := SanitizeRedirect(input); got != want {
			t.Fatalf("SanitizeRedirect(%q) = %q, want %q", input, got, want)
		}
	}
}
