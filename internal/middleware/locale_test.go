package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func runLocale(t *testing.T, req *http.Request, defaultLocale string, lookup CountryLookup) (locale, country string) {
	t.Helper()
	handler := Locale(defaultLocale, lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale = LocaleFromContext(r.Context())
		country = CountryFromContext(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return locale, country
}

func TestLocaleHeaderTakesPrecedence(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Locale", "fr-CA")
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9")

	locale, _ := runLocale(t, req, "en", nil)
	if locale != "fr" {
		t.Fatalf("locale = %q, want fr", locale)
	}
}

func TestLocaleFromAcceptLanguage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ja-JP,ja;q=0.9,en;q=0.5")

	locale, _ := runLocale(t, req, "en", nil)
	if locale != "ja" {
		t.Fatalf("locale = %q, want ja", locale)
	}
}

func TestLocaleFromGeoIPCountry(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:4455"

	lookup := func(ip string) (string, error) {
		if ip != "203.0.113.9" {
			return "", errors.New("unexpected ip")
		}
		return "ES", nil
	}
	locale, country := runLocale(t, req, "en", lookup)
	if locale != "es" {
		t.Fatalf("locale = %q, want es", locale)
	}
	if country != "ES" {
		t.Fatalf("country = %q, want ES", country)
	}
}

func TestLocaleFallsBackToDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Locale", "???")

	locale, _ := runLocale(t, req, "en", nil)
	if locale != "en" {
		t.Fatalf("locale = %q, want en", locale)
	}
}

func TestLocaleCountryHeaderHint(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-IPCountry", "jp")

	locale, country := runLocale(t, req, "en", nil)
	if country != "JP" {
		t.Fatalf("country = %q, want JP", country)
	}
	if locale != "ja" {
		t.Fatalf("locale = %q, want ja", locale)
	}
}
