package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionValueRoundTrip(t *testing.T) {
	auth := newAuthService("secret")

	subject, ok := auth.verifySessionValue(auth.createSessionValue("estimator@example.com"))
	require.True(t, ok)
	assert.Equal(t, "estimator@example.com", subject)
}

func TestVerifySessionValue_Rejects(t *testing.T) {
	auth := newAuthService("secret")
	valid := auth.createSessionValue("a@example.com")

	for name, value := range map[string]string{
		"empty":         "",
		"no signature":  "YQ",
		"bad hex":       "YQ.zz",
		"tampered":      "Yg" + valid[2:],
		"extra segment": valid + ".00",
		"other secret":  newAuthService("nope").createSessionValue("a@example.com"),
		"empty subject": auth.createSessionValue(""),
	} {
		t.Run(name, func(t *testing.T) {
			_, ok := auth.verifySessionValue(value)
			assert.False(t, ok)
		})
	}
}

func TestMiddleware_PassesSubject(t *testing.T) {
	auth := newAuthService("secret")
	var got string
	h := auth.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = subjectFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/estimates/x", nil)
	req.Header.Set("Authorization", "Bearer "+auth.createSessionValue("a@example.com"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "a@example.com", got)
}

func TestMiddleware_DisabledWithoutSecret(t *testing.T) {
	auth := newAuthService("")
	called := false
	h := auth.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/estimates/x", nil))
	assert.True(t, called)
}
