// Copyright (c) 2026 Contenedor JEM. All rights reserved.
// Author: jem@contenedorjem.dev

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contenedorjem/cursos/internal/auth"
	"github.com/contenedorjem/cursos/internal/platform/sec"
)

func newTestHandler(t *testing.T) (*auth.Handler, *fakeUserRepository) {
	t.Helper()
	users := &fakeUserRepository{users: map[string]*auth.User{}}
	attempts := &fakeAttemptRepository{counts: map[string]int64{}}
	service := auth.NewService(users, attempts, &fakeIssuer{}, discardLogger())
	return auth.NewHandler(service, false), users
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

// jwtCookie picks the JWT cookie out of a recorded response.
func jwtCookie(t *testing.T, recorder *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == "JWT" {
			return cookie
		}
	}
	return nil
}

/*
TestHandler_Login_Success verifies the dual transport: token in the JSON body
and the same token in an HttpOnly Lax cookie scoped to the whole site.
*/
func TestHandler_Login_Success(t *testing.T) {
	handler, users := newTestHandler(t)
	seedUser(t, users, "maria", "correct-horse", sec.RoleAdmin, true)

	recorder := postJSON(t, handler.Routes(), "/login", `{"username":"maria","password":"correct-horse"}`)

	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "token-for-maria", envelope.Data["token"])

	cookie := jwtCookie(t, recorder)
	require.NotNil(t, cookie, "login must set the JWT cookie")
	assert.Equal(t, "token-for-maria", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge, "cookie lifetime must match the token lifetime")
	assert.False(t, cookie.Secure, "Secure is off outside production")
}

/*
TestHandler_Login_Failure checks that bad credentials yield a 401 with no
cookie and no token.
*/
func TestHandler_Login_Failure(t *testing.T) {
	handler, users := newTestHandler(t)
	seedUser(t, users, "maria", "correct-horse", sec.RoleAdmin, true)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"wrong_password", `{"username":"maria","password":"nope"}`, http.StatusUnauthorized},
		{"unknown_user", `{"username":"ghost","password":"nope"}`, http.StatusUnauthorized},
		{"missing_fields", `{"username":"maria"}`, http.StatusBadRequest},
		{"invalid_json", `{"username":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := postJSON(t, handler.Routes(), "/login", tt.body)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Nil(t, jwtCookie(t, recorder), "failed login must not set a cookie")
			assert.NotContains(t, recorder.Body.String(), "token-for-")
		})
	}
}

/*
TestHandler_Logout_Idempotent expires the JWT cookie on every call, whether
or not a session cookie ever existed.
*/
func TestHandler_Logout_Idempotent(t *testing.T) {
	handler, _ := newTestHandler(t)

	for i := 0; i < 2; i++ {
		recorder := postJSON(t, handler.Routes(), "/logout", "")

		assert.Equal(t, http.StatusNoContent, recorder.Code)

		cookie := jwtCookie(t, recorder)
		require.NotNil(t, cookie)
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge, "parsed Max-Age=0 reports as negative MaxAge")
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, "/", cookie.Path)
	}
}
