package test

import (
	"encoding/json"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminAuthFlow(t *testing.T) {
	os.Setenv("ADMIN_SIGNUP_CODE", "test-code")
	ts := setupTestServer()
	defer ts.Close()

	// Регистрация с неверным кодом закрыта.
	res := postJSON(t, ts.URL+"/auth/register", map[string]string{
		"name": "Админ", "email": "admin@example.com", "password": "secret123", "signup_code": "wrong",
	})
	res.Body.Close()
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res = postJSON(t, ts.URL+"/auth/register", map[string]string{
		"name": "Админ", "email": "admin@example.com", "password": "secret123", "signup_code": "test-code",
	})
	res.Body.Close()
	assert.Equal(t, http.StatusCreated, res.StatusCode, "Регистрация администратора не удалась")

	// Неизвестный email и неверный пароль неразличимы в ответе.
	res = postJSON(t, ts.URL+"/auth/login", map[string]string{"email": "nobody@example.com", "password": "secret123"})
	var unknownBody map[string]interface{}
	json.NewDecoder(res.Body).Decode(&unknownBody)
	res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = postJSON(t, ts.URL+"/auth/login", map[string]string{"email": "admin@example.com", "password": "wrongpass"})
	var wrongBody map[string]interface{}
	json.NewDecoder(res.Body).Decode(&wrongBody)
	res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, unknownBody["code"], wrongBody["code"], "Ответы не должны выдавать, какой email зарегистрирован")
	assert.Equal(t, unknownBody["message"], wrongBody["message"])

	// Успешный вход выдаёт пару токенов.
	res = postJSON(t, ts.URL+"/auth/login", map[string]string{"email": "admin@example.com", "password": "secret123"})
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode, "Авторизация не удалась")
	var tokens map[string]interface{}
	json.NewDecoder(res.Body).Decode(&tokens)
	assert.NotEmpty(t, tokens["access_token"])
	assert.NotEmpty(t, tokens["refresh_token"])

	// Refresh выдаёт новую пару.
	refreshRes := postJSON(t, ts.URL+"/auth/refresh", map[string]string{"refresh_token": tokens["refresh_token"].(string)})
	defer refreshRes.Body.Close()
	assert.Equal(t, http.StatusOK, refreshRes.StatusCode, "Обновление токена не удалось")
	var refreshed map[string]interface{}
	json.NewDecoder(refreshRes.Body).Decode(&refreshed)
	assert.NotEmpty(t, refreshed["access_token"])
}
