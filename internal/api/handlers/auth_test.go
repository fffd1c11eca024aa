package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/maksv/social-network-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	ts := testutil.NewTestServer(t)

	signup := func(username, email string) *http.Response {
		return doJSON(t, http.MethodPost, ts.APIURL("/auth/signup"), "", map[string]string{
			"username":  username,
			"email":     email,
			"firstName": "Alice",
			"lastName":  "Smith",
			"password":  "secret123",
		})
	}

	t.Run("creates a user without exposing credentials", func(t *testing.T) {
		resp := signup("alice01", "alice@example.com")
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"username":"alice01"`)
		assert.NotContains(t, string(raw), "password")
		assert.NotContains(t, string(raw), "hashPassword")
	})

	t.Run("rejects a taken username", func(t *testing.T) {
		resp := signup("alice01", "other@example.com")
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusForbidden, "Username is already taken!")
	})

	t.Run("rejects a taken email", func(t *testing.T) {
		resp := signup("alice02", "alice@example.com")
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusForbidden, "Email is already taken!")
	})

	t.Run("reports field validation errors", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.APIURL("/auth/signup"), "", map[string]string{
			"username": "al",
			"email":    "not-an-email",
			"password": "123",
		})
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusUnprocessableEntity)

		var body struct {
			Message map[string]string `json:"message"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Username must be between 4 to 150 characters", body.Message["username"])
		assert.Equal(t, "Email is invalid", body.Message["email"])
		assert.Equal(t, "Password must contain at least 6 characters", body.Message["password"])
	})
}

func TestSignin(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, rawPassword := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	t.Run("signs in with username", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.APIURL("/auth/signin"), "", map[string]string{
			"login":    user.Username,
			"password": rawPassword,
		})
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var payload testutil.SigninPayload
		testutil.DecodeEnvelope(t, resp, &payload)
		assert.NotEmpty(t, payload.AccessToken)
		assert.Equal(t, user.Username, payload.User.Username)
	})

	t.Run("signs in with email", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.APIURL("/auth/signin"), "", map[string]string{
			"login":    user.Email,
			"password": rawPassword,
		})
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.APIURL("/auth/signin"), "", map[string]string{
			"login":    user.Username,
			"password": "wrong-password",
		})
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Invalid username or password")
	})

	t.Run("rejects a disabled account", func(t *testing.T) {
		disabled, password := testutil.NewUserBuilder().Inactive().Build(t, ts.DB.DB)
		resp := doJSON(t, http.MethodPost, ts.APIURL("/auth/signin"), "", map[string]string{
			"login":    disabled.Username,
			"password": password,
		})
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusForbidden, "Account is disabled")
	})
}

func TestPasswordResetFlow(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	t.Run("unknown email is rejected", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.APIURL("/auth/forgotpassword"), "", map[string]string{
			"email": "nobody@example.com",
		})
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "User with this email does not exist")
	})

	t.Run("forgot password mails instructions", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.APIURL("/auth/forgotpassword"), "", map[string]string{
			"email": user.Email,
		})
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		env := testutil.DecodeEnvelope(t, resp, nil)
		require.NotNil(t, env.Message)
		assert.Equal(t, "Email has been sent with further instructions", *env.Message)

		mail := ts.Mailer.LastMail()
		require.NotNil(t, mail)
		assert.Equal(t, user.Email, mail.To)
	})

	t.Run("reset with a bogus token fails", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.APIURL("/auth/resetpassword"), "", map[string]string{
			"resetPasswordToken": "not-a-real-token",
			"newPassword":        "brandnew123",
		})
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Invalid reset token")
	})

	t.Run("reset with the stored token changes the password", func(t *testing.T) {
		stored, err := ts.Repos.User.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotEmpty(t, stored.ResetPasswordToken)

		resp := doJSON(t, http.MethodPost, ts.APIURL("/auth/resetpassword"), "", map[string]string{
			"resetPasswordToken": stored.ResetPasswordToken,
			"newPassword":        "brandnew123",
		})
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		signin := doJSON(t, http.MethodPost, ts.APIURL("/auth/signin"), "", map[string]string{
			"login":    user.Username,
			"password": "brandnew123",
		})
		defer signin.Body.Close()
		testutil.AssertStatusCode(t, signin, http.StatusOK)
	})
}

func TestSocialLogin(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.APIURL("/auth/sociallogin"), "", map[string]string{
		"username":  "social_user",
		"email":     "social@example.com",
		"firstName": "Social",
		"lastName":  "User",
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var payload testutil.SigninPayload
	testutil.DecodeEnvelope(t, resp, &payload)
	assert.NotEmpty(t, payload.AccessToken)
	assert.Equal(t, "social@example.com", payload.User.Email)

	// Same email signs back into the same account
	again := doJSON(t, http.MethodPost, ts.APIURL("/auth/sociallogin"), "", map[string]string{
		"email": "social@example.com",
	})
	defer again.Body.Close()
	testutil.AssertStatusCode(t, again, http.StatusOK)

	var second testutil.SigninPayload
	testutil.DecodeEnvelope(t, again, &second)
	assert.Equal(t, payload.User.ID, second.User.ID)
}
