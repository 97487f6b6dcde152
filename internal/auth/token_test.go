package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "test-secret-key-for-predictable-results"

func TestTokens_Generate(t *testing.T) {
	tokens := NewTokens(testSecretKey)

	tests := []struct {
		name      string
		tokenType TokenType
		subject   string
		duration  time.Duration
	}{
		{
			name:      "success: generate valid user token",
			tokenType: TokenTypeUser,
			subject:   "reader",
			duration:  time.Hour,
		},
		{
			name:      "success: generate valid admin token",
			tokenType: TokenTypeAdmin,
			subject:   "editor",
			duration:  30 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenString, err := tokens.Generate(tt.tokenType, tt.subject, tt.duration)
			require.NoError(t, err)
			require.NotEmpty(t, tokenString)

			claims, err := tokens.Verify(tokenString)
			require.NoError(t, err)
			assert.Equal(t, tt.tokenType, claims.Type)
			assert.Equal(t, tt.subject, claims.Subject)
			assert.Equal(t, Issuer, claims.Issuer)
			assert.WithinDuration(t, time.Now().Add(tt.duration), claims.ExpiresAt.Time, time.Second*5)
		})
	}
}

func TestTokens_Verify(t *testing.T) {
	tokens := NewTokens(testSecretKey)

	validUserToken, _ := tokens.Generate(TokenTypeUser, "reader", time.Hour)
	expiredToken, _ := tokens.Generate(TokenTypeUser, "reader", -time.Hour)
	otherSecretToken, _ := NewTokens("different-secret-key").Generate(TokenTypeAdmin, "editor", time.Hour)

	claimsWithWrongMethod := TokenClaims{
		Type: TokenTypeUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tokenWithWrongMethod := jwt.NewWithClaims(jwt.SigningMethodNone, claimsWithWrongMethod)
	wrongMethodTokenString, _ := tokenWithWrongMethod.SignedString(jwt.UnsafeAllowNoneSignatureType)

	foreignIssuer := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{
		Type: TokenTypeAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	foreignIssuerString, _ := foreignIssuer.SignedString([]byte(testSecretKey))

	tests := []struct {
		name              string
		tokenString       string
		expectError       bool
		expectedErrorType error
		expectedTokenType TokenType
	}{
		{
			name:              "success: verify valid token",
			tokenString:       validUserToken,
			expectedTokenType: TokenTypeUser,
		},
		{
			name:              "failure: verify expired token",
			tokenString:       expiredToken,
			expectError:       true,
			expectedErrorType: jwt.ErrTokenExpired,
		},
		{
			name:              "failure: verify token with invalid signature",
			tokenString:       otherSecretToken,
			expectError:       true,
			expectedErrorType: jwt.ErrTokenSignatureInvalid,
		},
		{
			name:              "failure: verify malformed token",
			tokenString:       "not-a-valid-jwt-token",
			expectError:       true,
			expectedErrorType: jwt.ErrTokenMalformed,
		},
		{
			name:              "failure: verify token with wrong signing method",
			tokenString:       wrongMethodTokenString,
			expectError:       true,
			expectedErrorType: ErrInvalidSigningMethod,
		},
		{
			name:              "failure: verify token from another issuer",
			tokenString:       foreignIssuerString,
			expectError:       true,
			expectedErrorType: jwt.ErrTokenInvalidIssuer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tokens.Verify(tt.tokenString)

			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErrorType)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, claims)
				assert.Equal(t, tt.expectedTokenType, claims.Type)
			}
		})
	}
}

func TestTokens_Authorize(t *testing.T) {
	tokens := NewTokens(testSecretKey)

	adminToken, _ := tokens.Generate(TokenTypeAdmin, "editor", time.Hour)
	userToken, _ := tokens.Generate(TokenTypeUser, "reader", time.Hour)

	tests := []struct {
		name        string
		header      string
		expectedErr error
	}{
		{name: "success: admin token", header: "Bearer " + adminToken},
		{name: "failure: user token", header: "Bearer " + userToken, expectedErr: ErrForbidden},
		{name: "failure: empty header", header: "", expectedErr: ErrMissingToken},
		{name: "failure: no bearer prefix", header: adminToken, expectedErr: ErrMissingToken},
		{name: "failure: bearer without token", header: "Bearer  ", expectedErr: ErrMissingToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tokens.Authorize(tt.header, TokenTypeAdmin)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "editor", claims.Subject)
		})
	}
}
