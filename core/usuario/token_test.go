package usuario

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetTokens(t *testing.T) {
	rt := ResetTokens{SecretKey: "secret", Timeout: 3 * 24 * time.Hour}

	now := time.Now().UTC()
	u := Usuario{ID: "6f1c2a0e-0000-4000-8000-000000000001", Nome: "Ana", Email: "ana@smaipa.test"}
	require.NoError(t, u.SetPassword("Pr0va#Segura"))

	validToken, err := rt.Make(u)
	require.NoError(t, err)

	// generate an expired token
	dayLate := rt.Timeout + 24*time.Hour
	nowFunc = func() time.Time { return now.Add(-dayLate) }
	expiredToken, err := rt.Make(u)
	nowFunc = func() time.Time { return time.Now().UTC() } // reset
	require.NoError(t, err)

	otherKey, err := ResetTokens{SecretKey: "other", Timeout: rt.Timeout}.Make(u)
	require.NoError(t, err)

	loggedIn := u
	loggedIn.LastLogin = &now

	rehashed := u
	require.NoError(t, rehashed.SetPassword("Outr@Senha9"))

	tests := []struct {
		name    string
		usr     Usuario
		token   string
		wantErr error
	}{
		{name: "no token", usr: u, wantErr: ErrInvalidToken},
		{name: "invalid parts len", usr: u, token: "semhifen", wantErr: ErrInvalidToken},
		{name: "invalid base32", usr: u, token: "hahaha-sigsig", wantErr: ErrInvalidToken},
		{name: "invalid timestamp", usr: u, token: "NRXWY-sigsig", wantErr: ErrInvalidToken},
		{name: "bad signature", usr: u, token: "HE4TS-sigsig", wantErr: ErrInvalidToken},
		{name: "other secret key", usr: u, token: otherKey, wantErr: ErrInvalidToken},
		{name: "after login", usr: loggedIn, token: validToken, wantErr: ErrInvalidToken},
		{name: "after password change", usr: rehashed, token: validToken, wantErr: ErrInvalidToken},
		{name: "expired token", usr: u, token: expiredToken, wantErr: ErrTokenExpired},
		{name: "valid token", usr: u, token: validToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, rt.Verify(tt.usr, tt.token))
		})
	}
}

func TestUID(t *testing.T) {
	u := Usuario{ID: "6f1c2a0e-0000-4000-8000-000000000001"}
	uid := EncodeUID(u)
	assert.NotContains(t, uid, "=")

	id, err := DecodeUID(uid)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	_, err = DecodeUID("não é base64!")
	assert.Equal(t, ErrInvalidToken, err)
}
