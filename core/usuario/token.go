package usuario

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	tokenSalt = []byte("smaipa.core.usuario.token")

	ErrInvalidToken = errors.New("link de redefinição de senha inválido")
	ErrTokenExpired = errors.New("link de redefinição de senha expirado")
)

// ResetTokens makes and checks password reset tokens.
// A token is bound to the password hash and the last login of the usuario,
// so it stops working once either changes.
type ResetTokens struct {
	SecretKey string
	Timeout   time.Duration
}

// EncodeUID base64 encodes the ID of u for use in reset links.
func EncodeUID(u Usuario) string {
	return base64.RawURLEncoding.EncodeToString([]byte(u.ID))
}

func DecodeUID(uid string) (string, error) {
	id, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return "", ErrInvalidToken
	}
	return string(id), nil
}

func (rt ResetTokens) Make(u Usuario) (string, error) {
	return rt.makeWithTimestamp(u, daysSince2001(nowFunc()))
}

func (rt ResetTokens) Verify(u Usuario, token string) error {
	if token == "" {
		return ErrInvalidToken
	}

	parts := strings.SplitN(token, "-", 2)
	if len(parts) < 2 {
		return ErrInvalidToken
	}
	data, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(parts[0])
	if err != nil {
		return ErrInvalidToken
	}
	ts, err := strconv.Atoi(string(data))
	if err != nil {
		return ErrInvalidToken
	}

	// tampered?
	expected, err := rt.makeWithTimestamp(u, ts)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(token)) == 0 {
		return ErrInvalidToken
	}

	if daysSince2001(nowFunc())-ts > int(rt.Timeout/(24*time.Hour)) {
		return ErrTokenExpired
	}
	return nil
}

func (rt ResetTokens) makeWithTimestamp(u Usuario, ts int) (string, error) {
	tsB32 := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte(strconv.Itoa(ts)))
	sig, err := rt.sign(hashValue(u, ts))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s", tsB32, sig), nil
}

func (rt ResetTokens) sign(val []byte) (string, error) {
	key := sha256.Sum256(append(append([]byte{}, tokenSalt...), rt.SecretKey...))
	h := hmac.New(sha256.New, key[:])
	if _, err := h.Write(val); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil)), nil
}

func daysSince2001(t time.Time) int {
	ref := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(math.Ceil(t.Sub(ref).Hours() / 24))
}

func hashValue(u Usuario, ts int) []byte {
	var val bytes.Buffer
	val.WriteString(u.ID)
	val.Write(u.PasswordHash)
	if u.LastLogin != nil {
		val.WriteString(u.LastLogin.UTC().Format(time.RFC3339Nano))
	}
	val.WriteString(strconv.Itoa(ts))
	return val.Bytes()
}
