package token

import (
	"context"
	"encoding/base64"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 535000000, time.UTC)

func newCodec(t *testing.T, now time.Time, opts ...Option) *Codec {
	t.Helper()
	c, err := NewCodec(testSecret, time.Hour, append([]Option{WithClock(func() time.Time { return now })}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestNewCodec(t *testing.T) {
	_, err := NewCodec("", time.Hour)
	assert.Error(t, err)

	_, err = NewCodec("s", -time.Second)
	assert.Error(t, err)

	c, err := NewCodec("s", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, c.TTL())
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	c := newCodec(t, fixedNow)

	tok, issued, err := c.Issue(Identity{SubjectID: "user-1", Email: "a@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	assert.Equal(t, time.Unix(fixedNow.Unix(), 0).UTC(), issued.IssuedAt)
	assert.Equal(t, issued.IssuedAt.Add(time.Hour), issued.ExpiresAt)

	res := c.Verify(tok)
	require.True(t, res.Valid(), "reason: %s", res.Reason)
	assert.Equal(t, issued, res.Claims)
}

func TestIssue_RequiresSubject(t *testing.T) {
	_, _, err := newCodec(t, fixedNow).Issue(Identity{Email: "a@example.com"})
	assert.Error(t, err)
}

func TestVerify_Expired(t *testing.T) {
	tok, _, err := newCodec(t, fixedNow).Issue(Identity{SubjectID: "u"})
	require.NoError(t, err)

	tests := []struct {
		name string
		at   time.Time
	}{
		{"exactly at expiry", time.Unix(fixedNow.Unix(), 0).Add(time.Hour)},
		{"long after expiry", fixedNow.Add(48 * time.Hour)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newCodec(t, tt.at).Verify(tok)
			assert.False(t, res.Valid())
			assert.Equal(t, ReasonExpired, res.Reason)
		})
	}

	res := newCodec(t, fixedNow.Add(59*time.Minute)).Verify(tok)
	assert.True(t, res.Valid())
}

func TestVerify_WrongSecret(t *testing.T) {
	tok, _, err := newCodec(t, fixedNow).Issue(Identity{SubjectID: "u"})
	require.NoError(t, err)

	other, err := NewCodec("another-secret", time.Hour, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	res := other.Verify(tok)
	assert.False(t, res.Valid())
	assert.Equal(t, ReasonSignature, res.Reason)
}

func TestVerify_TamperedSignature(t *testing.T) {
	c := newCodec(t, fixedNow)
	tok, _, err := c.Issue(Identity{SubjectID: "u"})
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)
	require.Len(t, sig, 32)

	// HS256 compares the whole MAC, so a flip anywhere is rejected the same way.
	tests := []struct {
		name string
		pos  int
		mask byte
	}{
		{"first byte", 0, 0xff},
		{"middle byte", len(sig) / 2, 0x01},
		{"last byte", len(sig) - 1, 0x01},
		{"last byte high bit", len(sig) - 1, 0x80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forged := append([]byte(nil), sig...)
			forged[tt.pos] ^= tt.mask
			p := append([]string(nil), parts...)
			p[2] = base64.RawURLEncoding.EncodeToString(forged)

			res := c.Verify(strings.Join(p, "."))
			assert.False(t, res.Valid())
			assert.Nil(t, res.Claims)
			assert.Equal(t, ReasonSignature, res.Reason)
		})
	}

	truncated := append([]string(nil), parts...)
	truncated[2] = base64.RawURLEncoding.EncodeToString(sig[:len(sig)-1])
	assert.Equal(t, ReasonSignature, c.Verify(strings.Join(truncated, ".")).Reason)

	assert.True(t, c.Verify(tok).Valid())
}

func TestVerify_TamperedPayload(t *testing.T) {
	c := newCodec(t, fixedNow)
	tok, _, err := c.Issue(Identity{SubjectID: "u"})
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	payload := `{"sub":"admin","iat":` + itoa(fixedNow.Unix()) + `,"exp":` + itoa(fixedNow.Unix()+3600) + `}`
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(payload))

	res := c.Verify(strings.Join(parts, "."))
	assert.Equal(t, ReasonSignature, res.Reason)
}

func TestVerify_AlgNoneRejected(t *testing.T) {
	c := newCodec(t, fixedNow)
	claims := jwt.MapClaims{"sub": "u", "iat": fixedNow.Unix(), "exp": fixedNow.Add(time.Hour).Unix()}

	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	res := c.Verify(tok)
	assert.False(t, res.Valid())
	assert.Equal(t, ReasonClaims, res.Reason)
}

func TestVerify_OtherHMACRejected(t *testing.T) {
	c := newCodec(t, fixedNow)
	claims := jwt.MapClaims{"sub": "u", "iat": fixedNow.Unix(), "exp": fixedNow.Add(time.Hour).Unix()}

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	assert.Equal(t, ReasonClaims, c.Verify(tok).Reason)
}

func TestVerify_MissingClaims(t *testing.T) {
	c := newCodec(t, fixedNow)
	sign := func(claims jwt.MapClaims) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return tok
	}

	noExp := sign(jwt.MapClaims{"sub": "u", "iat": fixedNow.Unix()})
	noSub := sign(jwt.MapClaims{"iat": fixedNow.Unix(), "exp": fixedNow.Add(time.Hour).Unix()})

	assert.Equal(t, ReasonClaims, c.Verify(noExp).Reason)
	assert.Equal(t, ReasonClaims, c.Verify(noSub).Reason)
}

func TestVerify_Malformed(t *testing.T) {
	c := newCodec(t, fixedNow)

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c", "....."} {
		res := c.Verify(tok)
		assert.False(t, res.Valid(), tok)
		assert.Equal(t, ReasonMalformed, res.Reason, tok)
	}
}

func TestVerify_IssuerEnforced(t *testing.T) {
	issuerA := newCodec(t, fixedNow, WithIssuer("a"))
	issuerB := newCodec(t, fixedNow, WithIssuer("b"))

	tok, _, err := issuerA.Issue(Identity{SubjectID: "u"})
	require.NoError(t, err)

	assert.True(t, issuerA.Verify(tok).Valid())
	assert.Equal(t, ReasonClaims, issuerB.Verify(tok).Reason)
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	claims := &Claims{SubjectID: "u"}
	got, ok := FromContext(NewContext(context.Background(), claims))
	require.True(t, ok)
	assert.Same(t, claims, got)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
