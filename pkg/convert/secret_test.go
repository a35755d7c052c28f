package convert_test

import (
	"context"
	"crypto/rand"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/graft/pkg/convert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func TestDecrypt(t *testing.T) {
	keys := convert.Keys{Active: generateKey(t)}
	sealed, err := convert.Encrypt(keys, "my-secret-sauce")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, convert.SecretPrefix))
	assert.NotContains(t, sealed, "my-secret-sauce")

	dec, err := convert.Decrypt(keys)
	require.NoError(t, err)
	ctx := context.Background()

	out, err := dec(ctx, sealed, "password", nil)
	require.NoError(t, err)
	assert.Equal(t, "my-secret-sauce", out)

	out, err = dec(ctx, "plain", "k", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain", out)

	out, err = dec(ctx, 42, "k", nil)
	require.NoError(t, err)
	assert.Equal(t, 42, out)

	_, err = dec(ctx, convert.SecretPrefix+"%%%", "k", nil)
	assert.Error(t, err)
}

func TestDecrypt_KeyRotation(t *testing.T) {
	oldKey := generateKey(t)
	sealed, err := convert.Encrypt(convert.Keys{Active: oldKey}, "rotated")
	require.NoError(t, err)

	dec, err := convert.Decrypt(convert.Keys{Active: generateKey(t), Fallback: [][]byte{oldKey}})
	require.NoError(t, err)
	out, err := dec(context.Background(), sealed, "k", nil)
	require.NoError(t, err)
	assert.Equal(t, "rotated", out)

	dec, err = convert.Decrypt(convert.Keys{Active: generateKey(t)})
	require.NoError(t, err)
	_, err = dec(context.Background(), sealed, "k", nil)
	assert.ErrorIs(t, err, convert.ErrDecrypt)
}

func TestKeys_Validate(t *testing.T) {
	_, err := convert.Decrypt(convert.Keys{Active: []byte("short")})
	assert.Error(t, err)

	_, err = convert.Decrypt(convert.Keys{Active: generateKey(t), Fallback: [][]byte{[]byte("short")}})
	assert.Error(t, err)

	_, err = convert.Encrypt(convert.Keys{}, "x")
	assert.Error(t, err)
}

func TestRedact(t *testing.T) {
	red, err := convert.Redact("password", "^ssn")
	require.NoError(t, err)
	ctx := context.Background()

	for key, want := range map[string]any{
		"user_password": convert.Mask,
		"ssn_number":    convert.Mask,
		"my_ssn":        "value",
		"username":      "value",
	} {
		out, err := red(ctx, "value", key, nil)
		require.NoError(t, err)
		assert.Equal(t, want, out, key)
	}

	_, err = convert.Redact("(")
	assert.Error(t, err)
}
