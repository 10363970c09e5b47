package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidshare/internal/config"
)

func TestImageKitSigner_Sign(t *testing.T) {
	signer := NewImageKitSigner(config.ImageKitConfig{
		PublicKey:   "public_test_key",
		PrivateKey:  "private_test_key",
		URLEndpoint: "https://ik.imagekit.io/demo",
	})
	signer.now = func() time.Time { return time.Unix(1700000000, 0) }
	signer.newToken = func() string { return "8f3c2a1e-0000-4000-8000-000000000001" }

	auth, err := signer.Sign(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ProviderImageKit, auth.Provider)
	assert.Equal(t, "8f3c2a1e-0000-4000-8000-000000000001", auth.Token)
	assert.Equal(t, int64(1700001800), auth.Expire)
	assert.Equal(t, "47a1bb59064fc40c5bdd87d499616fce00faf1e1", auth.Signature)
	assert.Equal(t, "public_test_key", auth.PublicKey)
	assert.Equal(t, "https://ik.imagekit.io/demo", auth.URLEndpoint)
}

func TestImageKitSigner_FreshTokenPerCall(t *testing.T) {
	signer := NewImageKitSigner(config.ImageKitConfig{PublicKey: "pub", PrivateKey: "priv", SignatureTTLSeconds: 60})

	first, err := signer.Sign(context.Background())
	require.NoError(t, err)
	second, err := signer.Sign(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
	assert.NotEqual(t, first.Signature, second.Signature)
	assert.InDelta(t, time.Now().Add(time.Minute).Unix(), first.Expire, 2)
}

func TestImageKitSigner_MissingCredentials(t *testing.T) {
	signer := NewImageKitSigner(config.ImageKitConfig{PublicKey: "pub"})

	_, err := signer.Sign(context.Background())
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestS3Signer_PresignsPut(t *testing.T) {
	signer, err := NewS3Signer(context.Background(), config.S3Config{
		Region:       "us-east-1",
		Bucket:       "videos",
		BaseEndpoint: "http://localhost:9000",
		AccessKey:    "minio",
		SecretKey:    "minio-secret",
	})
	require.NoError(t, err)

	auth, err := signer.Sign(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ProviderS3, auth.Provider)
	assert.True(t, strings.HasPrefix(auth.Key, "uploads/"))
	assert.True(t, strings.HasPrefix(auth.UploadURL, "http://localhost:9000/videos/uploads/"), auth.UploadURL)
	assert.Contains(t, auth.UploadURL, "X-Amz-Signature=")
	assert.Contains(t, auth.UploadURL, "X-Amz-Expires=900")
	assert.Greater(t, auth.Expire, time.Now().Unix())
}

func TestNewS3Signer_MissingCredentials(t *testing.T) {
	_, err := NewS3Signer(context.Background(), config.S3Config{Bucket: "videos"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestNew_SelectsProvider(t *testing.T) {
	signer, err := New(context.Background(), config.StorageConfig{Provider: config.StorageImageKit})
	require.NoError(t, err)
	assert.IsType(t, &ImageKitSigner{}, signer)

	signer, err = New(context.Background(), config.StorageConfig{Provider: config.StorageNone})
	require.NoError(t, err)
	_, err = signer.Sign(context.Background())
	assert.ErrorIs(t, err, ErrSignerDisabled)
}
