package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"

	"vidshare/internal/config"
)

const (
	ProviderImageKit = "imagekit"

	defaultImageKitTTL = 30 * time.Minute
)

// ImageKitSigner produces ImageKit client-upload parameters:
// signature = hex(HMAC-SHA1(privateKey, token + expire)).
type ImageKitSigner struct {
	publicKey   string
	privateKey  string
	urlEndpoint string
	ttl         time.Duration
	now         func() time.Time
	newToken    func() string
}

func NewImageKitSigner(cfg config.ImageKitConfig) *ImageKitSigner {
	ttl := time.Duration(cfg.SignatureTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultImageKitTTL
	}
	return &ImageKitSigner{
		publicKey:   cfg.PublicKey,
		privateKey:  cfg.PrivateKey,
		urlEndpoint: cfg.URLEndpoint,
		ttl:         ttl,
		now:         time.Now,
		newToken:    uuid.NewString,
	}
}

func (s *ImageKitSigner) Sign(_ context.Context) (*UploadAuth, error) {
	if s.privateKey == "" || s.publicKey == "" {
		return nil, ErrMissingCredentials
	}

	token := s.newToken()
	expire := s.now().Add(s.ttl).Unix()

	return &UploadAuth{
		Provider:    ProviderImageKit,
		Token:       token,
		Expire:      expire,
		Signature:   imageKitSignature(s.privateKey, token, expire),
		PublicKey:   s.publicKey,
		URLEndpoint: s.urlEndpoint,
	}, nil
}

func imageKitSignature(privateKey, token string, expire int64) string {
	mac := hmac.New(sha1.New, []byte(privateKey))
	mac.Write([]byte(token + strconv.FormatInt(expire, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
