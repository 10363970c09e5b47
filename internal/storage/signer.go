// Package storage issues short-lived upload authorizations that let a client
// upload straight to the media CDN without seeing the server's private key.
package storage

import (
	"context"
	"errors"
)

var (
	ErrMissingCredentials = errors.New("upload signer credentials are missing")
	ErrSignerDisabled     = errors.New("upload signing is disabled")
)

// UploadAuth is what the client attaches to its direct upload. Which fields
// are set depends on the provider.
type UploadAuth struct {
	Provider string `json:"provider"`

	// ImageKit
	Token     string `json:"token,omitempty"`
	Signature string `json:"signature,omitempty"`

	// S3
	UploadURL string `json:"uploadUrl,omitempty"`
	Key       string `json:"key,omitempty"`

	Expire      int64  `json:"expire"`
	PublicKey   string `json:"publicKey,omitempty"`
	URLEndpoint string `json:"urlEndpoint,omitempty"`
}

type UploadSigner interface {
	Sign(ctx context.Context) (*UploadAuth, error)
}

type disabledSigner struct{}

// Disabled is used when no storage provider is configured.
func Disabled() UploadSigner { return disabledSigner{} }

func (disabledSigner) Sign(context.Context) (*UploadAuth, error) {
	return nil, ErrSignerDisabled
}
