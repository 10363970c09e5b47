package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"vidshare/internal/storage"
)

var ErrUploadSignature = errors.New("upload signature unavailable")

type UploadService struct {
	signer storage.UploadSigner
}

func NewUploadService(signer storage.UploadSigner) *UploadService {
	if signer == nil {
		signer = storage.Disabled()
	}
	return &UploadService{signer: signer}
}

// Signature returns fresh upload parameters. The underlying cause of a
// failure is logged here and only ErrUploadSignature travels further.
func (s *UploadService) Signature(ctx context.Context) (*storage.UploadAuth, error) {
	auth, err := s.signer.Sign(ctx)
	if err != nil {
		log.Error().Err(err).Msg("sign upload failed")
		return nil, ErrUploadSignature
	}
	return auth, nil
}
