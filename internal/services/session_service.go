package services

import (
	"golang.org/x/crypto/bcrypt"

	apperrors "dispend/internal/errors"
)

// sessionService checks the owner passphrase for remote access. The ledger
// has a single owner, so the only credential is a passphrase whose bcrypt
// hash comes from configuration.
type sessionService struct {
	passphraseHash []byte
}

// NewSessionService creates a new SessionServicer. An empty passphraseHash
// disables authentication.
func NewSessionService(passphraseHash string) SessionServicer {
	return &sessionService{passphraseHash: []byte(passphraseHash)}
}

// Enabled reports whether a passphrase is configured.
func (s *sessionService) Enabled() bool {
	return len(s.passphraseHash) > 0
}

// VerifyPassphrase compares passphrase against the configured hash.
func (s *sessionService) VerifyPassphrase(passphrase string) error {
	if !s.Enabled() {
		return apperrors.ErrAuthNotConfigured
	}
	if err := bcrypt.CompareHashAndPassword(s.passphraseHash, []byte(passphrase)); err != nil {
		return apperrors.ErrInvalidCredentials
	}
	return nil
}
