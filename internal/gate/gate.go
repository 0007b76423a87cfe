// Package gate implements the shared-PIN access check used in place of
// per-user authentication. There are three independent codes (entry,
// member, admin); verification is a boolean answer with no session or
// token semantics — callers own whatever they do with the result.
package gate

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type Kind string

const (
	KindEntry  Kind = "entry"
	KindMember Kind = "member"
	KindAdmin  Kind = "admin"
)

// ErrInvalidKind is returned for a kind outside entry/member/admin.
var ErrInvalidKind = errors.New("invalid pin kind")

// Ship-time fallbacks. Deployments must override these; they exist so a
// fresh install is usable before any configuration.
const (
	DefaultEntryPIN  = "1234"
	DefaultMemberPIN = "5678"
	DefaultAdminPIN  = "9999"
)

// Config holds the three shared secrets, typically from environment
// variables. Empty fields fall back to the defaults above.
type Config struct {
	EntryPIN  string
	MemberPIN string
	AdminPIN  string
}

// Gate verifies submitted codes. The configured secrets are bcrypt
// hashed at construction so the raw values are not retained in memory.
type Gate struct {
	hashes map[Kind][]byte
}

func New(cfg Config) (*Gate, error) {
	secrets := map[Kind]string{
		KindEntry:  cfg.EntryPIN,
		KindMember: cfg.MemberPIN,
		KindAdmin:  cfg.AdminPIN,
	}
	if secrets[KindEntry] == "" {
		secrets[KindEntry] = DefaultEntryPIN
	}
	if secrets[KindMember] == "" {
		secrets[KindMember] = DefaultMemberPIN
	}
	if secrets[KindAdmin] == "" {
		secrets[KindAdmin] = DefaultAdminPIN
	}

	hashes := make(map[Kind][]byte, len(secrets))
	for kind, secret := range secrets {
		hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash %s pin: %w", kind, err)
		}
		hashes[kind] = hash
	}

	return &Gate{hashes: hashes}, nil
}

// Verify reports whether code matches the configured secret for kind.
// An unknown kind returns ErrInvalidKind. There is no lockout or
// attempt counting.
func (g *Gate) Verify(kind Kind, code string) (bool, error) {
	hash, ok := g.hashes[kind]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(code)) == nil, nil
}
