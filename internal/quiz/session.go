package quiz

import (
	"encoding/json"

	"github.com/saulo-duarte/learnpath-lambda/internal/config"
)

// Sealer encrypts and authenticates session tokens.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(token string) (string, error)
}

// CryptoSealer uses the process AES-GCM key from config.InitCrypto.
type CryptoSealer struct{}

func (CryptoSealer) Seal(plaintext string) (string, error) { return config.Encrypt(plaintext) }
func (CryptoSealer) Open(token string) (string, error)     { return config.Decrypt(token) }

// session pins a submission to the quiz that was actually generated, so a
// later change to the learner's education level cannot move the cache key.
type session struct {
	Key      string `json:"k"`
	UserID   string `json:"u"`
	Topic    string `json:"t"`
	Level    Level  `json:"l"`
	IssuedAt int64  `json:"iat"`
}

func sealSession(s Sealer, sess session) (string, error) {
	b, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	return s.Seal(string(b))
}

func openSession(s Sealer, token, userID string) (*session, error) {
	if s == nil {
		return nil, ErrInvalidSession
	}
	plain, err := s.Open(token)
	if err != nil {
		return nil, ErrInvalidSession
	}
	var sess session
	if err := json.Unmarshal([]byte(plain), &sess); err != nil {
		return nil, ErrInvalidSession
	}
	if sess.Key == "" || sess.UserID != userID {
		return nil, ErrInvalidSession
	}
	return &sess, nil
}
