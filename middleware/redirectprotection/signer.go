// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package redirectprotection

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/auth"
)

// MinSecretLength is the minimum length of a signing secret in bytes.
const MinSecretLength = 32

// ErrWeakSecret is returned by [NewSigner] for a secret that is too short.
var ErrWeakSecret = errors.New("redirect signing secret is too short")

const keyInfo = "snicco redirect protection v1"

// Signer signs redirect tokens with HMAC-SHA-512/256. The key is derived
// from the secret with HKDF-SHA-256.
type Signer struct {
	key [auth.KeySize]byte
}

// NewSigner derives a signing key from secret.
func NewSigner(secret []byte) (*Signer, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", ErrWeakSecret, len(secret), MinSecretLength)
	}
	s := &Signer{}
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(keyInfo)), s.key[:]); err != nil {
		return nil, fmt.Errorf("derive redirect signing key: %w", err)
	}
	return s, nil
}

// Sign returns the hex signature over intended and expires.
func (s *Signer) Sign(intended string, expires int64) string {
	sum := auth.Sum(tokenMessage(intended, expires), &s.key)
	return hex.EncodeToString(sum[:])
}

// Verify reports whether signature was produced by [Signer.Sign] for
// intended and expires. It does not check the expiry.
func (s *Signer) Verify(intended string, expires int64, signature string) bool {
	digest, err := hex.DecodeString(signature)
	if err != nil || len(digest) != auth.Size {
		return false
	}
	return auth.Verify(digest, tokenMessage(intended, expires), &s.key)
}

func tokenMessage(intended string, expires int64) []byte {
	b := make([]byte, 0, len(intended)+21)
	b = strconv.AppendInt(b, expires, 10)
	b = append(b, '|')
	return append(b, intended...)
}
