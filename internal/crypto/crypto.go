// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package crypto // import "website.app/v2/internal/crypto"

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// HashFromBytes returns a short non-cryptographic hash of the given data,
// suitable for ETags and cache busting.
func HashFromBytes(value []byte) string {
	return strconv.FormatUint(xxhash.Sum64(value), 16)
}

// GenerateRandomBytes returns random bytes.
func GenerateRandomBytes(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// GenerateRandomString returns a random hex string of size*2 characters.
func GenerateRandomString(size int) string {
	return hex.EncodeToString(GenerateRandomBytes(size))
}
