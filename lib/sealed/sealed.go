// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"filippo.io/age"
)

// Seal encrypts plaintext to the workspace's age public key (age1...
// format) and returns the ciphertext as a standard base64 string
// suitable for a JSON request field.
//
// Plaintext is typically borrowed from a secret buffer; Seal does not
// retain or zero it.
func Seal(plaintext []byte, recipientKey string) (string, error) {
	recipient, err := age.ParseX25519Recipient(recipientKey)
	if err != nil {
		return "", fmt.Errorf("parsing workspace sealing key: %w", err)
	}

	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, recipient)
	if err != nil {
		return "", fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return "", fmt.Errorf("writing plaintext to age encryptor: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalizing age encryption: %w", err)
	}

	return base64.StdEncoding.EncodeToString(ciphertext.Bytes()), nil
}

// ValidateRecipient checks that a sealing key is a valid age x25519
// public key. Used to validate the key a workspace publishes before
// attempting to seal anything to it.
func ValidateRecipient(recipientKey string) error {
	if _, err := age.ParseX25519Recipient(recipientKey); err != nil {
		return fmt.Errorf("invalid workspace sealing key: %w", err)
	}
	return nil
}
