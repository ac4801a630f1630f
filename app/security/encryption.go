package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const keyFileName = "key.bin"

// GetKeyPath returns the path to the encryption key file.
func GetKeyPath() (string, error) {
	appData := os.Getenv("APPDATA")
	if appData == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine home directory: %w", err)
		}
		appData = filepath.Join(homeDir, ".config")
	}

	securityDir := filepath.Join(appData, "CounterPOS")
	if err := os.MkdirAll(securityDir, 0755); err != nil {
		return "", fmt.Errorf("could not create security directory: %w", err)
	}

	return filepath.Join(securityDir, keyFileName), nil
}

// GenerateKeyIfNotExists returns the application key, generating and
// persisting a new one on first use.
func GenerateKeyIfNotExists() ([]byte, error) {
	keyPath, err := GetKeyPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(keyPath); err == nil {
		key, err := os.ReadFile(keyPath)
		if err != nil {
			return nil, fmt.Errorf("could not read key file: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("invalid key size: expected 32 bytes, got %d", len(key))
		}
		return key, nil
	}

	key := make([]byte, 32) // AES-256
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("could not generate random key: %w", err)
	}

	if err := os.WriteFile(keyPath, key, 0600); err != nil {
		return nil, fmt.Errorf("could not write key file: %w", err)
	}

	return key, nil
}

// Encrypt encrypts plaintext using AES-GCM with the application key.
func Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	key, err := GenerateKeyIfNotExists()
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("could not create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("could not create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("could not generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt decrypts ciphertext using AES-GCM with the application key.
func Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	key, err := GenerateKeyIfNotExists()
	if err != nil {
		return "", err
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("could not decode ciphertext: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("could not create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("could not create GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, cipherData := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, cipherData, nil)
	if err != nil {
		return "", fmt.Errorf("could not decrypt: %w", err)
	}

	return string(plaintext), nil
}
