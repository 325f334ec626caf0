package service

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	cryptoDomain "github.com/pollsay/pollsay/internal/crypto/domain"
)

type encryptionService struct {
	aeadManager AEADManager
	keyWrapper  KeyWrapper
	payloadAlg  cryptoDomain.Algorithm
	random      io.Reader
}

// NewEncryptionService creates an EncryptionService. payloadAlg selects the cipher of new
// payload envelopes; envelopes of either cipher can always be decrypted.
func NewEncryptionService(
	aeadManager AEADManager,
	keyWrapper KeyWrapper,
	payloadAlg cryptoDomain.Algorithm,
) EncryptionService {
	if payloadAlg == "" {
		payloadAlg = cryptoDomain.AESGCM
	}
	return &encryptionService{
		aeadManager: aeadManager,
		keyWrapper:  keyWrapper,
		payloadAlg:  payloadAlg,
		random:      rand.Reader,
	}
}

func (s *encryptionService) GenerateOrgKeyPair() (cryptoDomain.OrgKeyPair, error) {
	return s.keyWrapper.GenerateKeyPair()
}

func (s *encryptionService) GenerateFormKey() (*cryptoDomain.FormKey, error) {
	key := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(s.random, key); err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyGeneration, err)
	}
	return cryptoDomain.NewFormKey(key)
}

func (s *encryptionService) EncryptFormKey(exportedFormKey, orgPublicKey string) (string, error) {
	formKey, err := cryptoDomain.ImportFormKey(exportedFormKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", cryptoDomain.ErrKeyWrap, err)
	}
	defer formKey.Close()

	wrapped, err := s.keyWrapper.Wrap(formKey.Key, orgPublicKey)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(wrapped), nil
}

func (s *encryptionService) DecryptFormKey(encryptedFormKey, orgPrivateKey string) (string, error) {
	wrapped, err := base64.StdEncoding.DecodeString(encryptedFormKey)
	if err != nil {
		return "", cryptoDomain.ErrKeyUnwrap
	}

	key, err := s.keyWrapper.Unwrap(wrapped, orgPrivateKey)
	if err != nil {
		return "", err
	}

	formKey, err := cryptoDomain.NewFormKey(key)
	if err != nil {
		cryptoDomain.Zero(key)
		return "", cryptoDomain.ErrKeyUnwrap
	}
	defer formKey.Close()

	return formKey.Exported, nil
}

func (s *encryptionService) EncryptFormData(payload any, exportedFormKey string) (string, error) {
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", cryptoDomain.ErrPayloadEncoding, err)
	}

	formKey, err := cryptoDomain.ImportFormKey(exportedFormKey)
	if err != nil {
		return "", err
	}
	defer formKey.Close()

	cipher, err := s.aeadManager.CreateCipher(formKey.Key, s.payloadAlg)
	if err != nil {
		return "", err
	}

	ciphertext, nonce, err := cipher.Encrypt(plaintext, nil)
	if err != nil {
		return "", err
	}

	return cryptoDomain.PayloadEnvelope{Algorithm: s.payloadAlg, IV: nonce, Data: ciphertext}.String(), nil
}

func (s *encryptionService) DecryptFormDataRaw(envelope, exportedFormKey string) ([]byte, error) {
	e, err := cryptoDomain.ParsePayloadEnvelope(envelope)
	if errors.Is(err, cryptoDomain.ErrCorruptCiphertext) {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrPayloadDecrypt, err)
	}
	if err != nil {
		return nil, err
	}

	formKey, err := cryptoDomain.ImportFormKey(exportedFormKey)
	if err != nil {
		return nil, err
	}
	defer formKey.Close()

	cipher, err := s.aeadManager.CreateCipher(formKey.Key, e.Cipher())
	if err != nil {
		return nil, err
	}

	plaintext, err := cipher.Decrypt(e.Data, e.IV, nil)
	if err != nil {
		return nil, cryptoDomain.ErrPayloadDecrypt
	}
	return plaintext, nil
}

func (s *encryptionService) DecryptFormData(envelope, exportedFormKey string, out any) error {
	plaintext, err := s.DecryptFormDataRaw(envelope, exportedFormKey)
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(plaintext)

	if err := json.Unmarshal(plaintext, out); err != nil {
		return fmt.Errorf("%w: %v", cryptoDomain.ErrPayloadEncoding, err)
	}
	return nil
}

func (s *encryptionService) EncryptWithPassword(plaintext, password string) (string, error) {
	salt := make([]byte, cryptoDomain.SaltSize)
	if _, err := io.ReadFull(s.random, salt); err != nil {
		return "", fmt.Errorf("%w: salt: %v", cryptoDomain.ErrKeyGeneration, err)
	}

	key := DeriveKey([]byte(password), salt, cryptoDomain.PBKDF2Iterations)
	defer cryptoDomain.Zero(key)

	cipher, err := NewAESGCM(key)
	if err != nil {
		return "", err
	}

	ciphertext, nonce, err := cipher.Encrypt([]byte(plaintext), nil)
	if err != nil {
		return "", err
	}

	return cryptoDomain.PasswordEnvelope{Salt: salt, IV: nonce, Data: ciphertext}.String(), nil
}

func (s *encryptionService) DecryptWithPassword(envelope, password string) (string, error) {
	e, err := cryptoDomain.ParsePasswordEnvelope(envelope)
	if errors.Is(err, cryptoDomain.ErrCorruptCiphertext) {
		return "", cryptoDomain.ErrPasswordDecrypt
	}
	if err != nil {
		return "", err
	}

	key := DeriveKey([]byte(password), e.Salt, cryptoDomain.PBKDF2Iterations)
	defer cryptoDomain.Zero(key)

	cipher, err := NewAESGCM(key)
	if err != nil {
		return "", err
	}

	plaintext, err := cipher.Decrypt(e.Data, e.IV, nil)
	if err != nil {
		return "", cryptoDomain.ErrPasswordDecrypt
	}
	return string(plaintext), nil
}

func (s *encryptionService) EncryptUserProfile(profile any, keyMaterial string) (string, error) {
	plaintext, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("%w: %v", cryptoDomain.ErrPayloadEncoding, err)
	}
	defer cryptoDomain.Zero(plaintext)

	return s.EncryptWithPassword(string(plaintext), keyMaterial)
}

func (s *encryptionService) DecryptUserProfile(envelope, keyMaterial string, out any) error {
	plaintext, err := s.DecryptWithPassword(envelope, keyMaterial)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(plaintext), out); err != nil {
		return fmt.Errorf("%w: %v", cryptoDomain.ErrPayloadEncoding, err)
	}
	return nil
}

func (s *encryptionService) GeneratePseudonym(email, orgID string) string {
	return GeneratePseudonym(email, orgID)
}
