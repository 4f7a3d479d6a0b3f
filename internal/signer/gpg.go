package signer

import (
	"crypto"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/sassoftware/go-rpmutils"
	"github.com/sirupsen/logrus"
)

// RPMSigner signs built RPM artifacts with a GPG key, replacing any
// external gpg or rpmsign invocation
type RPMSigner struct {
	entity *openpgp.Entity
}

// NewRPMSigner creates a signer from a private key file. keyName selects a
// key by uid when the ring holds several; empty picks the first.
func NewRPMSigner(keyPath, keyName, passphrase string) (*RPMSigner, error) {
	if keyPath == "" {
		return nil, fmt.Errorf("key path is empty")
	}

	// Read private key file
	keyFile, err := os.Open(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file: %w", err)
	}
	defer keyFile.Close()

	// Try to parse as armored key first
	entityList, err := openpgp.ReadArmoredKeyRing(keyFile)
	if err != nil {
		// Try as binary key
		keyFile.Seek(0, 0)
		entityList, err = openpgp.ReadKeyRing(keyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read key: %w", err)
		}
	}

	if len(entityList) == 0 {
		return nil, fmt.Errorf("no keys found in key file")
	}

	entity, err := selectEntity(entityList, keyName)
	if err != nil {
		return nil, err
	}
	if entity.PrivateKey == nil {
		return nil, fmt.Errorf("key %s carries no private key material", keyPath)
	}

	// Decrypt private key if passphrase provided
	if passphrase != "" {
		if entity.PrivateKey.Encrypted {
			err = entity.PrivateKey.Decrypt([]byte(passphrase))
			if err != nil {
				return nil, fmt.Errorf("failed to decrypt private key: %w", err)
			}
		}

		// Decrypt subkeys as well
		for _, subkey := range entity.Subkeys {
			if subkey.PrivateKey != nil && subkey.PrivateKey.Encrypted {
				err = subkey.PrivateKey.Decrypt([]byte(passphrase))
				if err != nil {
					return nil, fmt.Errorf("failed to decrypt subkey: %w", err)
				}
			}
		}
	}

	return &RPMSigner{entity: entity}, nil
}

// selectEntity picks the keyring entity whose uid matches name
func selectEntity(entityList openpgp.EntityList, name string) (*openpgp.Entity, error) {
	if name == "" {
		return entityList[0], nil
	}
	for _, entity := range entityList {
		for _, identity := range entity.Identities {
			if strings.Contains(identity.Name, name) {
				return entity, nil
			}
		}
	}
	return nil, fmt.Errorf("no key matching %q in keyring", name)
}

// SignPackage rewrites the RPM at path with header and payload signatures
func (s *RPMSigner) SignPackage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open artifact: %w", err)
	}
	defer f.Close()

	opts := &rpmutils.SignatureOptions{
		Hash:         crypto.SHA256,
		CreationTime: time.Now().UTC(),
	}

	signed := path + ".signed"
	if _, err := rpmutils.SignRpmFile(f, signed, s.entity.PrivateKey, opts); err != nil {
		return fmt.Errorf("failed to sign artifact: %w", err)
	}

	if err := os.Rename(signed, path); err != nil {
		return fmt.Errorf("failed to replace artifact with signed copy: %w", err)
	}

	logrus.Infof("Signed %s with key %s", path, s.KeyID())
	return nil
}

// KeyID returns the short hex id of the signing key
func (s *RPMSigner) KeyID() string {
	return fmt.Sprintf("%016X", s.entity.PrivateKey.KeyId)
}
