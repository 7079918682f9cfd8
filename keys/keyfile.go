// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keys

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	argon2 "github.com/bitmark-inc/go-argon2"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/util"
)

// file name suffixes in a key directory
const (
	PublicKeySuffix  = ".pub"
	PrivateKeySuffix = ".key"
)

// private key file types
const (
	TypeUnlocked   = "unlocked"
	TypeArgon2SBox = "argon2sbox"
)

const (
	saltSize  = 16
	nonceSize = 24
)

// ArgonOptions - stored so a file stays readable if defaults change
type ArgonOptions struct {
	Variant     string `json:"variant"`
	Memory      int    `json:"memory"`
	Iterations  int    `json:"iterations"`
	Parallelism int    `json:"parallelism"`
}

type keyData struct {
	Bytes       string        `json:"bytes,omitempty"`
	ArgonSalt   string        `json:"asalt,omitempty"`
	ArgonOpts   *ArgonOptions `json:"aopts,omitempty"`
	SecretBox   string        `json:"sbox,omitempty"`
	SecretNonce string        `json:"snonce,omitempty"`
}

type privateKeyFile struct {
	Type string  `json:"type"`
	Data keyData `json:"data"`
}

var defaultArgonOptions = ArgonOptions{
	Variant:     "i",
	Memory:      1 << 16,
	Iterations:  5,
	Parallelism: 4,
}

// GenerateKeyPair - new random NaCl box key pair
func GenerateKeyPair() (*KeyPair, error) {
	public, private, err := box.GenerateKey(rand.Reader)
	if nil != err {
		return nil, err
	}
	return &KeyPair{
		Public:  PublicKey(*public),
		Private: PrivateKey(*private),
	}, nil
}

// WriteKeyPair - create name.pub and name.key in directory
//
// an empty password writes an unlocked private key
func WriteKeyPair(directory string, name string, pair *KeyPair, password string) (string, string, error) {
	publicFile := filepath.Join(directory, name+PublicKeySuffix)
	privateFile := filepath.Join(directory, name+PrivateKeySuffix)

	if _, found := util.AnyFileExists(publicFile, privateFile); found {
		return "", "", fault.ErrKeyFileAlreadyExists
	}

	data, err := encodePrivateKey(pair.Private, password)
	if nil != err {
		return "", "", err
	}

	// private key first so a watcher seeing the .pub can load both
	if err := ioutil.WriteFile(privateFile, data, 0600); nil != err {
		return "", "", err
	}
	if err := ioutil.WriteFile(publicFile, []byte(pair.Public.String()), 0644); nil != err {
		_ = os.Remove(privateFile)
		return "", "", err
	}
	return publicFile, privateFile, nil
}

// ReadPublicKey - read a .pub file
func ReadPublicKey(fileName string) (PublicKey, error) {
	b, err := ioutil.ReadFile(fileName)
	if nil != err {
		return PublicKey{}, err
	}
	return ParsePublicKey(string(b))
}

// ReadKeyPair - read a .pub file and its matching .key file
func ReadKeyPair(publicFile string, password string) (*KeyPair, error) {
	public, err := ReadPublicKey(publicFile)
	if nil != err {
		return nil, err
	}

	privateFile := strings.TrimSuffix(publicFile, PublicKeySuffix) + PrivateKeySuffix
	data, err := ioutil.ReadFile(privateFile)
	if nil != err {
		return nil, err
	}
	private, err := decodePrivateKey(data, password)
	if nil != err {
		return nil, err
	}

	pair := &KeyPair{
		Public:  public,
		Private: private,
	}
	if !pair.matches() {
		return nil, fault.ErrInvalidKeyFile
	}
	return pair, nil
}

// ReadDirectory - every key pair whose .pub file is in directory
func ReadDirectory(directory string, password string) ([]*KeyPair, error) {
	names, err := filepath.Glob(filepath.Join(directory, "*"+PublicKeySuffix))
	if nil != err {
		return nil, err
	}
	pairs := make([]*KeyPair, 0, len(names))
	for _, name := range names {
		pair, err := ReadKeyPair(name, password)
		if nil != err {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// check that the private key generates the public key
func (pair *KeyPair) matches() bool {
	var public [KeySize]byte
	private := [KeySize]byte(pair.Private)
	curve25519.ScalarBaseMult(&public, &private)
	return PublicKey(public) == pair.Public
}

func encodePrivateKey(private PrivateKey, password string) ([]byte, error) {
	if "" == password {
		return json.MarshalIndent(privateKeyFile{
			Type: TypeUnlocked,
			Data: keyData{
				Bytes: base64.StdEncoding.EncodeToString(private[:]),
			},
		}, "", "  ")
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); nil != err {
		return nil, err
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); nil != err {
		return nil, err
	}

	opts := defaultArgonOptions
	secret, err := passwordKey(password, salt, &opts)
	if nil != err {
		return nil, err
	}
	sealed := secretbox.Seal(nil, private[:], &nonce, secret)

	return json.MarshalIndent(privateKeyFile{
		Type: TypeArgon2SBox,
		Data: keyData{
			ArgonSalt:   base64.StdEncoding.EncodeToString(salt),
			ArgonOpts:   &opts,
			SecretBox:   base64.StdEncoding.EncodeToString(sealed),
			SecretNonce: base64.StdEncoding.EncodeToString(nonce[:]),
		},
	}, "", "  ")
}

func decodePrivateKey(data []byte, password string) (PrivateKey, error) {
	var file privateKeyFile
	if err := json.Unmarshal(data, &file); nil != err {
		return PrivateKey{}, fault.ErrInvalidKeyFile
	}

	switch file.Type {
	case TypeUnlocked:
		b, err := base64.StdEncoding.DecodeString(file.Data.Bytes)
		if nil != err {
			return PrivateKey{}, fault.ErrInvalidKeyFile
		}
		return PrivateKeyFromBytes(b)

	case TypeArgon2SBox:
		if "" == password {
			return PrivateKey{}, fault.ErrPasswordRequired
		}
		salt, err := base64.StdEncoding.DecodeString(file.Data.ArgonSalt)
		if nil != err {
			return PrivateKey{}, fault.ErrInvalidKeyFile
		}
		sealed, err := base64.StdEncoding.DecodeString(file.Data.SecretBox)
		if nil != err {
			return PrivateKey{}, fault.ErrInvalidKeyFile
		}
		n, err := base64.StdEncoding.DecodeString(file.Data.SecretNonce)
		if nil != err || nonceSize != len(n) {
			return PrivateKey{}, fault.ErrInvalidKeyFile
		}
		var nonce [nonceSize]byte
		copy(nonce[:], n)

		opts := file.Data.ArgonOpts
		if nil == opts {
			opts = &defaultArgonOptions
		}
		secret, err := passwordKey(password, salt, opts)
		if nil != err {
			return PrivateKey{}, err
		}
		b, ok := secretbox.Open(nil, sealed, &nonce, secret)
		if !ok {
			return PrivateKey{}, fault.ErrWrongPassword
		}
		return PrivateKeyFromBytes(b)

	default:
		return PrivateKey{}, fault.ErrUnsupportedKeyFileType
	}
}

// derive the secretbox key from the password
func passwordKey(password string, salt []byte, opts *ArgonOptions) (*[KeySize]byte, error) {
	mode := argon2.ModeArgon2i
	switch opts.Variant {
	case "d":
		mode = argon2.ModeArgon2d
	case "id":
		mode = argon2.ModeArgon2id
	}

	ctx := &argon2.Context{
		Iterations:  opts.Iterations,
		Memory:      opts.Memory,
		Parallelism: opts.Parallelism,
		HashLen:     KeySize,
		Mode:        mode,
		Version:     argon2.Version13,
	}

	hash, err := argon2.Hash(ctx, []byte(password), salt)
	if nil != err {
		return nil, err
	}
	var key [KeySize]byte
	copy(key[:], hash)
	return &key, nil
}
