// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError
type TransientError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised     = ExistsError("already initialised")
	ErrCertificateFileExists  = ExistsError("certificate file already exists")
	ErrDigestMismatch         = InvalidError("digest mismatch")
	ErrEnclaveUnavailable     = ProcessError("enclave unavailable")
	ErrInvalidDigest          = InvalidError("invalid digest")
	ErrInvalidDnsTxtRecord    = InvalidError("invalid dns txt record")
	ErrInvalidFingerprint     = InvalidError("invalid fingerprint")
	ErrInvalidKeyFile         = InvalidError("invalid key file")
	ErrInvalidLoggerChannel   = InvalidError("invalid logger channel")
	ErrInvalidNodeDomain      = InvalidError("invalid node domain")
	ErrInvalidPayload         = InvalidError("invalid payload")
	ErrInvalidPrivateKey      = InvalidError("invalid private key")
	ErrInvalidPublicKey       = InvalidError("invalid public key")
	ErrInvalidResendType      = InvalidError("invalid resend type")
	ErrInvalidURL             = InvalidError("invalid url")
	ErrKeyFileAlreadyExists   = ExistsError("key file already exists")
	ErrKeyNotManaged          = NotFoundError("key not managed by this node")
	ErrMissingParameters      = InvalidError("missing parameters")
	ErrNoRecipients           = InvalidError("no recipients")
	ErrNotInitialised         = NotFoundError("not initialised")
	ErrPasswordRequired       = InvalidError("password required for locked key")
	ErrRateLimiting           = InvalidError("rate limiting")
	ErrRecipientRejected      = ProcessError("recipient rejected")
	ErrRecipientUnreachable   = TransientError("recipient unreachable")
	ErrRecipientUnresolved    = NotFoundError("recipient unresolved")
	ErrStorageConflict        = RecordError("storage conflict")
	ErrStorageVersion         = RecordError("incompatible storage version")
	ErrTransactionNotFound    = NotFoundError("transaction not found")
	ErrUnreachablePeer        = TransientError("unreachable peer")
	ErrUnsupportedKeyFileType = InvalidError("unsupported key file type")
	ErrWrongPassword          = InvalidError("wrong password")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string    { return string(e) }
func (e InvalidError) Error() string   { return string(e) }
func (e NotFoundError) Error() string  { return string(e) }
func (e ProcessError) Error() string   { return string(e) }
func (e RecordError) Error() string    { return string(e) }
func (e TransientError) Error() string { return string(e) }

// determine the class of an error, looking through any wrapping
func IsErrExists(e error) bool    { var x ExistsError; return errors.As(e, &x) }
func IsErrInvalid(e error) bool   { var x InvalidError; return errors.As(e, &x) }
func IsErrNotFound(e error) bool  { var x NotFoundError; return errors.As(e, &x) }
func IsErrProcess(e error) bool   { var x ProcessError; return errors.As(e, &x) }
func IsErrRecord(e error) bool    { var x RecordError; return errors.As(e, &x) }
func IsErrTransient(e error) bool { var x TransientError; return errors.As(e, &x) }
