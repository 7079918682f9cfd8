// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// TransportKind - why a peer request failed
type TransportKind int

// kinds of transport failure
const (
	Timeout TransportKind = iota
	ConnectionRefused
	Protocol
	Rejected
)

func (k TransportKind) String() string {
	switch k {
	case Timeout:
		return "timeout"
	case ConnectionRefused:
		return "connection refused"
	case Protocol:
		return "protocol error"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// TransportError - a failed request to a peer
//
// every kind except Rejected is a transient unreachable peer
type TransportError struct {
	URL  string
	Kind TransportKind
	Err  error
}

func (e *TransportError) Error() string {
	if nil == e.Err {
		return fmt.Sprintf("%s: %s", e.URL, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.URL, e.Kind, e.Err)
}

// Unwrap - the underlying cause
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is - match against the class sentinel
func (e *TransportError) Is(target error) bool {
	switch target {
	case ErrUnreachablePeer, ErrRecipientUnreachable:
		return Rejected != e.Kind
	case ErrRecipientRejected:
		return Rejected == e.Kind
	}
	return false
}

// As - expose the error class so IsErrTransient and IsErrProcess work
func (e *TransportError) As(target interface{}) bool {
	switch t := target.(type) {
	case *TransientError:
		if Rejected != e.Kind {
			*t = ErrUnreachablePeer
			return true
		}
	case *ProcessError:
		if Rejected == e.Kind {
			*t = ErrRecipientRejected
			return true
		}
	}
	return false
}

// RecipientFailure - cause of a failed delivery to one recipient
type RecipientFailure struct {
	Recipient string
	Err       error
}

// PublishError - a payload was not distributed to every recipient
type PublishError struct {
	Digest     string
	Recipients int
	Failures   []RecipientFailure
}

// NewPublishError - collect failures in a stable order
func NewPublishError(digest string, recipients int, failures map[string]error) *PublishError {
	e := &PublishError{
		Digest:     digest,
		Recipients: recipients,
		Failures:   make([]RecipientFailure, 0, len(failures)),
	}
	for recipient, err := range failures {
		e.Failures = append(e.Failures, RecipientFailure{Recipient: recipient, Err: err})
	}
	sort.Slice(e.Failures, func(i, j int) bool {
		return e.Failures[i].Recipient < e.Failures[j].Recipient
	})
	return e
}

func (e *PublishError) Error() string {
	s := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		s = append(s, f.Recipient+": "+f.Err.Error())
	}
	return fmt.Sprintf("publish %s failed for %d of %d recipients: %s", e.Digest, len(e.Failures), e.Recipients, strings.Join(s, "; "))
}

// Is - true if any recipient failed with the target error
func (e *PublishError) Is(target error) bool {
	for _, f := range e.Failures {
		if errors.Is(f.Err, target) {
			return true
		}
	}
	return false
}

// FailureFor - cause for a given recipient, nil if it did not fail
func (e *PublishError) FailureFor(recipient string) error {
	for _, f := range e.Failures {
		if f.Recipient == recipient {
			return f.Err
		}
	}
	return nil
}
