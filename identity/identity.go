// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package identity derives and validates the stable, globally unique keys
// that give syncable objects their durable identity within a collection.
//
// The key is a pure function of immutable object state: the same object
// must always yield the same key for as long as it lives. Applications
// typically assign the key at object creation time from one of the
// generators in this package and store it in a dedicated field.
package identity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidIdentity is returned when a derived key is empty or contains
// characters disallowed by the store key grammar (forward slashes, which
// most document stores treat as path separators, and null bytes).
var ErrInvalidIdentity = errors.New("invalid object identity")

// Keyed is the identity half of the syncable contract: any object that can
// report its own stable key.
type Keyed interface {
	// Identity returns the object's key, unique within its destination
	// collection and immutable for the object's lifetime.
	Identity() string
}

// Validate checks key against the store key grammar. It is a pure function
// with no side effects.
func Validate(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: key is empty", ErrInvalidIdentity)
	case strings.ContainsRune(key, '/'):
		return fmt.Errorf("%w: key %q contains a forward slash", ErrInvalidIdentity, key)
	case strings.ContainsRune(key, '\x00'):
		return fmt.Errorf("%w: key contains a null byte", ErrInvalidIdentity)
	default:
		return nil
	}
}

// KeyOf extracts and validates the key of obj.
func KeyOf(obj Keyed) (string, error) {
	key := obj.Identity()
	if err := Validate(key); err != nil {
		return "", err
	}
	return key, nil
}
