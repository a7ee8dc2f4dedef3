/*
Copyright 2024 Stefan Prodan

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cleanup

import (
	"errors"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// ErrorKind classifies the failures a binding can run into.
type ErrorKind string

const (
	// KindNotFound is set when the Secret referenced by a binding does not exist.
	KindNotFound ErrorKind = "NotFound"

	// KindInvalidBinding is set when the binding spec has a missing
	// or mistyped secretName.
	KindInvalidBinding ErrorKind = "InvalidBinding"

	// KindUnknown is set for any other failure.
	KindUnknown ErrorKind = "Unknown"
)

// Error is returned for a binding that could not be processed.
type Error struct {
	Kind    ErrorKind
	Binding Binding
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("%s not found", e.Binding.SecretRef())
	case KindInvalidBinding:
		return fmt.Sprintf("%s is invalid: %v", e.Binding, e.Err)
	default:
		return fmt.Sprintf("%s failed: %v", e.Binding, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the given error.
// Errors not produced by this package are classified by the API status they carry.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if apierrors.IsNotFound(err) {
		return KindNotFound
	}
	return KindUnknown
}

func newError(b Binding, err error) *Error {
	kind := KindUnknown
	if apierrors.IsNotFound(err) {
		kind = KindNotFound
	}
	return &Error{Kind: kind, Binding: b, Err: err}
}
