// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"encoding/json"
	"net/url"

	"github.com/pkg/errors"
)

const (
	// TestEvent is the initial message the notification queue emits after
	// subscription. It is consumed and ignored.
	TestEvent = "s3:TestEvent"

	// ObjectDelete signifies that the object is truly deleted. Not to be
	// confused with ObjectRemoved:DeleteMarkerCreated, which appears in
	// versioned buckets and flows through the non-delete path.
	ObjectDelete = "ObjectRemoved:Delete"
)

// messageWrapper is the notification wrapper within an envelope record body.
type messageWrapper struct {
	Message string `json:"Message"`
}

// ParseEnvelope decodes the top-level queue envelope. A failure here is fatal
// for the whole invocation since there is no safe partial interpretation.
func ParseEnvelope(data []byte) (*Envelope, error) {
	envelope := &Envelope{}
	if err := json.Unmarshal(data, envelope); err != nil {
		return nil, errors.Wrap(err, "unable to parse notification envelope")
	}
	return envelope, nil
}

// DecodeMessage unwraps the record body into a notification message.
func (r EnvelopeRecord) DecodeMessage() (*Message, error) {
	wrapper := &messageWrapper{}
	if err := json.Unmarshal([]byte(r.Body), wrapper); err != nil {
		return nil, errors.Wrap(err, "unable to parse record body")
	}

	message := &Message{}
	if err := json.Unmarshal([]byte(wrapper.Message), message); err != nil {
		return nil, errors.Wrap(err, "unable to parse notification message")
	}
	return message, nil
}

// Unquote percent-decodes a notification field such as a bucket name, etag or
// version id.
func Unquote(value string) (string, error) {
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return "", errors.Wrapf(err, "unable to decode %q", value)
	}
	return decoded, nil
}

// UnquotePlus decodes an object key. In the grand tradition of IE6, s3 events
// turn spaces into '+', so keys additionally need '+'-to-space normalization
// on top of percent-decoding.
func UnquotePlus(key string) (string, error) {
	decoded, err := url.QueryUnescape(key)
	if err != nil {
		return "", errors.Wrapf(err, "unable to decode key %q", key)
	}
	return decoded, nil
}
