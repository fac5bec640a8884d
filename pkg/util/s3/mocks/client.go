// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package mock_s3

import (
	"context"

	"github.com/keshava/quilt/pkg/util/s3"
)

// Client is a mock s3 client serving canned responses and recording call
// counts. The optional func hooks take precedence over the canned values.
type Client struct {
	HeadCalls  int
	FetchCalls int

	Info    *s3.ObjectInfo
	Content []byte

	HeadErr  error
	FetchErr error

	HeadFn  func(ref s3.ObjectRef) (*s3.ObjectInfo, error)
	FetchFn func(ref s3.ObjectRef, limit int64) ([]byte, error)
}

var _ s3.Client = &Client{}

func (c *Client) Head(_ context.Context, ref s3.ObjectRef) (*s3.ObjectInfo, error) {
	c.HeadCalls++
	if c.HeadFn != nil {
		return c.HeadFn(ref)
	}
	if c.HeadErr != nil {
		return nil, c.HeadErr
	}
	return c.Info, nil
}

func (c *Client) Fetch(_ context.Context, ref s3.ObjectRef, limit int64) ([]byte, error) {
	c.FetchCalls++
	if c.FetchFn != nil {
		return c.FetchFn(ref, limit)
	}
	if c.FetchErr != nil {
		return nil, c.FetchErr
	}
	return c.Content, nil
}
