// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"github.com/pkg/errors"
)

// Validate validates the indexer configuration.
func (c *Config) Validate() error {
	if c.Elasticsearch.Endpoint == "" {
		return errors.New("elasticsearch endpoint has to be defined")
	}
	if c.S3.Server.Endpoint == "" {
		return errors.New("s3 endpoint has to be defined")
	}
	if c.Indexer.DocSizeLimit < 0 {
		return errors.New("docSizeLimit must not be negative")
	}
	if c.Indexer.QueueLimit < 0 {
		return errors.New("queueLimit must not be negative")
	}
	return nil
}
