// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/keshava/quilt/pkg/apis/config"
)

// ConfigFromFlags builds the indexer configuration from the root command's
// persistent flags. The elasticsearch endpoint falls back to the ES_HOST
// environment variable; all remaining credentials stay with the ambient
// execution identity.
func ConfigFromFlags(cmd *cobra.Command) (*config.Config, error) {
	flagValue := func(name string) string {
		return cmd.Flag(name).Value.String()
	}

	cfg := &config.Config{
		Elasticsearch: config.ElasticSearch{
			Endpoint: flagValue("es-endpoint"),
			Username: flagValue("es-user"),
			Password: flagValue("es-password"),
		},
		S3: config.S3{
			Server: config.S3Server{
				Endpoint: flagValue("s3-endpoint"),
				SSL:      flagValue("s3-ssl") == "true",
			},
			AccessKey: flagValue("s3-access-key"),
			SecretKey: flagValue("s3-secret-key"),
		},
	}

	if cfg.Elasticsearch.Endpoint == "" {
		cfg.Elasticsearch.Endpoint = os.Getenv("ES_HOST")
	}
	if cfg.Elasticsearch.Endpoint != "" && !strings.Contains(cfg.Elasticsearch.Endpoint, "://") {
		cfg.Elasticsearch.Endpoint = "https://" + cfg.Elasticsearch.Endpoint
	}

	if budget := flagValue("budget"); budget != "" {
		parsed, err := time.ParseDuration(budget)
		if err != nil {
			return nil, err
		}
		cfg.Indexer.InvocationBudget = parsed
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
