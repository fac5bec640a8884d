// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/keshava/quilt/cmd/indexer/cmd/run"
	"github.com/keshava/quilt/cmd/indexer/cmd/watch"
	"github.com/keshava/quilt/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "indexer",
	Short: "Indexes object-store change notifications into elasticsearch",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		log, err := logger.NewCliLogger()
		if err != nil {
			return err
		}
		logger.SetLogger(log)
		return nil
	},
}

// Execute executes the indexer cli commands
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("%v", err)
		os.Exit(1)
	}
}

func init() {
	logger.InitFlags(rootCmd.PersistentFlags())

	rootCmd.PersistentFlags().String("es-endpoint", "", "Elasticsearch endpoint, e.g. https://example.com:9200 (defaults to the ES_HOST environment variable)")
	rootCmd.PersistentFlags().String("es-user", "", "Elasticsearch basic auth username")
	rootCmd.PersistentFlags().String("es-password", "", "Elasticsearch basic auth password")
	rootCmd.PersistentFlags().String("s3-endpoint", "", "S3 endpoint")
	rootCmd.PersistentFlags().Bool("s3-ssl", true, "use ssl for the s3 connection")
	rootCmd.PersistentFlags().String("s3-access-key", "", "S3 access key (ambient credentials are used when unset)")
	rootCmd.PersistentFlags().String("s3-secret-key", "", "S3 secret key")
	rootCmd.PersistentFlags().Duration("budget", 0, "wall-clock budget of one invocation")

	run.AddCommand(rootCmd)
	watch.AddCommand(rootCmd)
}
