// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package run

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/keshava/quilt/cmd/indexer/cmd/common"
	"github.com/keshava/quilt/pkg/apis/config"
	"github.com/keshava/quilt/pkg/indexer"
	"github.com/keshava/quilt/pkg/logger"
	"github.com/keshava/quilt/pkg/util"
	"github.com/keshava/quilt/pkg/util/elasticsearch"
	"github.com/keshava/quilt/pkg/util/s3"
)

var eventFiles []string

// AddCommand adds the run subcommand to another command.
func AddCommand(cmd *cobra.Command) {
	cmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Processes notification envelope files, one invocation per file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := run(cmd); err != nil {
			logger.Log.Error(err, "error during execution")
			return err
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringArrayVar(&eventFiles, "file", nil, "path to a notification envelope file; can be given multiple times")
	_ = runCmd.MarkFlagRequired("file")
}

func run(cmd *cobra.Command) error {
	cfg, err := common.ConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()

	// a failing envelope must not block the remaining ones
	var result *multierror.Error
	for _, file := range eventFiles {
		if err := runOne(ctx, cfg, file); err != nil {
			logger.Log.Error(err, "unable to process notification envelope", "file", file)
			result = multierror.Append(result, errors.Wrapf(err, "envelope %s", file))
		}
	}
	return util.ReturnMultiError(result)
}

func runOne(ctx context.Context, cfg *config.Config, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	// clients are constructed fresh per invocation so that rotated
	// credentials are picked up
	log := logger.Log.WithValues("invocation", uuid.New().String())
	budget := util.NewTimeBudget(cfg.Indexer.InvocationBudget)
	store, err := s3.New(log, cfg.S3, budget)
	if err != nil {
		return err
	}
	esClient, err := elasticsearch.NewClient(cfg.Elasticsearch)
	if err != nil {
		return err
	}

	log.Info("processing notification envelope", "file", file)
	return indexer.New(log, cfg.Indexer, store, esClient).HandleBatch(ctx, data)
}
