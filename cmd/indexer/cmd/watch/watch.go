// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package watch

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7/pkg/notification"
	"github.com/spf13/cobra"

	"github.com/keshava/quilt/cmd/indexer/cmd/common"
	"github.com/keshava/quilt/pkg/apis/config"
	"github.com/keshava/quilt/pkg/indexer"
	"github.com/keshava/quilt/pkg/logger"
	"github.com/keshava/quilt/pkg/util"
	"github.com/keshava/quilt/pkg/util/elasticsearch"
	"github.com/keshava/quilt/pkg/util/s3"
)

var (
	bucket     string
	eventTypes []string
)

// AddCommand adds the watch subcommand to another command.
func AddCommand(cmd *cobra.Command) {
	cmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Subscribes to bucket change notifications and indexes them live",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := watch(cmd); err != nil {
			logger.Log.Error(err, "error during execution")
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&bucket, "bucket", "", "bucket to watch")
	watchCmd.Flags().StringArrayVar(&eventTypes, "event", []string{"s3:ObjectCreated:*", "s3:ObjectRemoved:*"}, "notification event types to subscribe to")
	_ = watchCmd.MarkFlagRequired("bucket")
}

func watch(cmd *cobra.Command) error {
	cfg, err := common.ConfigFromFlags(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	infos, err := s3.Listen(ctx, cfg.S3, bucket, eventTypes)
	if err != nil {
		return err
	}
	logger.Log.Info("watching bucket notifications", "bucket", bucket, "events", eventTypes)

	for info := range infos {
		if info.Err != nil {
			return info.Err
		}
		if len(info.Records) == 0 {
			continue
		}
		if err := handle(ctx, cfg, info); err != nil {
			return err
		}
	}
	return nil
}

// handle feeds one live notification batch through the same envelope path as
// queued delivery.
func handle(ctx context.Context, cfg *config.Config, info notification.Info) error {
	envelope, err := wrap(info)
	if err != nil {
		return err
	}

	// clients are constructed fresh per batch so that rotated credentials
	// are picked up
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

	return indexer.New(log, cfg.Indexer, store, esClient).HandleBatch(ctx, envelope)
}

// wrap re-encodes a live notification as the queue envelope format.
func wrap(info notification.Info) ([]byte, error) {
	message, err := json.Marshal(map[string]interface{}{"Records": info.Records})
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(map[string]string{"Message": string(message)})
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]interface{}{
		"Records": []map[string]string{{"body": string(body)}},
	})
}
