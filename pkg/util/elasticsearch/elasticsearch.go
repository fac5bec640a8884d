// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/keshava/quilt/pkg/apis/config"
	"github.com/keshava/quilt/pkg/util/elasticsearch/bulk"
)

const (
	// chunkLimitBytes bounds the payload of a single bulk sub-request. The
	// stated elasticsearch default is lower, but with the default the engine
	// still rejects requests for exceeding the very same limit.
	chunkLimitBytes = 20_000_000

	// chunkActionLimit bounds the number of actions per bulk sub-request to
	// reduce memory pressure on the engine.
	chunkActionLimit = 100

	// requestTimeout gives the engine time to respond when under load.
	requestTimeout = 20 * time.Second

	// maxRetry429 is the number of internal retries for rate-limited requests
	// only; every other error is surfaced to the caller so that the document
	// queue's selective retry policy stays in control.
	maxRetry429 = 5
)

// Client defines an interface to interact with an elastic search instance.
type Client interface {
	// Bulk writes all actions in size- and count-bounded sub-requests and
	// returns the structured per-document outcomes.
	Bulk(ctx context.Context, actions bulk.ActionList) ([]ItemOutcome, error)
}

type client struct {
	*http.Client

	endpoint string
	username string
	password string
}

// NewClient creates a new elasticsearch client for the given configuration.
// Credentials are optional; without them requests are sent unauthenticated
// and authentication is left to the ambient environment (e.g. a signing
// proxy).
func NewClient(cfg config.ElasticSearch) (Client, error) {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	u.Path = ""

	return &client{
		Client:   &http.Client{Timeout: requestTimeout},
		endpoint: u.String(),
		username: cfg.Username,
		password: cfg.Password,
	}, nil
}

func (c *client) Bulk(ctx context.Context, actions bulk.ActionList) ([]ItemOutcome, error) {
	if len(actions) == 0 {
		return nil, nil
	}

	payloads, err := actions.Marshal(chunkLimitBytes, chunkActionLimit)
	if err != nil {
		return nil, err
	}

	outcomes := make([]ItemOutcome, 0, len(actions))
	for _, payload := range payloads {
		body, err := c.bulkRequest(ctx, payload)
		if err != nil {
			return nil, err
		}

		items, err := parseBulkResponse(body)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, items...)
	}

	return outcomes, nil
}

// bulkRequest posts one bulk payload. Rate-limited requests are re-sent with
// a linearly growing pause; any other non-2xx response is an error.
func (c *client) bulkRequest(ctx context.Context, payload []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetry429; attempt++ {
		body, status, err := c.do(ctx, http.MethodPost, "_bulk", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}

		if status == http.StatusTooManyRequests {
			lastErr = errors.Errorf("bulk request was rate limited (status %d)", status)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt+1) * time.Second):
			}
			continue
		}
		if status < 200 || status > 299 {
			return nil, errors.Errorf("bulk request returned status code %d with body %s", status, body)
		}
		return body, nil
	}
	return nil, lastErr
}

func (c *client) do(ctx context.Context, httpMethod, rawPath string, payload io.Reader) ([]byte, int, error) {
	esURL, err := url.JoinPath(c.endpoint, rawPath)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, httpMethod, esURL, payload)
	if err != nil {
		return nil, 0, err
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	req.Header.Add("Content-Type", "application/x-ndjson")
	req.Header.Add("Accept", "application/json")

	res, err := c.Do(req)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "unable to do request to %s", esURL)
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, 0, errors.Wrap(err, "unable to read response body")
	}
	return body, res.StatusCode, nil
}

func parseBulkResponse(body []byte) ([]ItemOutcome, error) {
	bulkRes := &BulkResponse{}
	if err := json.Unmarshal(body, bulkRes); err != nil {
		return nil, errors.Wrap(err, "unable to unmarshal bulk response")
	}

	items := make([]map[bulk.OpType]BulkResponseItem, 0)
	if len(bulkRes.Items) != 0 {
		if err := json.Unmarshal(bulkRes.Items, &items); err != nil {
			return nil, errors.Wrap(err, "unable to parse bulk items")
		}
	}

	outcomes := make([]ItemOutcome, 0, len(items))
	for _, action := range items {
		for op, item := range action {
			outcome := ItemOutcome{
				Op:     op,
				ID:     item.ID,
				Status: item.Status,
			}
			if item.Error != nil {
				outcome.ErrorType = item.Error.Type
				outcome.ErrorReason = item.Error.Reason
			}
			outcomes = append(outcomes, outcome)
		}
	}
	return outcomes, nil
}
