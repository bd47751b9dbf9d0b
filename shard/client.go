// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package shard implements reads against the per-shard endpoints of a ledger node,
// falling back across shards in priority order
package shard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/blinklabs-io/shardclient/ledger"
)

const (
	DefaultRequestTimeout = 10 * time.Second
	// DefaultStatePath is expanded with the shard name and the hex address
	DefaultStatePath = "/shards/%s/blockchain/contracts/%s"
	// DefaultTransactionPath is expanded with the shard name and the transaction ID
	DefaultTransactionPath = "/chain/shards/%s/transactions/%s"

	maxResponseSize = 32 << 20
)

// Client reads state and transactions from a ledger node. It holds no mutable state
// after construction and is safe for concurrent use
type Client struct {
	baseURL         string
	httpClient      *http.Client
	requestTimeout  time.Duration
	shards          []ledger.ShardId
	statePath       string
	transactionPath string
	logger          *slog.Logger
}

// ClientOptionFunc is a type that represents functions that modify the Client config
type ClientOptionFunc func(*Client)

// NewClient returns a new Client with the specified options
func NewClient(opts ...ClientOptionFunc) (*Client, error) {
	c := &Client{
		requestTimeout:  DefaultRequestTimeout,
		shards:          ledger.DefaultShardPriority,
		statePath:       DefaultStatePath,
		transactionPath: DefaultTransactionPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL == "" {
		return nil, errors.New("shard: no base URL specified")
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("component", "shard")
	if len(c.shards) == 0 {
		return nil, errors.New("shard: empty shard priority list")
	}
	c.shards = append([]ledger.ShardId{}, c.shards...)
	return c, nil
}

// WithBaseURL specifies the base URL of the ledger node
func WithBaseURL(baseURL string) ClientOptionFunc {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient specifies the HTTP client to use. If none is provided, a new one is created
func WithHTTPClient(httpClient *http.Client) ClientOptionFunc {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRequestTimeout specifies the time limit for each individual shard request
func WithRequestTimeout(timeout time.Duration) ClientOptionFunc {
	return func(c *Client) {
		c.requestTimeout = timeout
	}
}

// WithShards specifies the default shard priority, used when a call passes no shards
func WithShards(shards ...ledger.ShardId) ClientOptionFunc {
	return func(c *Client) {
		c.shards = shards
	}
}

// WithPaths overrides the state and transaction path templates. Each template is
// expanded with the shard name and the key
func WithPaths(statePath string, transactionPath string) ClientOptionFunc {
	return func(c *Client) {
		if statePath != "" {
			c.statePath = statePath
		}
		if transactionPath != "" {
			c.transactionPath = transactionPath
		}
	}
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(c *Client) {
		c.logger = logger
	}
}

// Shards returns a copy of the default shard priority
func (c *Client) Shards() []ledger.ShardId {
	return append([]ledger.ShardId{}, c.shards...)
}

// BaseURL returns the base URL of the ledger node
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) priority(shards []ledger.ShardId) []ledger.ShardId {
	if len(shards) == 0 {
		return c.shards
	}
	return shards
}

func (c *Client) stateURL(shard ledger.ShardId, addr ledger.Address) string {
	return c.baseURL + fmt.Sprintf(c.statePath, shard, addr)
}

func (c *Client) transactionURL(shard ledger.ShardId, id ledger.TransactionId) string {
	return c.baseURL + fmt.Sprintf(c.transactionPath, shard, id)
}

// get performs a single bounded request and returns the response body
func (c *Client) get(
	ctx context.Context,
	shard ledger.ShardId,
	url string,
) ([]byte, *ShardMissError) {
	reqCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, newMiss(shard, MissNetwork, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newMiss(shard, MissNetwork, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return nil, newMiss(
			shard,
			MissHTTPStatus,
			fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status),
		)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, newMiss(shard, MissNetwork, err)
	}
	return body, nil
}
