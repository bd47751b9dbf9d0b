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

package shardclient

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/blinklabs-io/shardclient/ledger"
	"github.com/blinklabs-io/shardclient/poller"
)

// ClientOptionFunc is a type that represents functions that modify the Client config
type ClientOptionFunc func(*Client)

// WithNetwork selects a predefined network. Its base URL and shard priority are used
// unless overridden with WithBaseURL or WithShards
func WithNetwork(network Network) ClientOptionFunc {
	return func(c *Client) {
		c.network = network
	}
}

// WithBaseURL specifies the reader node URL
func WithBaseURL(baseURL string) ClientOptionFunc {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithShards specifies the shard priority list
func WithShards(shards ...ledger.ShardId) ClientOptionFunc {
	return func(c *Client) {
		c.shards = append([]ledger.ShardId{}, shards...)
	}
}

// WithHTTPClient specifies the HTTP client used for shard requests
func WithHTTPClient(httpClient *http.Client) ClientOptionFunc {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRequestTimeout bounds each individual shard request
func WithRequestTimeout(timeout time.Duration) ClientOptionFunc {
	return func(c *Client) {
		c.requestTimeout = timeout
	}
}

// WithPollerOptions specifies options passed to the transaction poller
func WithPollerOptions(opts ...poller.OptionFunc) ClientOptionFunc {
	return func(c *Client) {
		c.pollerOpts = append(c.pollerOpts, opts...)
	}
}

// WithSubmitter specifies the capability used to send transactions
func WithSubmitter(submitter ledger.Submitter) ClientOptionFunc {
	return func(c *Client) {
		c.submitter = submitter
	}
}

// WithLogger specifies the logger
func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(c *Client) {
		c.logger = logger
	}
}
