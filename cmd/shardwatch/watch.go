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

package main

import (
	"context"
	"errors"

	"github.com/blinklabs-io/shardclient"
	"github.com/blinklabs-io/shardclient/ledger"
	"github.com/blinklabs-io/shardclient/poller"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const defaultWatchParallel = 8

func newWatchCmd(a *app) *cobra.Command {
	var kindName string
	var shardName string
	var parallel int
	cmd := &cobra.Command{
		Use:   "watch <id>...",
		Short: "Track transactions until they reach a verified outcome",
		Long: "Track transactions until they reach a verified outcome. With a contract " +
			"--kind, a transaction only succeeds once the contract it created is " +
			"visible on a shard. With --kind none, it succeeds once finalized.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := ledger.AddressKindByName(kindName)
			if err != nil {
				return err
			}
			ids := make([]ledger.TransactionId, len(args))
			for i, arg := range args {
				ids[i], err = ledger.NewTransactionId(arg)
				if err != nil {
					return err
				}
			}
			client, err := a.client(
				shardclient.WithPollerOptions(
					poller.WithOnTransition(func(s *poller.Session, from poller.State, to poller.State) {
						a.logger.Info(
							"transaction state changed",
							"tx", s.Pointer().Identifier.String(),
							"from", from.String(),
							"to", to.String(),
						)
					}),
				),
			)
			if err != nil {
				return err
			}
			dest := client.ShardClient().Shards()[0]
			if shardName != "" {
				dest, err = ledger.ParseShardId(shardName)
				if err != nil {
					return err
				}
			}

			statuses := make([]poller.Status, len(ids))
			errs := make([]error, len(ids))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(parallel, 1))
			for i, id := range ids {
				g.Go(func() error {
					session := client.Track(
						ctx,
						ledger.TransactionPointer{Identifier: id, DestinationShard: dest},
						kind,
					)
					statuses[i], errs[i] = session.Wait(ctx)
					// Only an interrupt stops the other sessions
					if errors.Is(errs[i], context.Canceled) {
						return errs[i]
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if len(statuses) == 1 {
				if err := a.render(cmd, statuses[0]); err != nil {
					return err
				}
			} else {
				items := make([]any, len(statuses))
				for i, status := range statuses {
					items[i] = status
				}
				if err := a.render(cmd, items); err != nil {
					return err
				}
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().StringVar(&kindName, "kind", "none", "kind of contract created by the transactions (none, public or zk)")
	cmd.Flags().StringVar(&shardName, "shard", "", "shard the transactions were submitted to (default: first shard in the priority list)")
	cmd.Flags().IntVar(&parallel, "parallel", defaultWatchParallel, "maximum number of transactions tracked at once")
	return cmd
}
