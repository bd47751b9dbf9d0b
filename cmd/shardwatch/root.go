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
	"log/slog"

	"github.com/blinklabs-io/shardclient"
	"github.com/blinklabs-io/shardclient/cmd/common"
	"github.com/blinklabs-io/shardclient/internal/render"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	v          *viper.Viper
	configPath string
	cfg        common.Config
	logger     *slog.Logger
	format     render.Format
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	rootCmd := &cobra.Command{
		Use:   "shardwatch",
		Short: "Read contract state from shards and watch transactions until they land",
		Long: "shardwatch queries the per-shard endpoints of a ledger reader node. It " +
			"decodes contract state, and tracks transactions until the contract they " +
			"create is visible on a shard.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ~/.config/shardwatch/config.toml)")
	flags.String("network", "", "named network (testnet or mainnet)")
	flags.String("base-url", "", "reader node URL, overrides the network URL")
	flags.String("shards", "", "comma separated shard priority list")
	flags.String("timeout", "", "per-request timeout")
	flags.StringP("output", "o", "", "output format (text, json, yaml or cbor)")
	flags.String("log-level", "", "log level (debug, info, warn or error)")
	for key, name := range map[string]string{
		common.KeyNetwork:        "network",
		common.KeyBaseURL:        "base-url",
		common.KeyShards:         "shards",
		common.KeyRequestTimeout: "timeout",
		common.KeyOutput:         "output",
		common.KeyLogLevel:       "log-level",
	} {
		if err := a.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(
		newStateCmd(a),
		newTxCmd(a),
		newExistsCmd(a),
		newWatchCmd(a),
		newDeriveCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := common.LoadConfig(a.v, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger, err = common.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}
	a.format, err = render.ParseFormat(cfg.Output)
	return err
}

func (a *app) client(opts ...shardclient.ClientOptionFunc) (*shardclient.Client, error) {
	cfgOpts, err := a.cfg.ClientOptions()
	if err != nil {
		return nil, err
	}
	cfgOpts = append(cfgOpts, shardclient.WithLogger(a.logger))
	return shardclient.New(append(cfgOpts, opts...)...)
}

func (a *app) render(cmd *cobra.Command, v any) error {
	return render.Render(cmd.OutOrStdout(), a.format, v)
}
