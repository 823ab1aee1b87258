// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/planck-zk/planck/genesis"
	"github.com/planck-zk/planck/planck"
	"github.com/planck-zk/planck/ticker"
	"github.com/planck-zk/planck/tx"
)

// nodeConfig is the on-disk node config: the genesis description plus the
// fee table seeding the ticker.
type nodeConfig struct {
	Genesis genesis.Config `yaml:"genesis"`
	Fees    feesConfig     `yaml:"fees,omitempty"`
}

type feesConfig struct {
	TokenPrices map[uint16]string `yaml:"tokenPrices,omitempty"`
	KindCosts   map[string]string `yaml:"kindCosts,omitempty"`
}

func loadNodeConfig(path string) (*nodeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read node config")
	}
	var config nodeConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, "parse node config")
	}
	return &config, nil
}

func (c *feesConfig) tickerConfig() (ticker.Config, error) {
	config := ticker.Config{
		TokenPrices: make(map[planck.TokenID]*big.Int),
		KindCosts:   make(map[tx.Kind]*big.Int),
	}
	for token, raw := range c.TokenPrices {
		if planck.TokenID(token) > planck.MaxTokenID {
			return ticker.Config{}, errors.Errorf("fees: token %d out of range", token)
		}
		price, ok := new(big.Int).SetString(raw, 10)
		if !ok || price.Sign() < 0 {
			return ticker.Config{}, errors.Errorf("fees: invalid price for token %d", token)
		}
		config.TokenPrices[planck.TokenID(token)] = price
	}
	for name, raw := range c.KindCosts {
		kind, ok := kindByName(name)
		if !ok {
			return ticker.Config{}, errors.Errorf("fees: unknown kind %q", name)
		}
		cost, ok := new(big.Int).SetString(raw, 10)
		if !ok || cost.Sign() < 0 {
			return ticker.Config{}, errors.Errorf("fees: invalid cost for kind %q", name)
		}
		config.KindCosts[kind] = cost
	}
	return config, nil
}

func kindByName(name string) (tx.Kind, bool) {
	for _, kind := range tx.Kinds() {
		if kind.String() == name {
			return kind, true
		}
	}
	return 0, false
}
