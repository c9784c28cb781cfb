package main

import (
	"bytes"
	"io"
	"os"

	"github.com/TrevorS/xmeans"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// loadConfig returns xmeans.DefaultConfig overlaid with the YAML file at
// path, if any. Unknown keys are rejected.
//
//	min_k: 1
//	max_rounds: 20
//	max_iterations: 100
//	min_split_size: 5
//	seed: 42
func loadConfig(path string) (xmeans.Config, error) {
	cfg := xmeans.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "config: read %s", path)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, errors.Wrapf(err, "config: decode %s", path)
	}
	return cfg, nil
}

// buildConfig layers flags over the config file over the defaults.
func buildConfig(args *cliArgs) (xmeans.Config, error) {
	cfg, err := loadConfig(args.ConfigPath)
	if err != nil {
		return cfg, err
	}
	if args.MinK != nil {
		cfg.MinK = *args.MinK
	}
	if args.MaxRounds != nil {
		cfg.MaxRounds = *args.MaxRounds
	}
	if args.Seed != nil {
		cfg.Seed = *args.Seed
	}
	return cfg, nil
}
