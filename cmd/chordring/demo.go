package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chordring/internal/config"
	"chordring/internal/logger"
	zapadapter "chordring/internal/logger/zap"
	"chordring/internal/observability"
	"chordring/internal/peer"
	"chordring/internal/ring"
)

func demoCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the scripted six-peer ring walkthrough and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lgr, err := loadConfigAndLogger(*configPath)
			if err != nil {
				return err
			}
			cfg.LogConfig(lgr)
			return runDemo(cfg, lgr)
		},
	}
}

func loadConfigAndLogger(path string) (config.Config, logger.Logger, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, nil, err
		}
		cfg = loaded
	}

	var lgr logger.Logger = &logger.NopLogger{}
	if cfg.Logger.Active {
		zl, err := zapadapter.New(cfg.Logger)
		if err != nil {
			return config.Config{}, nil, fmt.Errorf("build logger: %w", err)
		}
		lgr = zapadapter.NewZapAdapter(zl)
	}
	return cfg, lgr, nil
}

func runDemo(cfg config.Config, lgr logger.Logger) error {
	sp, err := ring.NewSpace(uint(cfg.Ring.Bits))
	if err != nil {
		return err
	}

	ids := []peer.ID{0, 30, 65, 110, 160, 230}
	peers := make([]*peer.Peer, len(ids))
	peers[0] = peer.New(sp, ids[0], lgr)
	if _, err := peers[0].Join(nil); err != nil {
		return fmt.Errorf("bootstrap peer %d: %w", ids[0], err)
	}
	for i := 1; i < len(ids); i++ {
		peers[i] = peer.New(sp, ids[i], lgr)
		if _, err := peers[i].Join(peers[i-1]); err != nil {
			return fmt.Errorf("join peer %d: %w", ids[i], err)
		}
	}
	for _, p := range peers {
		fmt.Print(observability.PrettyPrint(p))
	}

	inserts := []struct {
		key peer.ID
		val any
	}{
		{3, 3}, {200, nil}, {123, nil}, {45, 3}, {99, nil}, {60, 10},
		{50, 8}, {100, 5}, {101, 4}, {102, 6}, {240, 8}, {250, 10},
	}
	for _, ins := range inserts {
		if err := peers[0].Insert(ins.key, ins.val); err != nil {
			return fmt.Errorf("insert %d: %w", ins.key, err)
		}
	}
	for _, p := range peers {
		fmt.Print(observability.PrintKeys(p))
	}

	p100 := peer.New(sp, 100, lgr)
	if _, err := p100.Join(peers[len(peers)-1]); err != nil {
		return fmt.Errorf("join peer 100: %w", err)
	}
	allPeers := append(append([]*peer.Peer{}, peers...), p100)

	for _, k := range []peer.ID{3, 200, 123, 45, 99, 60, 50, 100, 101, 102, 240, 250} {
		for _, p := range allPeers {
			if _, _, err := p.Find(k); err != nil {
				return fmt.Errorf("find %d from peer %d: %w", k, p.ID(), err)
			}
		}
	}
	for _, p := range allPeers {
		fmt.Print(observability.PrintLookupResults(p))
	}

	var departing *peer.Peer
	for _, p := range peers {
		if p.ID() == 65 {
			departing = p
		}
	}
	if departing != nil {
		if _, err := departing.Leave(); err != nil {
			return fmt.Errorf("leave peer 65: %w", err)
		}
	}
	for _, p := range allPeers {
		if p == departing {
			continue
		}
		fmt.Print(observability.PrintKeys(p))
	}
	return nil
}
