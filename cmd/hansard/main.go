// Command hansard is the entry point for the hansard pipeline CLI.
// It wires configuration, storage, the search index, the normaliser
// registry and the post-processing pipeline into the driving services,
// then hands control to the command surface.
package main

import (
	"fmt"
	"os"

	"github.com/jlkeet/pacific-hansard-sub001/internal/adapters/driven/config/file"
	"github.com/jlkeet/pacific-hansard-sub001/internal/adapters/driven/index/fts"
	"github.com/jlkeet/pacific-hansard-sub001/internal/adapters/driven/storage/sqlite"
	"github.com/jlkeet/pacific-hansard-sub001/internal/adapters/driving/cli"
	"github.com/jlkeet/pacific-hansard-sub001/internal/connectors/collections"
	"github.com/jlkeet/pacific-hansard-sub001/internal/core/ports/driven"
	"github.com/jlkeet/pacific-hansard-sub001/internal/core/services"
	"github.com/jlkeet/pacific-hansard-sub001/internal/normalisers"
	"github.com/jlkeet/pacific-hansard-sub001/internal/normalisers/hansard"
	"github.com/jlkeet/pacific-hansard-sub001/internal/postprocessors"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	dataDir := cfg.GetString("data_dir")

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	defer store.Close()

	index, err := fts.NewIndex(dataDir)
	if err != nil {
		return fmt.Errorf("opening search index: %w", err)
	}
	defer index.Close()

	registry := normalisers.NewRegistry()
	registry.Register(hansard.New(newStructurer(cfg)))

	pipeline, err := newPipeline(cfg)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}

	docStore := store.DocumentStore()

	var ingestOpts []services.IngestOption
	if workers := cfg.GetInt("ingest.workers"); workers > 0 {
		ingestOpts = append(ingestOpts, services.WithWorkers(workers))
	}

	ingest := services.NewIngestService(collections.Factory, registry, pipeline, docStore, index, ingestOpts...)
	search := services.NewSearchService(index)

	cli.SetServices(search, ingest, docStore)
	return cli.Execute()
}

// newStructurer builds the hansard structurer from configuration.
func newStructurer(cfg driven.ConfigStore) *hansard.Structurer {
	var opts []hansard.Option
	if limit := cfg.GetInt("structurer.speaker_length_limit"); limit > 0 {
		opts = append(opts, hansard.WithSpeakerLengthLimit(limit))
	}
	if val, ok := cfg.Get("structurer.heading_resets"); ok {
		if b, isBool := val.(bool); isBool {
			opts = append(opts, hansard.WithHeadingReset(b))
		}
	}
	return hansard.NewStructurer(opts...)
}

// newPipeline builds the post-processing pipeline from configuration.
func newPipeline(cfg driven.ConfigStore) (*postprocessors.Pipeline, error) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	chunkerCfg := map[string]any{}
	if tokens := cfg.GetInt("chunker.chunk_tokens"); tokens > 0 {
		chunkerCfg["chunk_tokens"] = tokens
	}
	if overlap, ok := cfg.Get("chunker.overlap_tokens"); ok {
		chunkerCfg["overlap_tokens"] = overlap
	}

	chunker, err := registry.Build("chunker", chunkerCfg)
	if err != nil {
		return nil, err
	}
	return postprocessors.NewPipeline(chunker), nil
}
