package application

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/palcode/ELL/internal/evaluation"
	"github.com/palcode/ELL/internal/ports"
)

// EvaluationLoader provides YAML configuration parsing, validation, and
// caching for evaluator configurations, transforming declarative YAML
// specifications into engine instances.
//
// The loader caches validated configurations by SHA256 hash of their
// normalized form. Live aggregators are never cached or shared: every
// Build call instantiates a fresh aggregator set, because aggregators
// are stateful and exclusively owned by one engine.
type EvaluationLoader struct {
	// validator performs struct field validation for evaluator
	// configurations and their nested components.
	validator *validator.Validate
	// registry provides factory methods for creating aggregators based
	// on their type and configuration parameters.
	registry ports.AggregatorRegistry
	// cache stores validated configurations indexed by SHA256 hash of
	// normalized YAML to avoid re-validation of identical inputs.
	cache map[string]*EvaluationConfig
	// cacheMu provides thread-safe access to the cache map.
	cacheMu sync.RWMutex
	// sf prevents duplicate validation when multiple goroutines load
	// the same configuration simultaneously.
	sf singleflight.Group
}

// NewEvaluationLoader creates a loader with validation capabilities and
// an empty cache, ready to load evaluator configurations.
func NewEvaluationLoader(registry ports.AggregatorRegistry) (*EvaluationLoader, error) {
	if registry == nil {
		return nil, fmt.Errorf("aggregator registry cannot be nil")
	}
	return &EvaluationLoader{
		validator: validator.New(),
		registry:  registry,
		cache:     make(map[string]*EvaluationConfig),
	}, nil
}

// load is the common implementation for loading configurations from
// byte data, utilizing singleflight and SHA256-based caching.
func (el *EvaluationLoader) load(ctx context.Context, data []byte) (*EvaluationConfig, error) {
	// Parse YAML first to normalize it before hashing.
	config, err := el.parseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	hash, err := el.calculateConfigHash(config)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate hash: %w", err)
	}

	v, err, _ := el.sf.Do(hash, func() (any, error) {
		// Check cache inside singleflight to handle race between cache
		// check and singleflight group execution.
		if cached, ok := el.getCached(hash); ok {
			return cached, nil
		}

		if err := el.validateConfig(config); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}

		el.setCached(hash, config)
		return config, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*EvaluationConfig), nil
}

// LoadFromFile loads and validates an evaluator configuration from a
// YAML file, utilizing SHA256-based caching for identical inputs.
func (el *EvaluationLoader) LoadFromFile(ctx context.Context, path string) (*EvaluationConfig, error) {
	// Clean the path to prevent directory traversal attacks.
	cleanPath := filepath.Clean(path)

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return el.load(ctx, data)
}

// LoadFromReader loads and validates an evaluator configuration from an
// io.Reader, supporting any source that implements the Reader interface.
func (el *EvaluationLoader) LoadFromReader(ctx context.Context, r io.Reader) (*EvaluationConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	return el.load(ctx, data)
}

// Build assembles a type-erased evaluator from a validated
// configuration and a dataset iterator. Aggregators are instantiated
// fresh through the registry in configuration order, which becomes the
// engine's dispatch order.
func (el *EvaluationLoader) Build(config *EvaluationConfig, iter ports.ExampleIterator) (ports.Evaluator, error) {
	aggs := make([]ports.Aggregator, 0, len(config.Aggregators))
	for _, aggConfig := range config.Aggregators {
		params, err := decodeParameters(aggConfig.Parameters)
		if err != nil {
			return nil, fmt.Errorf("aggregator %s: %w", aggConfig.ID, err)
		}
		agg, err := el.registry.CreateAggregator(aggConfig.Type, aggConfig.ID, params)
		if err != nil {
			return nil, err
		}
		aggs = append(aggs, agg)
	}

	return evaluation.NewEvaluator(iter, config.Evaluation, aggs...)
}

// parseYAML unmarshals YAML byte data into a structured
// EvaluationConfig using strict decoding so unknown fields are
// rejected rather than silently ignored.
func (el *EvaluationLoader) parseYAML(data []byte) (*EvaluationConfig, error) {
	var config EvaluationConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Strict mode - fail on unknown fields.

	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("YAML decode failed: %w", err)
	}
	return &config, nil
}

// validateConfig performs struct field validation followed by semantic
// validation of relationships between configuration elements.
func (el *EvaluationLoader) validateConfig(config *EvaluationConfig) error {
	if err := el.validator.Struct(config); err != nil {
		return fmt.Errorf("struct validation failed: %w", err)
	}

	if err := el.validateSemantics(config); err != nil {
		return fmt.Errorf("semantic validation failed: %w", err)
	}

	return nil
}

// validateSemantics enforces rules that cannot be expressed through
// struct tags: aggregator IDs must be unique and every referenced type
// must be known to the registry.
func (el *EvaluationLoader) validateSemantics(config *EvaluationConfig) error {
	known := make(map[string]struct{})
	for _, aggType := range el.registry.ListTypes() {
		known[aggType] = struct{}{}
	}

	seen := make(map[string]struct{})
	for _, agg := range config.Aggregators {
		if _, exists := seen[agg.ID]; exists {
			return fmt.Errorf("duplicate aggregator ID %q", agg.ID)
		}
		seen[agg.ID] = struct{}{}

		if _, ok := known[agg.Type]; !ok {
			return fmt.Errorf("aggregator %s references unregistered type: %s", agg.ID, agg.Type)
		}

		if err := ValidateAggregatorParameters(agg.Type, agg.Parameters); err != nil {
			return fmt.Errorf("aggregator %s has invalid parameters: %w", agg.ID, err)
		}
	}

	return nil
}

// calculateConfigHash produces a cache key from the normalized
// configuration rather than the raw bytes, so formatting-only
// differences hash identically.
func (el *EvaluationLoader) calculateConfigHash(config *EvaluationConfig) (string, error) {
	normalized, err := yaml.Marshal(config)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(normalized)
	return hex.EncodeToString(sum[:]), nil
}

func (el *EvaluationLoader) getCached(hash string) (*EvaluationConfig, bool) {
	el.cacheMu.RLock()
	defer el.cacheMu.RUnlock()
	config, ok := el.cache[hash]
	return config, ok
}

func (el *EvaluationLoader) setCached(hash string, config *EvaluationConfig) {
	el.cacheMu.Lock()
	defer el.cacheMu.Unlock()
	el.cache[hash] = config
}

// decodeParameters converts an aggregator's flexible YAML parameters
// into the map form consumed by aggregator factories. An empty node
// yields an empty map.
func decodeParameters(node yaml.Node) (map[string]any, error) {
	if node.IsZero() {
		return map[string]any{}, nil
	}
	var params map[string]any
	if err := node.Decode(&params); err != nil {
		return nil, fmt.Errorf("failed to decode parameters: %w", err)
	}
	if params == nil {
		params = map[string]any{}
	}
	return params, nil
}
