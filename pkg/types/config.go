// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// ExtractionBackend identifies the tool that turns a PDF into a PaperRecord.
type ExtractionBackend string

const (
	BackendGROBID     ExtractionBackend = "grobid"
	BackendNative     ExtractionBackend = "native"
	BackendMarkitdown ExtractionBackend = "markitdown"
)

// CacheBackend identifies where extracted records are cached between runs.
type CacheBackend string

const (
	CacheNone   CacheBackend = "none"
	CacheSQLite CacheBackend = "sqlite"
	CacheRedis  CacheBackend = "redis"
)

// GROBIDConfig holds settings for the GROBID service.
type GROBIDConfig struct {
	// URL is the base URL of the GROBID service (default http://localhost:8070).
	URL string `json:"url" yaml:"url" mapstructure:"url"`

	// Timeout bounds a single HTTP request to the service.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// ConsolidateHeader asks GROBID to consolidate header metadata against
	// external sources (default off).
	ConsolidateHeader bool `json:"consolidate_header" yaml:"consolidate_header" mapstructure:"consolidate_header"`

	// RequestDelay is the pause each worker takes after a request (default 0).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay" mapstructure:"request_delay"`

	// Image is the container image started by "grobid start".
	Image string `json:"image" yaml:"image" mapstructure:"image"`

	// Port is the host port the container publishes.
	Port int `json:"port" yaml:"port" mapstructure:"port"`
}

// CacheConfig holds settings for the extraction cache.
type CacheConfig struct {
	// Backend selects the cache store: none, sqlite, or redis.
	Backend CacheBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// RedisAddr is the host:port of the Redis server.
	RedisAddr string `json:"redis_addr" yaml:"redis_addr" mapstructure:"redis_addr"`

	// RedisPassword is loaded from .secrets/redis-password when unset.
	RedisPassword string `json:"redis_password,omitempty" yaml:"redis_password,omitempty" mapstructure:"redis_password"`

	// TTL expires Redis entries; zero keeps them forever.
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
}

// ExtractionConfig holds settings for the extraction stage.
type ExtractionConfig struct {
	// Backend selects the extraction tool.
	Backend ExtractionBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Fallback names a backend tried when the primary backend fails with an
	// unreadable_file error. Empty disables the fallback.
	Fallback ExtractionBackend `json:"fallback" yaml:"fallback" mapstructure:"fallback"`

	// InputDir is scanned for PDFs when no paths are given (default input/).
	InputDir string `json:"input_dir" yaml:"input_dir" mapstructure:"input_dir"`

	// Workers bounds the number of papers extracted in parallel (default 4).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// PaperTimeout bounds the extraction of a single paper.
	PaperTimeout time.Duration `json:"paper_timeout" yaml:"paper_timeout" mapstructure:"paper_timeout"`

	// Cache configures the extraction cache.
	Cache CacheConfig `json:"cache" yaml:"cache" mapstructure:"cache"`
}

// EnrichConfig holds settings for metadata enrichment.
type EnrichConfig struct {
	// CrossRef enables CrossRef lookups for papers with a DOI but missing metadata.
	CrossRef bool `json:"crossref" yaml:"crossref" mapstructure:"crossref"`

	// Mailto is sent in the User-Agent for the CrossRef polite pool.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty" mapstructure:"mailto"`

	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// SignalConfig controls candidate phrase extraction.
type SignalConfig struct {
	// MinWords is the minimum number of words in a candidate phrase (default 1).
	MinWords int `json:"min_words" yaml:"min_words" mapstructure:"min_words"`

	// MaxWords is the maximum number of words in a candidate phrase (default 3).
	MaxWords int `json:"max_words" yaml:"max_words" mapstructure:"max_words"`

	// MinTokenLen drops tokens shorter than this many runes (default 3).
	MinTokenLen int `json:"min_token_len" yaml:"min_token_len" mapstructure:"min_token_len"`

	// MaxSignalsPerPaper keeps only the top scoring signals of each paper (default 25).
	MaxSignalsPerPaper int `json:"max_signals_per_paper" yaml:"max_signals_per_paper" mapstructure:"max_signals_per_paper"`

	// ExtraStopwords extends the built-in stopword list.
	ExtraStopwords []string `json:"extra_stopwords,omitempty" yaml:"extra_stopwords,omitempty" mapstructure:"extra_stopwords"`
}

// RuleTable maps section labels to the dimension their signals vote for.
type RuleTable map[string]Dimension

// DefaultRuleTable returns the built-in section to dimension mapping.
func DefaultRuleTable() RuleTable {
	return RuleTable{
		SectionTitle:        DimensionTrends,
		SectionAbstract:     DimensionTrends,
		SectionIntroduction: DimensionTrends,
		SectionBackground:   DimensionTrends,
		SectionMethods:      DimensionInnovations,
		SectionResults:      DimensionInnovations,
		SectionDiscussion:   DimensionInnovations,
		SectionLimitations:  DimensionChallenges,
		SectionConclusion:   DimensionFuture,
		SectionFutureWork:   DimensionFuture,
	}
}

// AnalysisConfig controls cross-document aggregation.
type AnalysisConfig struct {
	// SimilarityThreshold is τ: a signal joins a cluster when its similarity
	// to the cluster seed is at least this value (default 0.5).
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold" mapstructure:"similarity_threshold"`

	// MinorObservationFloor demotes single-member clusters whose importance
	// is below it (default 0.05).
	MinorObservationFloor float64 `json:"minor_observation_floor" yaml:"minor_observation_floor" mapstructure:"minor_observation_floor"`

	// MaxClustersPerDimension truncates each dimension; zero means unlimited (default 10).
	MaxClustersPerDimension int `json:"max_clusters_per_dimension" yaml:"max_clusters_per_dimension" mapstructure:"max_clusters_per_dimension"`

	// DimensionRuleTable overrides entries of the default rule table.
	DimensionRuleTable RuleTable `json:"dimension_rule_table" yaml:"dimension_rule_table" mapstructure:"dimension_rule_table"`
}

// Validate checks that the analysis settings are usable.
func (c AnalysisConfig) Validate() error {
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be in (0, 1], got %v", c.SimilarityThreshold)
	}
	if c.MinorObservationFloor < 0 {
		return fmt.Errorf("minor_observation_floor must not be negative, got %v", c.MinorObservationFloor)
	}
	if c.MaxClustersPerDimension < 0 {
		return fmt.Errorf("max_clusters_per_dimension must not be negative, got %d", c.MaxClustersPerDimension)
	}
	for label, d := range c.DimensionRuleTable {
		if !d.Valid() {
			return fmt.Errorf("dimension_rule_table: section %q maps to unknown dimension %q", label, d)
		}
	}
	return nil
}

// Rules returns the default rule table with the configured overrides applied.
func (c AnalysisConfig) Rules() RuleTable {
	rules := DefaultRuleTable()
	for label, d := range c.DimensionRuleTable {
		rules[label] = d
	}
	return rules
}

// MinioConfig holds settings for the optional MinIO report sink.
type MinioConfig struct {
	// Endpoint is host:port of the MinIO server; empty disables the sink.
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`

	// AccessKey is loaded from .secrets/minio-access-key when unset.
	AccessKey string `json:"access_key,omitempty" yaml:"access_key,omitempty" mapstructure:"access_key"`

	// SecretKey is loaded from .secrets/minio-secret-key when unset.
	SecretKey string `json:"secret_key,omitempty" yaml:"secret_key,omitempty" mapstructure:"secret_key"`

	// Bucket receives the report objects; created when missing.
	Bucket string `json:"bucket" yaml:"bucket" mapstructure:"bucket"`

	// Prefix is prepended to object keys, followed by the run id.
	Prefix string `json:"prefix" yaml:"prefix" mapstructure:"prefix"`

	// UseSSL selects https.
	UseSSL bool `json:"use_ssl" yaml:"use_ssl" mapstructure:"use_ssl"`
}

// OutputConfig holds settings for report rendering.
type OutputConfig struct {
	// Dir is the local output directory (default output/).
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Formats lists the report formats to write: markdown, json, html, yaml, xlsx.
	Formats []string `json:"formats" yaml:"formats" mapstructure:"formats"`

	// Title is the report title.
	Title string `json:"title" yaml:"title" mapstructure:"title"`

	// Minio configures the optional object storage sink.
	Minio MinioConfig `json:"minio" yaml:"minio" mapstructure:"minio"`
}

// Config groups the settings of a review run.
type Config struct {
	GROBID     GROBIDConfig     `json:"grobid" yaml:"grobid" mapstructure:"grobid"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction" mapstructure:"extraction"`
	Enrich     EnrichConfig     `json:"enrich" yaml:"enrich" mapstructure:"enrich"`
	Signals    SignalConfig     `json:"signals" yaml:"signals" mapstructure:"signals"`
	Analysis   AnalysisConfig   `json:"analysis" yaml:"analysis" mapstructure:"analysis"`
	Output     OutputConfig     `json:"output" yaml:"output" mapstructure:"output"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		GROBID: GROBIDConfig{
			URL:               "http://localhost:8070",
			Timeout:           120 * time.Second,
			Image:             "lfoppiano/grobid:0.8.1",
			Port:              8070,
		},
		Extraction: ExtractionConfig{
			Backend:      BackendGROBID,
			Fallback:     BackendNative,
			InputDir:     "input",
			Workers:      4,
			PaperTimeout: 3 * time.Minute,
			Cache: CacheConfig{
				Backend: CacheSQLite,
				Path:    ".litreview/cache.db",
			},
		},
		Enrich: EnrichConfig{
			Timeout: 15 * time.Second,
		},
		Signals: SignalConfig{
			MinWords:           1,
			MaxWords:           3,
			MinTokenLen:        3,
			MaxSignalsPerPaper: 25,
		},
		Analysis: AnalysisConfig{
			SimilarityThreshold:     0.5,
			MinorObservationFloor:   0.05,
			MaxClustersPerDimension: 10,
		},
		Output: OutputConfig{
			Dir:     "output",
			Formats: []string{"markdown", "json"},
			Title:   "Literature Review",
			Minio: MinioConfig{
				Bucket: "litreview",
				Prefix: "reports",
			},
		},
	}
}
