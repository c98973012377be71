// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litreview/internal/render"
	"github.com/pdiddy/litreview/internal/sink"
	"github.com/pdiddy/litreview/pkg/types"
)

// ManifestFile is the name of the run manifest written beside the reports.
const ManifestFile = "run.yaml"

var now = time.Now

// Manifest describes one run. It carries the run id and timestamps that
// the analytical record deliberately leaves out.
type Manifest struct {
	RunID       string            `yaml:"run_id"`
	StartedAt   time.Time         `yaml:"started_at"`
	FinishedAt  time.Time         `yaml:"finished_at"`
	Backend     string            `yaml:"backend"`
	Inputs      []string          `yaml:"inputs"`
	Outputs     []string          `yaml:"outputs"`
	Config      types.Config      `yaml:"config"`
	Diagnostics types.Diagnostics `yaml:"diagnostics"`
}

// NewManifest starts a manifest with a fresh run id. Credentials in cfg
// are blanked.
func NewManifest(cfg types.Config, inputs []string) *Manifest {
	cfg.Output.Minio.AccessKey = ""
	cfg.Output.Minio.SecretKey = ""
	cfg.Extraction.Cache.RedisPassword = ""
	return &Manifest{
		RunID:     uuid.NewString(),
		StartedAt: now().UTC(),
		Inputs:    inputs,
		Config:    cfg,
	}
}

// Finish stamps the end of the run and records its diagnostics.
func (m *Manifest) Finish(backend string, d types.Diagnostics) {
	m.FinishedAt = now().UTC()
	m.Backend = backend
	m.Diagnostics = d
}

// YAML encodes the manifest.
func (m *Manifest) YAML() ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest: %w", err)
	}
	return data, nil
}

// Publish renders rec in every format and writes the files to s. It
// returns the names written, in format order.
func Publish(ctx context.Context, rec *types.AnalyticalRecord, formats []string, opts render.Options, s sink.Sink) ([]string, error) {
	var written []string
	for _, format := range formats {
		name, err := render.FileName(format)
		if err != nil {
			return written, err
		}
		data, err := render.Render(format, rec, opts)
		if err != nil {
			return written, fmt.Errorf("rendering %s: %w", format, err)
		}
		if err := s.Write(ctx, name, data); err != nil {
			return written, fmt.Errorf("writing %s: %w", name, err)
		}
		written = append(written, name)
	}
	return written, nil
}

// WriteManifest writes m to s as ManifestFile.
func WriteManifest(ctx context.Context, m *Manifest, s sink.Sink) error {
	data, err := m.YAML()
	if err != nil {
		return err
	}
	return s.Write(ctx, ManifestFile, data)
}
