// Package config loads pipeline parameters from a YAML file. Fields left
// out of the file keep their defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"ring-tracer/internal/cell"
	"ring-tracer/internal/centrosome"
	"ring-tracer/internal/contour"
	"ring-tracer/internal/nuclei"
	"ring-tracer/internal/validate"

	"gopkg.in/yaml.v3"
)

// Config holds the parameters of every pipeline stage.
type Config struct {
	Nuclei struct {
		Radius        float64 `yaml:"radius"`
		MinHoleArea   int     `yaml:"minHoleArea"`
		MinObjectArea int     `yaml:"minObjectArea"`
	} `yaml:"nuclei"`

	Contour struct {
		Level   float64 `yaml:"level"`
		MinArea float64 `yaml:"minArea"`
	} `yaml:"contour"`

	Centrosome struct {
		MinSigma  float64 `yaml:"minSigma"`
		MaxSigma  float64 `yaml:"maxSigma"`
		NumSigma  int     `yaml:"numSigma"`
		Threshold float64 `yaml:"threshold"`
		Overlap   float64 `yaml:"overlap"`
	} `yaml:"centrosome"`

	Cell struct {
		Threshold      float64 `yaml:"threshold"`
		KernelSize     int     `yaml:"kernelSize"`
		Sigma          float64 `yaml:"sigma"`
		Lambda         float64 `yaml:"lambda"`
		Gamma          float64 `yaml:"gamma"`
		Orientations   int     `yaml:"orientations"`
		BlurSize       int     `yaml:"blurSize"`
		ErodeSize      int     `yaml:"erodeSize"`
		LowPercentile  float64 `yaml:"lowPercentile"`
		HighPercentile float64 `yaml:"highPercentile"`
		// SeedFromNuclei seeds the watershed with the nuclei labels instead
		// of thresholding the nuclear channel again.
		SeedFromNuclei bool `yaml:"seedFromNuclei"`
	} `yaml:"cell"`

	Validate struct {
		RequireUniqueCell bool `yaml:"requireUniqueCell"`
		MinCentrosomes    int  `yaml:"minCentrosomes"`
		MaxCentrosomes    int  `yaml:"maxCentrosomes"`
	} `yaml:"validate"`
}

// DefaultConfig returns a configuration populated from each stage's
// defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	np := nuclei.DefaultParams()
	cfg.Nuclei.Radius = np.Radius
	cfg.Nuclei.MinHoleArea = np.MinHoleArea
	cfg.Nuclei.MinObjectArea = np.MinObjectArea

	co := contour.DefaultOptions()
	cfg.Contour.Level = co.Level
	cfg.Contour.MinArea = co.MinArea

	cp := centrosome.DefaultParams()
	cfg.Centrosome.MinSigma = cp.MinSigma
	cfg.Centrosome.MaxSigma = cp.MaxSigma
	cfg.Centrosome.NumSigma = cp.NumSigma
	cfg.Centrosome.Threshold = cp.Threshold
	cfg.Centrosome.Overlap = cp.Overlap

	cl := cell.DefaultParams()
	cfg.Cell.Threshold = cl.Threshold
	cfg.Cell.KernelSize = cl.Gabor.KernelSize
	cfg.Cell.Sigma = cl.Gabor.Sigma
	cfg.Cell.Lambda = cl.Gabor.Lambda
	cfg.Cell.Gamma = cl.Gabor.Gamma
	cfg.Cell.Orientations = cl.Gabor.Orientations
	cfg.Cell.BlurSize = cl.BlurSize
	cfg.Cell.ErodeSize = cl.ErodeSize
	cfg.Cell.LowPercentile = cl.LowPercentile
	cfg.Cell.HighPercentile = cl.HighPercentile
	cfg.Cell.SeedFromNuclei = true

	vo := validate.DefaultOptions()
	cfg.Validate.RequireUniqueCell = vo.RequireUniqueCell
	cfg.Validate.MinCentrosomes = vo.MinCentrosomes
	cfg.Validate.MaxCentrosomes = vo.MaxCentrosomes

	return cfg
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating the directory if needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// NucleiParams returns the nuclei segmentation parameters.
func (c *Config) NucleiParams() nuclei.Params {
	return nuclei.DefaultParams().
		WithRadius(c.Nuclei.Radius).
		WithCleanup(c.Nuclei.MinHoleArea, c.Nuclei.MinObjectArea)
}

// ContourOptions returns the nucleus outline options.
func (c *Config) ContourOptions() contour.Options {
	o := contour.DefaultOptions().WithMinArea(c.Contour.MinArea)
	o.Level = c.Contour.Level
	return o
}

// CentrosomeParams returns the blob detection parameters.
func (c *Config) CentrosomeParams() centrosome.Params {
	return centrosome.Params{
		MinSigma:  c.Centrosome.MinSigma,
		MaxSigma:  c.Centrosome.MaxSigma,
		NumSigma:  c.Centrosome.NumSigma,
		Threshold: c.Centrosome.Threshold,
		Overlap:   c.Centrosome.Overlap,
	}
}

// CellParams returns the cell segmentation parameters, without markers.
func (c *Config) CellParams() cell.Params {
	p := cell.DefaultParams().
		WithThreshold(c.Cell.Threshold).
		WithBlurSize(c.Cell.BlurSize)
	p.Gabor = cell.GaborParams{
		KernelSize:   c.Cell.KernelSize,
		Sigma:        c.Cell.Sigma,
		Lambda:       c.Cell.Lambda,
		Gamma:        c.Cell.Gamma,
		Orientations: c.Cell.Orientations,
	}
	p.ErodeSize = c.Cell.ErodeSize
	p.LowPercentile = c.Cell.LowPercentile
	p.HighPercentile = c.Cell.HighPercentile
	return p
}

// ValidateOptions returns the tuple validation options.
func (c *Config) ValidateOptions() validate.Options {
	return validate.Options{
		RequireUniqueCell: c.Validate.RequireUniqueCell,
		MinCentrosomes:    c.Validate.MinCentrosomes,
		MaxCentrosomes:    c.Validate.MaxCentrosomes,
	}
}
