package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateProcessing(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateProcessing() error {
	if c.Processing.TargetSampleRate <= 0 {
		return errors.New("processing.target_sample_rate must be positive")
	}
	if c.Processing.TopDB <= 0 {
		return errors.New("processing.top_db must be positive")
	}
	if c.Processing.MinSegmentSeconds < 0 {
		return errors.New("processing.min_segment_seconds must not be negative")
	}
	if c.Processing.NoiseWindowSeconds <= 0 {
		return errors.New("processing.noise_window_seconds must be positive")
	}
	if c.Processing.TargetPeak <= 0 || c.Processing.TargetPeak > 1 {
		return errors.New("processing.target_peak must be in (0, 1]")
	}
	if c.Processing.DecodeTimeout <= 0 {
		return errors.New("processing.decode_timeout must be positive")
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case StorageBackendFS:
		if c.Storage.RootDir == "" {
			return errors.New("storage.root_dir must be set when storage.backend is \"fs\"")
		}
	case StorageBackendGCS:
		if c.Storage.GCSBucket == "" {
			return errors.New("storage.gcs_bucket must be set when storage.backend is \"gcs\"")
		}
	default:
		return fmt.Errorf("storage.backend: unsupported value %q", c.Storage.Backend)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
