package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/On-Jun9/MetaSpy/pkg/types"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultMapsURL = "https://www.google.com/maps/search/?api=1"

type Config struct {
	Output         types.OutputMode `yaml:"output" json:"output"`
	OutputDir      string           `yaml:"output_dir" json:"output_dir"`
	Jobs           int              `yaml:"jobs" json:"jobs"`
	Recursive      bool             `yaml:"recursive" json:"recursive"`
	ExtractTimeout time.Duration    `yaml:"extract_timeout" json:"extract_timeout"`
	MapsURL        string           `yaml:"maps_url" json:"maps_url"`
	CacheSize      int              `yaml:"cache_size" json:"cache_size"`
	LogFile        string           `yaml:"log_file" json:"log_file"`
	LogJSON        bool             `yaml:"log_json" json:"log_json"`
	LogMaxSizeMB   int              `yaml:"log_max_size_mb" json:"log_max_size_mb"`
	LogMaxBackups  int              `yaml:"log_max_backups" json:"log_max_backups"`
	S3Bucket       string           `yaml:"s3_bucket" json:"s3_bucket"`
	S3Prefix       string           `yaml:"s3_prefix" json:"s3_prefix"`
	S3Region       string           `yaml:"s3_region" json:"s3_region"`
	S3AccessKey    string           `yaml:"s3_access_key" json:"-"`
	S3SecretKey    string           `yaml:"s3_secret_key" json:"-"`
	AllowedOrigins []string         `yaml:"allowed_origins" json:"allowed_origins"`
}

func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	stateDir := filepath.Join(homeDir, ".metaspy")

	return &Config{
		Output:         types.OutputPrint,
		OutputDir:      ".",
		Jobs:           1,
		Recursive:      false,
		ExtractTimeout: 0,
		MapsURL:        DefaultMapsURL,
		CacheSize:      128,
		LogFile:        filepath.Join(stateDir, "metaspy.log"),
		LogJSON:        false,
		LogMaxSizeMB:   10,
		LogMaxBackups:  3,
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
	}
}

func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv overlays METASPY_* environment variables onto c. A .env file in the
// working directory is loaded first; variables already set in the process win.
// Unparsable numbers, durations and booleans are ignored.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("METASPY_OUTPUT"); v != "" {
		c.Output = types.OutputMode(v)
	}
	envString("METASPY_OUTPUT_DIR", &c.OutputDir)
	envInt("METASPY_JOBS", &c.Jobs)
	envBool("METASPY_RECURSIVE", &c.Recursive)
	if v := os.Getenv("METASPY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.ExtractTimeout = d
		}
	}
	envString("METASPY_MAPS_URL", &c.MapsURL)
	envInt("METASPY_CACHE_SIZE", &c.CacheSize)
	envString("METASPY_LOG_FILE", &c.LogFile)
	envBool("METASPY_LOG_JSON", &c.LogJSON)
	envInt("METASPY_LOG_MAX_SIZE_MB", &c.LogMaxSizeMB)
	envInt("METASPY_LOG_MAX_BACKUPS", &c.LogMaxBackups)
	envString("METASPY_S3_BUCKET", &c.S3Bucket)
	envString("METASPY_S3_PREFIX", &c.S3Prefix)
	envString("METASPY_S3_REGION", &c.S3Region)
	envString("METASPY_S3_ACCESS_KEY", &c.S3AccessKey)
	envString("METASPY_S3_SECRET_KEY", &c.S3SecretKey)
	if v := os.Getenv("METASPY_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			c.AllowedOrigins = origins
		}
	}
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envBool(key string, dst *bool) {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		*dst = true
	case "0", "false", "no", "off":
		*dst = false
	}
}

func (c *Config) Validate() error {
	mode, ok := types.ParseOutputMode(string(c.Output))
	if !ok {
		return &ValidationError{Field: "output", Message: "output must be one of print, txt, csv, json"}
	}
	c.Output = mode

	if c.ExtractTimeout < 0 {
		return &ValidationError{Field: "extract_timeout", Message: "timeout cannot be negative"}
	}
	if c.Jobs < 1 {
		c.Jobs = 1
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.MapsURL == "" {
		c.MapsURL = DefaultMapsURL
	}
	if c.CacheSize < 1 {
		c.CacheSize = 128
	}
	if c.LogMaxSizeMB < 1 {
		c.LogMaxSizeMB = 10
	}
	if (c.S3AccessKey == "") != (c.S3SecretKey == "") {
		return &ValidationError{Field: "s3_secret_key", Message: "S3 access key and secret key must be set together"}
	}

	return nil
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
