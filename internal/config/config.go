package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Data source selections understood by the orientation provider.
const (
	DataSourceStratux    = "stratux"
	DataSourceSimulation = "simulation"
	DataSourceNone       = "none"
)

// Distance unit selections for the traffic list.
const (
	UnitsStatute = "statute"
	UnitsKnots   = "knots"
	UnitsMetric  = "metric"
)

type Config struct {
	DataSource     string  `yaml:"data_source"`
	StratuxAddress string  `yaml:"stratux_address"`
	ReverseRoll    bool    `yaml:"reverse_roll"`
	ReversePitch   bool    `yaml:"reverse_pitch"`
	FlipHorizontal bool    `yaml:"flip_horizontal"`
	FlipVertical   bool    `yaml:"flip_vertical"`
	MaxFramerate   float64 `yaml:"max_framerate"`
	DistanceUnits  string  `yaml:"distance_units"`

	AHRS       AHRSConfig       `yaml:"ahrs"`
	Simulation SimulationConfig `yaml:"simulation"`
	Traffic    TrafficConfig    `yaml:"traffic"`
	Web        WebConfig        `yaml:"web"`
	Log        LogConfig        `yaml:"log"`
}

type AHRSConfig struct {
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	CapabilityInterval time.Duration `yaml:"capability_interval"`
}

type SimulationConfig struct {
	CenterLatDeg float64       `yaml:"center_lat_deg"`
	CenterLonDeg float64       `yaml:"center_lon_deg"`
	RadiusNm     float64       `yaml:"radius_nm"`
	Period       time.Duration `yaml:"period"`
}

type TrafficConfig struct {
	Enable         bool          `yaml:"enable"`
	MaxTargets     int           `yaml:"max_targets"`
	TTL            time.Duration `yaml:"ttl"`
	SimulatedCount int           `yaml:"simulated_count"`
}

type WebConfig struct {
	Listen string `yaml:"listen"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	if err := DefaultAndValidate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultAndValidate fills in defaults and rejects settings the HUD cannot run with.
//
// An unrecognised data_source is deliberately accepted: the provider treats it
// as "no source" and the HUD shows the data-unavailable state.
func DefaultAndValidate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	cfg.DataSource = strings.ToLower(strings.TrimSpace(cfg.DataSource))
	if cfg.DataSource == "" {
		cfg.DataSource = DataSourceSimulation
	}
	cfg.StratuxAddress = strings.TrimSpace(cfg.StratuxAddress)
	if cfg.DataSource == DataSourceStratux && cfg.StratuxAddress == "" {
		return fmt.Errorf("stratux_address is required when data_source is 'stratux'")
	}

	if cfg.MaxFramerate < 0 {
		return fmt.Errorf("max_framerate must be > 0")
	}
	if cfg.MaxFramerate == 0 {
		cfg.MaxFramerate = 30
	}

	cfg.DistanceUnits = strings.ToLower(strings.TrimSpace(cfg.DistanceUnits))
	switch cfg.DistanceUnits {
	case "":
		cfg.DistanceUnits = UnitsStatute
	case UnitsStatute, UnitsKnots, UnitsMetric:
	default:
		return fmt.Errorf("distance_units must be one of statute, knots, metric (got %q)", cfg.DistanceUnits)
	}

	if cfg.AHRS.RequestTimeout <= 0 {
		cfg.AHRS.RequestTimeout = 2 * time.Second
	}
	if cfg.AHRS.CapabilityInterval <= 0 {
		cfg.AHRS.CapabilityInterval = 15 * time.Second
	}

	if cfg.Simulation.RadiusNm <= 0 {
		cfg.Simulation.RadiusNm = 0.5
	}
	if cfg.Simulation.Period <= 0 {
		cfg.Simulation.Period = 120 * time.Second
	}

	if cfg.Traffic.MaxTargets <= 0 {
		cfg.Traffic.MaxTargets = 200
	}
	if cfg.Traffic.TTL <= 0 {
		cfg.Traffic.TTL = 30 * time.Second
	}
	if cfg.Traffic.SimulatedCount < 0 {
		return fmt.Errorf("traffic.simulated_count must be >= 0")
	}

	cfg.Web.Listen = strings.TrimSpace(cfg.Web.Listen)

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	switch cfg.Log.Level {
	case "":
		cfg.Log.Level = "info"
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error (got %q)", cfg.Log.Level)
	}
	cfg.Log.File = strings.TrimSpace(cfg.Log.File)

	return nil
}
