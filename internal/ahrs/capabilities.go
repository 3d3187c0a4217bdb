package ahrs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultRequestTimeout     = 2 * time.Second
	DefaultCapabilityInterval = 15 * time.Second
)

// Capabilities is what the appliance reports as enabled. Every flag is false
// when the appliance could not be asked.
type Capabilities struct {
	TrafficEnabled    bool `json:"traffic_enabled"`
	GPSEnabled        bool `json:"gps_enabled"`
	BarometricEnabled bool `json:"barometric_enabled"`
	AHRSEnabled       bool `json:"ahrs_enabled"`
}

// SimulationCapabilities is what a simulator can always provide.
func SimulationCapabilities() Capabilities {
	return Capabilities{AHRSEnabled: true, BarometricEnabled: true}
}

// ProbeCapabilities asks the appliance at address for its settings. It never
// fails: any transport or decode problem yields all flags false. An empty
// address means simulation and performs no I/O.
func ProbeCapabilities(ctx context.Context, client *http.Client, address string) Capabilities {
	address = strings.TrimSpace(address)
	if address == "" {
		return SimulationCapabilities()
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultRequestTimeout}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	settings, err := getJSONObject(ctx, client, "http://"+address+"/getSettings")
	if err != nil {
		return Capabilities{}
	}
	return Capabilities{
		TrafficEnabled:    boolField(settings, "UAT_Enabled"),
		GPSEnabled:        boolField(settings, "GPS_Enabled"),
		BarometricEnabled: boolField(settings, "BMP_Sensor_Enabled"),
		AHRSEnabled:       boolField(settings, "IMU_Sensor_Enabled"),
	}
}

func boolField(obj map[string]any, key string) bool {
	v, ok := obj[key].(bool)
	return ok && v
}

// getJSONObject fetches url and decodes the body as a JSON object.
func getJSONObject(ctx context.Context, client *http.Client, url string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: status %d", url, resp.StatusCode)
	}
	var obj map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("decode %s: not a JSON object", url)
	}
	return obj, nil
}
