// ABOUTME: Deck configuration with defaults, YAML file overlay and env overrides
// ABOUTME: Command-line flags are applied on top by the binary
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Surface names
const (
	SurfaceTUI     = "tui"
	SurfaceConsole = "console"
	SurfaceNone    = "none"
)

// Config holds all runtime configuration
type Config struct {
	Surface   string          `yaml:"surface"`
	LogFile   string          `yaml:"log_file"`
	KeepAwake bool            `yaml:"keep_awake"`
	Debug     bool            `yaml:"debug"`
	Output    OutputConfig    `yaml:"output"`
	Transport TransportConfig `yaml:"transport"`
	Remote    RemoteConfig    `yaml:"remote"`
	MIDI      MIDIConfig      `yaml:"midi"`
}

// OutputConfig selects and sizes the audio device
type OutputConfig struct {
	Backend     string  `yaml:"backend"`
	SampleRate  int     `yaml:"sample_rate"`
	BlockFrames int     `yaml:"block_frames"`
	BufferMs    int     `yaml:"buffer_ms"`
	Volume      float64 `yaml:"volume"`
}

// TransportConfig shapes tempo, seek and bend behaviour
type TransportConfig struct {
	TempoMin        float64 `yaml:"tempo_min"`
	TempoMax        float64 `yaml:"tempo_max"`
	SeekPlaying     float64 `yaml:"seek_playing"`
	SeekStopped     float64 `yaml:"seek_stopped"`
	SeekCueing      float64 `yaml:"seek_cueing"`
	BendStep        float64 `yaml:"bend_step"`
	BendIntervalMs  int     `yaml:"bend_interval_ms"`
	BendMax         float64 `yaml:"bend_max"`
	NudgeStep       float64 `yaml:"nudge_step"`
	NudgeIntervalMs int     `yaml:"nudge_interval_ms"`
	ScrubStep       float64 `yaml:"scrub_step"`
}

// RemoteConfig controls the websocket surface and its mDNS advertisement
type RemoteConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Name    string `yaml:"name"`
	MDNS    bool   `yaml:"mdns"`
}

// MIDIConfig selects a controller input and how its messages map to gestures
type MIDIConfig struct {
	Enabled bool        `yaml:"enabled"`
	Port    string      `yaml:"port"`
	Channel int         `yaml:"channel"`
	Mapping MIDIMapping `yaml:"mapping"`
}

// MIDIMapping assigns note numbers to buttons and a CC to the tempo fader
type MIDIMapping struct {
	Play        uint8 `yaml:"play"`
	Cue         uint8 `yaml:"cue"`
	SetCue      uint8 `yaml:"set_cue"`
	SeekBack    uint8 `yaml:"seek_back"`
	SeekForward uint8 `yaml:"seek_forward"`
	BendMinus   uint8 `yaml:"bend_minus"`
	BendPlus    uint8 `yaml:"bend_plus"`
	NudgeMinus  uint8 `yaml:"nudge_minus"`
	NudgePlus   uint8 `yaml:"nudge_plus"`
	TempoCC     uint8 `yaml:"tempo_cc"`
}

// Default returns the stock configuration
func Default() Config {
	return Config{
		Surface:   SurfaceTUI,
		LogFile:   "cuedeck.log",
		KeepAwake: true,
		Output: OutputConfig{
			Backend:     "oto",
			SampleRate:  48000,
			BlockFrames: 128,
			BufferMs:    60,
		},
		Transport: TransportConfig{
			TempoMin:        0.9,
			TempoMax:        1.1,
			SeekPlaying:     3,
			SeekStopped:     6,
			SeekCueing:      1,
			BendStep:        0.005,
			BendIntervalMs:  30,
			BendMax:         2,
			NudgeStep:       0.001,
			NudgeIntervalMs: 50,
			ScrubStep:       5,
		},
		Remote: RemoteConfig{
			Port: 8937,
			Name: "cuedeck",
			MDNS: true,
		},
		MIDI: MIDIConfig{
			Channel: -1,
			Mapping: MIDIMapping{
				Play:        36,
				Cue:         37,
				SetCue:      38,
				SeekBack:    39,
				SeekForward: 40,
				BendMinus:   41,
				BendPlus:    42,
				NudgeMinus:  43,
				NudgePlus:   44,
				TempoCC:     16,
			},
		},
	}
}

// Load builds a configuration from defaults, the YAML file at path (if
// any) and CUEDECK_* environment variables, in that order
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Surface = envStr("CUEDECK_SURFACE", c.Surface)
	c.LogFile = envStr("CUEDECK_LOG_FILE", c.LogFile)
	c.KeepAwake = envBool("CUEDECK_KEEP_AWAKE", c.KeepAwake)
	c.Debug = envBool("CUEDECK_DEBUG", c.Debug)

	c.Output.Backend = envStr("CUEDECK_OUTPUT", c.Output.Backend)
	c.Output.SampleRate = envInt("CUEDECK_SAMPLE_RATE", c.Output.SampleRate)
	c.Output.BufferMs = envInt("CUEDECK_BUFFER_MS", c.Output.BufferMs)
	c.Output.Volume = envFloat("CUEDECK_VOLUME", c.Output.Volume)

	c.Transport.TempoMin = envFloat("CUEDECK_TEMPO_MIN", c.Transport.TempoMin)
	c.Transport.TempoMax = envFloat("CUEDECK_TEMPO_MAX", c.Transport.TempoMax)

	c.Remote.Enabled = envBool("CUEDECK_REMOTE", c.Remote.Enabled)
	c.Remote.Port = envInt("CUEDECK_REMOTE_PORT", c.Remote.Port)
	c.Remote.Name = envStr("CUEDECK_NAME", c.Remote.Name)

	c.MIDI.Enabled = envBool("CUEDECK_MIDI", c.MIDI.Enabled)
	c.MIDI.Port = envStr("CUEDECK_MIDI_PORT", c.MIDI.Port)
}

// Validate rejects configurations the deck cannot run with
func (c Config) Validate() error {
	var errs []error

	switch c.Surface {
	case SurfaceTUI, SurfaceConsole, SurfaceNone:
	default:
		errs = append(errs, fmt.Errorf("unknown surface %q", c.Surface))
	}
	switch c.Output.Backend {
	case "oto", "null":
	default:
		errs = append(errs, fmt.Errorf("unknown output backend %q", c.Output.Backend))
	}
	if c.Output.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample rate must be positive, got %d", c.Output.SampleRate))
	}
	if c.Output.BlockFrames <= 0 {
		errs = append(errs, fmt.Errorf("block frames must be positive, got %d", c.Output.BlockFrames))
	}
	t := c.Transport
	if t.TempoMin <= 0 || t.TempoMin > 1 || t.TempoMax < 1 {
		errs = append(errs, fmt.Errorf("tempo range [%g, %g] must contain 1", t.TempoMin, t.TempoMax))
	}
	if t.BendMax < 1 {
		errs = append(errs, fmt.Errorf("bend max must be at least 1, got %g", t.BendMax))
	}
	if t.BendIntervalMs <= 0 || t.NudgeIntervalMs <= 0 {
		errs = append(errs, errors.New("ramp intervals must be positive"))
	}
	if c.Remote.Enabled && (c.Remote.Port <= 0 || c.Remote.Port > 65535) {
		errs = append(errs, fmt.Errorf("invalid remote port %d", c.Remote.Port))
	}
	if c.MIDI.Channel < -1 || c.MIDI.Channel > 15 {
		errs = append(errs, fmt.Errorf("midi channel must be -1 (any) or 0-15, got %d", c.MIDI.Channel))
	}

	return errors.Join(errs...)
}

// Buffer returns the output buffer as a duration
func (o OutputConfig) Buffer() time.Duration {
	return time.Duration(o.BufferMs) * time.Millisecond
}

// BendInterval returns the bend ramp step interval
func (t TransportConfig) BendInterval() time.Duration {
	return time.Duration(t.BendIntervalMs) * time.Millisecond
}

// NudgeInterval returns the tempo nudge step interval
func (t TransportConfig) NudgeInterval() time.Duration {
	return time.Duration(t.NudgeIntervalMs) * time.Millisecond
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
