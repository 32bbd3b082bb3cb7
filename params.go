package glowtree

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Palette holds the five named colors as hex strings. Needle, Light, Bauble
// and Gold are keyed by Tag; Star colors the crowning ornament.
type Palette struct {
	Needle string `yaml:"needle"`
	Light  string `yaml:"light"`
	Bauble string `yaml:"bauble"`
	Gold   string `yaml:"gold"`
	Star   string `yaml:"star"`
}

// DefaultPalette returns the stock colors.
func DefaultPalette() Palette {
	return Palette{
		Needle: "#2e8b57",
		Light:  "#fff4c2",
		Bauble: "#d42a3c",
		Gold:   "#ffc94a",
		Star:   "#fff1a8",
	}
}

// Colors is a parsed Palette.
type Colors struct {
	Tags [tagCount]Color
	Star Color
}

// ForTag returns the color for tag t, or white for an unknown tag.
func (c Colors) ForTag(t Tag) Color {
	if t >= tagCount {
		return ColorWhite
	}
	return c.Tags[t]
}

// Parse converts the hex strings into Colors.
func (p Palette) Parse() (Colors, error) {
	var c Colors
	fields := []struct {
		name string
		hex  string
		dst  *Color
	}{
		{"needle", p.Needle, &c.Tags[TagNeedle]},
		{"light", p.Light, &c.Tags[TagLight]},
		{"bauble", p.Bauble, &c.Tags[TagBauble]},
		{"gold", p.Gold, &c.Tags[TagGold]},
		{"star", p.Star, &c.Star},
	}
	for _, f := range fields {
		col, err := ParseHexColor(f.hex)
		if err != nil {
			return Colors{}, fmt.Errorf("color %s: %w", f.name, err)
		}
		*f.dst = col
	}
	return c, nil
}

// Params is the shared configuration read by the scene and by the view.
// Changes are delivered to a Scene through ApplyParams, never by mutation.
type Params struct {
	ParticleCount   int     `yaml:"particleCount"`   // triggers a rebuild when changed
	Text            string  `yaml:"text"`            // triggers a rebuild when changed
	RotationSpeed   float64 `yaml:"rotationSpeed"`   // group yaw rate, rad/s
	AutoRotateSpeed float64 `yaml:"autoRotateSpeed"` // camera orbit rate, rad/s
	SpeedFactor     float64 `yaml:"speedFactor"`     // lerp rate per second
	TapThresholdMs  int     `yaml:"tapThresholdMs"`  // press shorter than this is a tap
	LightIntensity  float64 `yaml:"lightIntensity"`  // view only
	BloomStrength   float64 `yaml:"bloomStrength"`   // view only
	BloomRadius     int     `yaml:"bloomRadius"`     // view only, pixels
	Colors          Palette `yaml:"colors"`
	Debug           bool    `yaml:"debug"`
}

// DefaultParams returns the stock configuration.
func DefaultParams() Params {
	return Params{
		ParticleCount:   2000,
		Text:            "Merry Christmas",
		RotationSpeed:   0.3,
		AutoRotateSpeed: 0.25,
		SpeedFactor:     3.0,
		TapThresholdMs:  200,
		LightIntensity:  1.0,
		BloomStrength:   1.2,
		BloomRadius:     16,
		Colors:          DefaultPalette(),
	}
}

// TapThreshold returns TapThresholdMs as a duration.
func (p Params) TapThreshold() time.Duration {
	return time.Duration(p.TapThresholdMs) * time.Millisecond
}

// Tuning returns the animation constants implied by p.
func (p Params) Tuning() Tuning {
	t := DefaultTuning()
	t.SpeedFactor = p.SpeedFactor
	t.RotationSpeed = p.RotationSpeed
	return t
}

// LoadParams reads, defaults and validates a YAML configuration file.
func LoadParams(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("read params %s: %w", path, err)
	}
	p, err := ParseParams(data)
	if err != nil {
		return Params{}, fmt.Errorf("params %s: %w", path, err)
	}
	return p, nil
}

// ParseParams decodes YAML, fills missing fields with defaults and validates.
func ParseParams(data []byte) (Params, error) {
	var p Params
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Params{}, fmt.Errorf("parse params: %w", err)
	}
	p.applyDefaults()
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Marshal encodes p as YAML.
func (p Params) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal params: %w", err)
	}
	return data, nil
}

// applyDefaults fills zero-valued fields. Zero speeds are legitimate values
// for the rotation rates, so those are left alone.
func (p *Params) applyDefaults() {
	d := DefaultParams()
	if p.ParticleCount == 0 {
		p.ParticleCount = d.ParticleCount
	}
	if p.Text == "" {
		p.Text = d.Text
	}
	if p.SpeedFactor == 0 {
		p.SpeedFactor = d.SpeedFactor
	}
	if p.TapThresholdMs == 0 {
		p.TapThresholdMs = d.TapThresholdMs
	}
	if p.LightIntensity == 0 {
		p.LightIntensity = d.LightIntensity
	}
	if p.BloomRadius == 0 {
		p.BloomRadius = d.BloomRadius
	}
	c := &p.Colors
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&c.Needle, d.Colors.Needle)
	fill(&c.Light, d.Colors.Light)
	fill(&c.Bauble, d.Colors.Bauble)
	fill(&c.Gold, d.Colors.Gold)
	fill(&c.Star, d.Colors.Star)
}

// Validate checks ranges and colors.
func (p Params) Validate() error {
	if p.ParticleCount <= 0 {
		return fmt.Errorf("particleCount %d: %w", p.ParticleCount, ErrInvalidCount)
	}
	if p.SpeedFactor <= 0 {
		return fmt.Errorf("speedFactor must be positive, got %v", p.SpeedFactor)
	}
	if p.TapThresholdMs <= 0 {
		return fmt.Errorf("tapThresholdMs must be positive, got %d", p.TapThresholdMs)
	}
	if p.BloomStrength < 0 || p.LightIntensity < 0 {
		return fmt.Errorf("light and bloom intensities must not be negative")
	}
	if p.BloomRadius < 0 {
		return fmt.Errorf("bloomRadius must not be negative, got %d", p.BloomRadius)
	}
	if _, err := p.Colors.Parse(); err != nil {
		return err
	}
	return nil
}

// ParamsChange reports which groups of fields differ between two Params.
type ParamsChange struct {
	Rebuild bool // count or text
	Colors  bool
	Tuning  bool // speeds and tap threshold
	View    bool // light, bloom, auto-rotate speed, debug overlay
}

// Any reports whether anything changed.
func (c ParamsChange) Any() bool {
	return c.Rebuild || c.Colors || c.Tuning || c.View
}

// Diff compares old against p.
func (p Params) Diff(old Params) ParamsChange {
	return ParamsChange{
		Rebuild: p.ParticleCount != old.ParticleCount || p.Text != old.Text,
		Colors:  p.Colors != old.Colors,
		Tuning: p.RotationSpeed != old.RotationSpeed ||
			p.SpeedFactor != old.SpeedFactor ||
			p.TapThresholdMs != old.TapThresholdMs,
		View: p.LightIntensity != old.LightIntensity ||
			p.BloomStrength != old.BloomStrength ||
			p.BloomRadius != old.BloomRadius ||
			p.AutoRotateSpeed != old.AutoRotateSpeed ||
			p.Debug != old.Debug,
	}
}
