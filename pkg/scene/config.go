package scene

import (
	"errors"
	"fmt"
	"os"

	"github.com/taigrr/teapot/pkg/affine3d"
	"gopkg.in/yaml.v3"
)

// Config holds the tunable render settings of the scenes.
type Config struct {
	Color          [4]float32 `yaml:"color"`
	LightPosition  [4]float32 `yaml:"light_position"` // Eye space
	Reflectivity   [3]float32 `yaml:"reflectivity"`
	LightIntensity [3]float32 `yaml:"light_intensity"`
	Clear          [4]float32 `yaml:"clear"`

	FieldOfView float32 `yaml:"fov"` // Degrees
	Near        float32 `yaml:"near"`
	Far         float32 `yaml:"far"`
	Distance    float32 `yaml:"distance"` // Model to eye

	Spin float64 `yaml:"spin"` // Resting angular velocity, radians per second
	FPS  int     `yaml:"fps"`
}

// DefaultConfig returns the settings the teapot was designed with.
func DefaultConfig() Config {
	return Config{
		Color:          [4]float32{0.7, 0.47, 0.18, 1.0},
		LightPosition:  [4]float32{5.0, 5.0, 2.0, 1.0},
		Reflectivity:   [3]float32{1.0, 1.0, 1.0},
		LightIntensity: [3]float32{2.0, 2.0, 2.0},
		Clear:          [4]float32{30.0 / 255, 30.0 / 255, 40.0 / 255, 1},
		FieldOfView:    60,
		Near:           0.1,
		Far:            100,
		Distance:       2.5,
		Spin:           0.6,
		FPS:            60,
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Keys missing from the
// file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports settings that cannot produce a picture. The projection
// itself accepts anything, so this is only a courtesy for the command line.
func (c Config) Validate() error {
	var errs []error
	if c.Near <= 0 {
		errs = append(errs, fmt.Errorf("near must be positive, got %v", c.Near))
	}
	if c.Far <= c.Near {
		errs = append(errs, fmt.Errorf("far (%v) must be greater than near (%v)", c.Far, c.Near))
	}
	if c.FieldOfView <= 0 || c.FieldOfView >= 180 {
		errs = append(errs, fmt.Errorf("fov must be in (0, 180) degrees, got %v", c.FieldOfView))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	return errors.Join(errs...)
}

func (c Config) color() affine3d.Vector4 {
	return affine3d.V4(c.Color[0], c.Color[1], c.Color[2], c.Color[3])
}

func (c Config) lightPosition() affine3d.Vector4 {
	return affine3d.V4(c.LightPosition[0], c.LightPosition[1], c.LightPosition[2], c.LightPosition[3])
}

func (c Config) reflectivity() affine3d.Vector3 {
	return affine3d.V3(c.Reflectivity[0], c.Reflectivity[1], c.Reflectivity[2])
}

func (c Config) lightIntensity() affine3d.Vector3 {
	return affine3d.V3(c.LightIntensity[0], c.LightIntensity[1], c.LightIntensity[2])
}

func (c Config) clearColor() affine3d.ColorRGBA {
	return affine3d.RGBA(c.Clear[0], c.Clear[1], c.Clear[2], c.Clear[3])
}
