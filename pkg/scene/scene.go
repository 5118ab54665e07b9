// Package scene holds the demos the viewer cycles through. Each scene owns
// its buffers and pipeline and encodes one render pass per frame.
package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/teapot/pkg/affine3d"
	"github.com/taigrr/teapot/pkg/models"
	"github.com/taigrr/teapot/pkg/render"
)

// ErrNoScene is returned by New for an unknown scene name.
var ErrNoScene = errors.New("no such scene")

// Names lists the scenes in the order the viewer's number keys select them.
var Names = []string{"triangle", "star", "teapot"}

// Scene is one demo.
type Scene interface {
	Name() string
	// Setup is called before the first frame and whenever the target
	// aspect ratio changes.
	Setup(aspect float32) error
	Update(dt float64)
	Encode(r *render.Rasterizer) error
	Impulse(v float64)
	Reset()
	SetFillMode(m render.FillMode)
}

// New builds the scene called name. mesh is only used by the teapot; nil
// selects a generated sphere.
func New(name string, cfg Config, mesh *models.Mesh) (Scene, error) {
	switch name {
	case "triangle":
		return NewHelloTriangle(), nil
	case "star":
		return NewStar(cfg), nil
	case "teapot":
		if mesh == nil {
			mesh = models.NewSphere(24, 48)
		}
		return NewTeapot(mesh, cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrNoScene, name)
	}
}

// WireframeColor is the edge color of the x-ray fill mode.
var WireframeColor = affine3d.RGBA(0, 1, 0.5, 1)

// passState is the per-pass state shared by every scene.
type passState struct {
	fill render.FillMode
	xray *render.Pipeline // Built from the solid pipeline on first use
}

func (p *passState) SetFillMode(m render.FillMode) { p.fill = m }

// apply sets the fill mode on enc and selects solid, or in x-ray mode a copy
// of it that draws every edge in WireframeColor.
func (p *passState) apply(enc *render.Encoder, solid *render.Pipeline) {
	enc.SetFillMode(p.fill)
	if p.fill != render.FillLines {
		enc.SetPipeline(solid)
		return
	}
	if p.xray == nil {
		xray := *solid
		xray.Label = solid.Label + " x-ray"
		xray.FragmentFunction = render.SolidFragment(WireframeColor)
		p.xray = &xray
	}
	enc.SetPipeline(p.xray)
}

// maxCatchUp bounds how much lost time one spinner update replays.
const maxCatchUp = 0.25

// spinner tracks an angle whose angular velocity springs back to a resting
// speed after an impulse. The spring is built for a fixed frame rate, so
// both angle and spring advance in whole 1/fps steps and elapsed time that
// does not fill a step carries over to the next update.
type spinner struct {
	Angle    float64
	Velocity float64

	rest    float64
	fps     int
	spring  harmonica.Spring
	accel   float64 // spring velocity of Velocity
	pending float64 // seconds not yet stepped
}

func newSpinner(fps int, rest float64) spinner {
	if fps <= 0 {
		fps = 60
	}
	return spinner{
		Velocity: rest,
		rest:     rest,
		fps:      fps,
		// Critically damped, no overshoot
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update replays dt seconds as fixed frames.
func (s *spinner) Update(dt float64) {
	step := 1 / float64(s.fps)
	s.pending = min(s.pending+dt, maxCatchUp)
	// Tolerate rounding so n updates of 1/fps give n steps.
	for s.pending >= step*(1-1e-9) {
		s.pending -= step
		s.Angle = math.Mod(s.Angle+s.Velocity*step, 2*math.Pi)
		s.Velocity, s.accel = s.spring.Update(s.Velocity, s.accel, s.rest)
	}
	s.pending = max(s.pending, 0)
}

func (s *spinner) Impulse(v float64) {
	s.Velocity += v
}

func (s *spinner) Reset() {
	*s = newSpinner(s.fps, s.rest)
}
