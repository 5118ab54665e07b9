// teapot - Affine 3D demos in your terminal
// A hello-world triangle, a spinning star and a diffusely lit teapot, drawn
// by a small software GPU with half-block characters.
//
// Controls:
//
//	1/2/3     - Triangle, star, teapot
//	Space     - Spin
//	R         - Reset rotation
//	X         - Toggle wireframe mode (x-ray)
//	Esc       - Quit
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/teapot/pkg/models"
	"github.com/taigrr/teapot/pkg/render"
	"github.com/taigrr/teapot/pkg/scene"
)

// options are the command line settings.
type options struct {
	scene    string
	model    string
	config   string
	fps      int
	logPath  string
	snapshot string
	size     string
}

func main() {
	var opts options

	cmd := &cobra.Command{
		Use:   "teapot",
		Short: "Affine 3D demos in your terminal",
		Long: `A hello-world triangle, a spinning star and a diffusely lit teapot,
drawn by a small software GPU with half-block characters.

Controls:
  1/2/3   Triangle, star, teapot
  Space   Spin
  R       Reset rotation
  X       Toggle wireframe
  Esc     Quit`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.scene, "scene", "s", "teapot", "scene to start with (triangle, star, teapot)")
	f.StringVarP(&opts.model, "model", "m", "", "model for the teapot scene (OBJ/GLTF/GLB), default is a sphere")
	f.StringVarP(&opts.config, "config", "c", "", "YAML file overriding the scene settings")
	f.IntVar(&opts.fps, "fps", 0, "target FPS (overrides the config)")
	f.StringVar(&opts.logPath, "log", "", "write logs to this file while the viewer runs")
	f.StringVar(&opts.snapshot, "snapshot", "", "render one frame to this PNG and exit")
	f.StringVar(&opts.size, "size", "160x100", "snapshot size in pixels (WxH)")

	if err := fang.Execute(context.Background(), cmd); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := scene.DefaultConfig()
	if opts.config != "" {
		var err error
		if cfg, err = scene.LoadConfig(opts.config); err != nil {
			return err
		}
	}
	if opts.fps > 0 {
		cfg.FPS = opts.fps
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	var mesh *models.Mesh
	if opts.model != "" {
		var err error
		if mesh, err = models.Load(opts.model); err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		logger.Info("loaded model",
			"file", filepath.Base(opts.model),
			"vertices", mesh.VertexCount(),
			"triangles", mesh.TriangleCount())
	}

	if opts.snapshot != "" {
		return snapshot(logger, cfg, mesh, opts)
	}

	// The terminal UI owns stderr from here on.
	viewLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.logPath != "" {
		f, err := os.OpenFile(opts.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		viewLogger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newViewer(viewLogger, cfg, mesh).run(ctx, opts.scene)
}

// snapshot renders one frame of the selected scene without a terminal.
func snapshot(logger *slog.Logger, cfg scene.Config, mesh *models.Mesh, opts options) error {
	var w, h int
	if _, err := fmt.Sscanf(opts.size, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return fmt.Errorf("invalid size %q (use WxH)", opts.size)
	}

	s, err := scene.New(opts.scene, cfg, mesh)
	if err != nil {
		return err
	}
	fb := render.NewFramebuffer(w, h)
	r := render.NewRasterizer(fb)
	if err := s.Setup(fb.Aspect()); err != nil {
		return err
	}
	if err := s.Encode(r); err != nil {
		return fmt.Errorf("encode %s: %w", s.Name(), err)
	}
	if err := fb.SavePNG(opts.snapshot); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	logger.Info("saved snapshot",
		"scene", s.Name(),
		"path", opts.snapshot,
		"triangles", r.Stats.Triangles,
		"drawn", r.Stats.Drawn,
		"culled", r.Stats.Culled,
		"clipped", r.Stats.Clipped)
	return nil
}

// viewer is the interactive terminal shell around the scenes.
type viewer struct {
	log  *slog.Logger
	cfg  scene.Config
	mesh *models.Mesh

	term   *uv.Terminal
	queue  *render.FrameQueue
	raster *render.Rasterizer

	scenes  map[string]scene.Scene
	current scene.Scene
	fill    render.FillMode
	aspect  float32
}

func newViewer(logger *slog.Logger, cfg scene.Config, mesh *models.Mesh) *viewer {
	return &viewer{
		log:    logger,
		cfg:    cfg,
		mesh:   mesh,
		scenes: make(map[string]scene.Scene),
		aspect: 1,
	}
}

func (v *viewer) run(ctx context.Context, name string) error {
	if err := v.selectScene(name); err != nil {
		return err
	}

	v.term = uv.DefaultTerminal()

	width, height, err := v.term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := v.term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	v.term.EnterAltScreen()
	v.term.HideCursor()
	if err := v.resize(width, height); err != nil {
		v.cleanup()
		return err
	}

	err = v.loop(ctx)
	v.cleanup()
	return err
}

func (v *viewer) loop(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(v.cfg.FPS))
	defer ticker.Stop()

	events := v.term.Events()
	lastFrame := time.Now()
	statsTime, frames := lastFrame, 0

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			quit, err := v.handle(ev)
			if quit || err != nil {
				return err
			}

		case now := <-ticker.C:
			dt := min(now.Sub(lastFrame).Seconds(), 0.1)
			lastFrame = now

			v.current.Update(dt)
			if err := v.frame(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}

			frames++
			if elapsed := now.Sub(statsTime); elapsed >= time.Second {
				v.log.Debug("frame stats",
					"scene", v.current.Name(),
					"fps", float64(frames)/elapsed.Seconds(),
					"presented", v.queue.Presented(),
					"drawn", v.raster.Stats.Drawn,
					"culled", v.raster.Stats.Culled,
					"clipped", v.raster.Stats.Clipped)
				statsTime, frames = now, 0
			}
		}
	}
}

// frame encodes the current scene into the next free framebuffer and hands
// it to the presenter.
func (v *viewer) frame(ctx context.Context) error {
	fb, err := v.queue.Next(ctx)
	if err != nil {
		return err
	}

	v.raster.SetTarget(fb)
	if err := v.current.Encode(v.raster); err != nil {
		v.queue.Discard(fb)
		return fmt.Errorf("encode %s: %w", v.current.Name(), err)
	}
	v.queue.Present(fb)

	if err := v.queue.Err(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

// handle reacts to one terminal event and reports whether to quit.
func (v *viewer) handle(ev uv.Event) (bool, error) {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		return false, v.resize(ev.Width, ev.Height)

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
			return true, nil
		case ev.MatchString("1"):
			return false, v.selectScene("triangle")
		case ev.MatchString("2"):
			return false, v.selectScene("star")
		case ev.MatchString("3"):
			return false, v.selectScene("teapot")
		case ev.MatchString("space"):
			// Random direction, at least 2 rad/s
			impulse := 2 + rand.Float64()*2
			if rand.Intn(2) == 0 {
				impulse = -impulse
			}
			v.current.Impulse(impulse)
		case ev.MatchString("r"):
			v.current.Reset()
		case ev.MatchString("x"):
			if v.fill == render.FillLines {
				v.fill = render.FillSolid
			} else {
				v.fill = render.FillLines
			}
			v.current.SetFillMode(v.fill)
		}
	}
	return false, nil
}

// selectScene switches to the named scene, building it on first use.
func (v *viewer) selectScene(name string) error {
	s, ok := v.scenes[name]
	if !ok {
		var err error
		if s, err = scene.New(name, v.cfg, v.mesh); err != nil {
			return err
		}
		v.scenes[name] = s
	}

	s.SetFillMode(v.fill)
	if err := s.Setup(v.aspect); err != nil {
		return fmt.Errorf("setup %s: %w", name, err)
	}
	v.current = s
	v.log.Info("scene selected", "scene", name)
	return nil
}

// resize rebuilds the frame queue for a new terminal size. Each terminal
// row holds two framebuffer rows.
func (v *viewer) resize(width, height int) error {
	if v.queue != nil {
		if err := v.queue.Close(); err != nil {
			return fmt.Errorf("display: %w", err)
		}
	}

	v.term.Erase()
	v.term.Resize(width, height)

	v.queue = render.NewFrameQueue(v.term, width, height*2)
	fb := render.NewFramebuffer(width, height*2)
	if v.raster == nil {
		v.raster = render.NewRasterizer(fb)
	} else {
		v.raster.SetTarget(fb)
	}

	v.aspect = fb.Aspect()
	v.log.Debug("resized", "cols", width, "rows", height, "aspect", v.aspect)
	return v.current.Setup(v.aspect)
}

func (v *viewer) cleanup() {
	if v.queue != nil {
		if err := v.queue.Close(); err != nil {
			v.log.Warn("closing frame queue", "err", err)
		}
	}
	v.term.ExitAltScreen()
	v.term.ShowCursor()
	v.term.Shutdown(context.Background())
}
