package gui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/gravsim/internal/audio"
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/compute"
	"github.com/san-kum/gravsim/internal/force"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	screenWidth  = 1280
	screenHeight = 720
)

// App renders the running simulation as spheres in a raylib window. With
// UseGPU set it steps the all-pairs kernel on the window's own GL context
// through the OpenGL compute backend instead of the CPU grid.
type App struct {
	Simulator *sim.Simulator
	Kernel    string
	UseGPU    bool
	UseAudio  bool
	Scale     float32 // world units to screen units

	gl       *compute.OpenGLBackend
	sonifier *audio.Sonifier
	snapshot []body.Particle
	stepsPer int
	paused   bool
}

func New(s *sim.Simulator, kernel string) *App {
	return &App{
		Simulator: s,
		Kernel:    kernel,
		Scale:     10,
		stepsPer:  1,
	}
}

func (a *App) Run() error {
	rl.InitWindow(screenWidth, screenHeight, "gravsim")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	camera := rl.Camera3D{
		Position:   rl.NewVector3(0, 12, 28),
		Target:     rl.NewVector3(0, 0, 0),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}

	if a.UseGPU && a.Kernel == "naive" {
		a.gl = compute.NewOpenGLBackend(len(a.Simulator.Particles()))
		if err := a.gl.Init(a.Simulator.Particles()); err != nil {
			return fmt.Errorf("opengl backend: %w", err)
		}
		defer a.gl.Cleanup()
		a.snapshot = make([]body.Particle, len(a.Simulator.Particles()))
		copy(a.snapshot, a.Simulator.Particles())
	}

	if a.UseAudio {
		a.sonifier = audio.NewSonifier()
		if err := a.sonifier.Start(); err == nil {
			defer a.sonifier.Stop()
		} else {
			a.sonifier = nil
		}
	}

	for !rl.WindowShouldClose() {
		a.handleInput()

		if !a.paused {
			if err := a.advance(); err != nil {
				return err
			}
		}

		ps := a.particles()
		if a.sonifier != nil {
			p := a.Simulator.Params()
			a.sonifier.UpdateEnergy(force.TotalEnergy(ps, p.G, p.E))
		}

		rl.UpdateCamera(&camera, rl.CameraOrbital)

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(8, 8, 16, 255))
		rl.BeginMode3D(camera)
		a.drawParticles(ps)
		rl.EndMode3D()
		a.drawHUD(ps)
		rl.EndDrawing()
	}
	return nil
}

func (a *App) advance() error {
	for i := 0; i < a.stepsPer; i++ {
		if a.gl != nil {
			a.gl.StepGPU(a.Simulator.Params())
		} else if err := a.Simulator.Step(); err != nil {
			return err
		}
	}
	if a.gl != nil {
		a.gl.Download(a.snapshot)
	}
	return nil
}

func (a *App) particles() []body.Particle {
	if a.gl != nil {
		return a.snapshot
	}
	return a.Simulator.Particles()
}

func (a *App) handleInput() {
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		a.paused = !a.paused
	case rl.IsKeyPressed(rl.KeyUp):
		if a.stepsPer < 64 {
			a.stepsPer *= 2
		}
	case rl.IsKeyPressed(rl.KeyDown):
		if a.stepsPer > 1 {
			a.stepsPer /= 2
		}
	}
}

func (a *App) drawParticles(ps []body.Particle) {
	for i := range ps {
		p := &ps[i]
		speed := math.Sqrt(float64(p.Vel.LengthSq()))
		val := uint8(math.Min(100+speed*400, 255))

		pos := rl.NewVector3(p.Pos.X*a.Scale, p.Pos.Y*a.Scale, p.Pos.Z*a.Scale)
		rl.DrawSphere(pos, 0.05*a.Scale/2, rl.NewColor(val, val, 255, 255))
	}
}

func (a *App) drawHUD(ps []body.Particle) {
	rl.DrawText(fmt.Sprintf("%s  bodies=%d  t=%.2f  steps/frame=%d",
		a.Kernel, len(ps), a.Simulator.Time(), a.stepsPer), 10, 10, 20, rl.RayWhite)
	if a.gl != nil {
		rl.DrawText("backend: opengl compute", 10, 34, 20, rl.SkyBlue)
	}
	if a.paused {
		rl.DrawText("paused", 10, 58, 20, rl.Orange)
	}
}
