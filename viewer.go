package main

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gridarena/components"
	"github.com/pthm-cable/gridarena/config"
	"github.com/pthm-cable/gridarena/sim"
)

// Viewer renders the arena with raylib. It only reads simulation state;
// all mutation goes through the Sim API.
type Viewer struct {
	sim  *sim.Sim
	cfg  *config.Config
	cell float32 // pixels per grid cell
}

// NewViewer creates a viewer bound to a simulation.
func NewViewer(s *sim.Sim, cfg *config.Config) *Viewer {
	cell := float32(cfg.Screen.CellPixels)
	if cell <= 0 {
		cell = 32
	}
	return &Viewer{sim: s, cfg: cfg, cell: cell}
}

// HandleInput processes keyboard controls.
func (v *Viewer) HandleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		v.sim.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.sim.Reload()
	}
	if rl.IsKeyPressed(rl.KeyB) {
		v.sim.SetBounce(!v.sim.Bounce())
	}
	if rl.IsKeyPressed(rl.KeyP) {
		v.sim.LogPerfStats()
	}
}

// Draw renders one frame: grid, items, then the HUD.
func (v *Viewer) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.RayWhite)

	v.drawGrid()
	v.drawItems()
	v.drawHUD()

	rl.EndDrawing()
}

// drawGrid renders the arena cell lines and the boundary.
func (v *Viewer) drawGrid() {
	w := int32(v.cfg.Arena.Width)
	h := int32(v.cfg.Arena.Height)
	cell := v.cell

	for x := int32(0); x <= w; x++ {
		px := int32(float32(x) * cell)
		rl.DrawLine(px, 0, px, int32(float32(h)*cell), rl.LightGray)
	}
	for y := int32(0); y <= h; y++ {
		py := int32(float32(y) * cell)
		rl.DrawLine(0, py, int32(float32(w)*cell), py, rl.LightGray)
	}

	// Anchor boundary, one cell inside the grid edge
	b := v.sim.Bounds()
	rl.DrawRectangleLinesEx(rl.Rectangle{
		X:      b.MinX * cell,
		Y:      b.MinY * cell,
		Width:  b.Width() * cell,
		Height: b.Height() * cell,
	}, 2, rl.Gray)
}

// drawItems renders every item as a rotated rectangle, colored by kind.
func (v *Viewer) drawItems() {
	cell := v.cell
	v.sim.EachItem(func(e ecs.Entity, pose *components.Pose, item *components.Item) {
		w := pose.W * cell
		h := pose.H * cell
		rect := rl.Rectangle{
			// DrawRectanglePro positions by the rotation origin, so place it
			// at the visual center.
			X:      (pose.X+pose.W/2)*cell,
			Y:      (pose.Y+pose.H/2)*cell,
			Width:  w,
			Height: h,
		}
		origin := rl.Vector2{X: w / 2, Y: h / 2}
		rl.DrawRectanglePro(rect, origin, pose.Rotation, kindColor(item.Kind))

		if v.sim.Contact(e) != nil {
			rl.DrawCircle(int32(rect.X), int32(rect.Y), 3, rl.Red)
		}
	})
}

// drawHUD renders the status line and the control panel.
func (v *Viewer) drawHUD() {
	s := v.sim
	status := fmt.Sprintf("tick %d | items %d | resting %d | %d FPS",
		s.Tick(), s.ItemCount(), s.RestingCount(), rl.GetFPS())
	if s.Paused() {
		status += " | PAUSED"
	}
	rl.DrawText(status, 10, 10, 18, rl.DarkGray)

	panelX := float32(v.cfg.Screen.Width - 220)
	panelY := float32(10)

	rl.DrawText("Speed", int32(panelX), int32(panelY), 14, rl.Gray)
	panelY += 18
	newSpeed := gui.SliderBar(
		rl.Rectangle{X: panelX, Y: panelY, Width: 150, Height: 20},
		"1", "10",
		float32(s.Speed()), 1, 10,
	)
	rl.DrawText(fmt.Sprintf("%dx", s.Speed()), int32(panelX+160), int32(panelY+2), 16, rl.DarkGray)
	if int(newSpeed) != s.Speed() {
		s.SetSpeed(int(newSpeed))
	}
	panelY += 30

	if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 150, Height: 26}, bounceLabel(s.Bounce())) {
		s.SetBounce(!s.Bounce())
	}
	panelY += 32

	if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 150, Height: 26}, "Reload [R]") {
		s.Reload()
	}
}

func bounceLabel(on bool) string {
	if on {
		return "Bounce: ON [B]"
	}
	return "Bounce: OFF [B]"
}

// kindColor maps an item kind to its display color.
func kindColor(k components.Kind) rl.Color {
	switch k {
	case components.KindTarget:
		return rl.Gold
	case components.KindAvatar:
		return rl.SkyBlue
	default:
		return rl.Brown
	}
}
