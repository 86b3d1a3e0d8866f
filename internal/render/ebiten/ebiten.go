package ebiten

import (
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"chosenoffset.com/lightbounce/internal/render"
)

// EbitenRenderer implements the Renderer interface using Ebiten.
type EbitenRenderer struct{}

// NewRenderer creates a new Ebiten-based render.
func NewRenderer() render.Renderer {
	return &EbitenRenderer{}
}

// NewImage creates a new image with the given dimensions.
func (r *EbitenRenderer) NewImage(width, height int) render.Image {
	return &EbitenImage{img: ebiten.NewImage(width, height)}
}

// StrokeCircle draws a circle outline on the destination image.
func (r *EbitenRenderer) StrokeCircle(dst render.Image, x, y, radius float32, strokeWidth float32, clr color.Color) {
	ebitenImg := dst.(*EbitenImage).img
	vector.StrokeCircle(ebitenImg, x, y, radius, strokeWidth, clr, true)
}

// DrawText draws text with the debug font.
func (r *EbitenRenderer) DrawText(dst render.Image, str string, x, y int) {
	ebitenutil.DebugPrintAt(dst.(*EbitenImage).img, str, x, y)
}

// EbitenImage wraps an ebiten.Image to implement the render.Image interface.
type EbitenImage struct {
	img *ebiten.Image
}

// Fill fills the entire image with the given color.
func (i *EbitenImage) Fill(clr color.Color) {
	i.img.Fill(clr)
}

// Dispose releases the image resources.
func (i *EbitenImage) Dispose() {
	if i.img != nil {
		i.img.Dispose()
	}
}

// DrawTriangles draws triangles on this image using the provided vertices.
func (i *EbitenImage) DrawTriangles(vertices []render.Vertex, indices []uint16, img render.Image, opts *render.DrawTrianglesOptions) {
	// Convert render.Vertex to ebiten.Vertex
	ebitenVertices := make([]ebiten.Vertex, len(vertices))
	for j, v := range vertices {
		ebitenVertices[j] = ebiten.Vertex{
			DstX:   v.DstX,
			DstY:   v.DstY,
			SrcX:   v.SrcX,
			SrcY:   v.SrcY,
			ColorR: v.ColorR,
			ColorG: v.ColorG,
			ColorB: v.ColorB,
			ColorA: v.ColorA,
		}
	}

	ebitenImg := img.(*EbitenImage).img

	if opts == nil {
		i.img.DrawTriangles(ebitenVertices, indices, ebitenImg, nil)
		return
	}

	ebitenOpts := &ebiten.DrawTrianglesOptions{
		AntiAlias: opts.AntiAlias,
	}

	i.img.DrawTriangles(ebitenVertices, indices, ebitenImg, ebitenOpts)
}

// EbitenInputManager implements the InputManager interface using Ebiten.
type EbitenInputManager struct{}

// NewInputManager creates a new Ebiten-based input manager.
func NewInputManager() render.InputManager {
	return &EbitenInputManager{}
}

// IsKeyJustPressed returns whether the specified key was just pressed this frame.
func (m *EbitenInputManager) IsKeyJustPressed(key render.Key) bool {
	return inpututil.IsKeyJustPressed(keyToEbitenKey(key))
}

// GetCursorPosition returns the current cursor position.
func (m *EbitenInputManager) GetCursorPosition() (x, y int) {
	return ebiten.CursorPosition()
}

// IsMouseButtonPressed returns whether the specified mouse button is currently pressed.
func (m *EbitenInputManager) IsMouseButtonPressed(button render.MouseButton) bool {
	return ebiten.IsMouseButtonPressed(mouseButtonToEbiten(button))
}

// keyToEbitenKey converts a render.Key to an ebiten.Key.
func keyToEbitenKey(key render.Key) ebiten.Key {
	switch key {
	case render.KeySpace:
		return ebiten.KeySpace
	case render.KeyEscape:
		return ebiten.KeyEscape
	default:
		return 0
	}
}

// mouseButtonToEbiten converts a render.MouseButton to an ebiten.MouseButton.
func mouseButtonToEbiten(button render.MouseButton) ebiten.MouseButton {
	switch button {
	case render.MouseButtonLeft:
		return ebiten.MouseButtonLeft
	case render.MouseButtonRight:
		return ebiten.MouseButtonRight
	case render.MouseButtonMiddle:
		return ebiten.MouseButtonMiddle
	default:
		return ebiten.MouseButtonLeft
	}
}

// EbitenEngine implements the Engine interface using Ebiten.
type EbitenEngine struct{}

// NewEngine creates a new Ebiten-based game engine.
func NewEngine() render.Engine {
	return &EbitenEngine{}
}

// SetWindowSize sets the window size in pixels.
func (e *EbitenEngine) SetWindowSize(width, height int) {
	ebiten.SetWindowSize(width, height)
}

// SetWindowTitle sets the window title.
func (e *EbitenEngine) SetWindowTitle(title string) {
	ebiten.SetWindowTitle(title)
}

// SetWindowResizable enables or disables window resizing.
func (e *EbitenEngine) SetWindowResizable(resizable bool) {
	if resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	} else {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	}
}

// RunGame runs the game loop with the provided game. A render.ErrTermination
// from Update ends the loop without an error.
func (e *EbitenEngine) RunGame(game render.Game) error {
	err := ebiten.RunGame(&gameAdapter{game: game})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// gameAdapter adapts a render.Game to ebiten.Game interface.
type gameAdapter struct {
	game render.Game
}

// Update implements ebiten.Game.
func (a *gameAdapter) Update() error {
	err := a.game.Update()
	if errors.Is(err, render.ErrTermination) {
		return ebiten.Termination
	}
	return err
}

// Draw implements ebiten.Game.
func (a *gameAdapter) Draw(screen *ebiten.Image) {
	a.game.Draw(&EbitenImage{img: screen})
}

// Layout implements ebiten.Game.
func (a *gameAdapter) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.game.Layout(outsideWidth, outsideHeight)
}
