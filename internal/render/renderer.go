package render

import (
	"errors"
	"image/color"
)

// ErrTermination is returned from Game.Update to end the loop normally.
var ErrTermination = errors.New("render: game terminated")

// Renderer is the main rendering interface that abstracts the underlying
// graphics engine. The simulation only ever talks to this interface.
type Renderer interface {
	// Image operations
	NewImage(width, height int) Image

	// Vector operations (for drawing shapes)
	StrokeCircle(dst Image, x, y, radius float32, strokeWidth float32, clr color.Color)

	// Text operations
	DrawText(dst Image, text string, x, y int)
}

// Image represents a renderable image surface that can be drawn to or drawn from.
type Image interface {
	// Fill operations
	Fill(clr color.Color)

	// Drawing operations
	DrawTriangles(vertices []Vertex, indices []uint16, img Image, opts *DrawTrianglesOptions)

	// Resource management
	Dispose()
}

// DrawTrianglesOptions contains options for drawing triangles.
type DrawTrianglesOptions struct {
	AntiAlias bool
}

// Vertex represents a vertex for triangle rendering.
type Vertex struct {
	DstX   float32
	DstY   float32
	SrcX   float32
	SrcY   float32
	ColorR float32
	ColorG float32
	ColorB float32
	ColorA float32
}

// MaxBatchVertices is the most vertices one DrawTriangles call can index
// with uint16 indices.
const MaxBatchVertices = 1<<16 - 1

// InputManager handles input from the user (keyboard, mouse).
type InputManager interface {
	IsKeyJustPressed(key Key) bool
	GetCursorPosition() (x, y int)
	IsMouseButtonPressed(button MouseButton) bool
}

// Key represents a keyboard key.
type Key int

// Key constants for the keys the simulation reacts to
const (
	KeySpace  Key = iota // pause oscillation
	KeyEscape            // quit
)

// MouseButton represents a mouse button.
type MouseButton int

// Mouse button constants
const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// Game represents the game interface that the engine will call.
type Game interface {
	// Update updates the simulation. It is called every tick.
	Update() error

	// Draw draws the current frame. It is called every frame.
	Draw(screen Image)

	// Layout accepts the outside size (e.g., window size) and returns the logical screen size.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine represents the game engine that manages the game loop and window.
type Engine interface {
	// SetWindowSize sets the window size in pixels.
	SetWindowSize(width, height int)

	// SetWindowTitle sets the window title.
	SetWindowTitle(title string)

	// SetWindowResizable enables or disables window resizing.
	SetWindowResizable(resizable bool)

	// RunGame runs the game loop with the provided game.
	// This is a blocking call that runs until the game ends.
	RunGame(game Game) error
}
