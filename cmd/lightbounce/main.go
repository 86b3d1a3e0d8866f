package main

import (
	"context"
	"flag"
	"log"
	"time"

	"chosenoffset.com/lightbounce/internal/core/frame"
	"chosenoffset.com/lightbounce/internal/game"
	ebitenrender "chosenoffset.com/lightbounce/internal/render/ebiten"
	"chosenoffset.com/lightbounce/internal/simulation"
)

func main() {
	// Command-line flags
	configPath := flag.String("config", "lightbounce.toml", "Simulation config file (.toml or .json)")
	rays := flag.Int("rays", 0, "Override the ray count")
	workers := flag.Int("workers", 0, "Override the tracing worker count")
	headless := flag.Int("headless", 0, "Run this many ticks without a window, then exit")
	flag.Parse()

	config, err := simulation.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *rays > 0 {
		config.Tracing.Rays = *rays
	}
	if *workers > 0 {
		config.Tracing.Workers = *workers
	}

	sc := config.NewScene()
	assembler := frame.NewAssembler(sc, config.NewTracer(), config.Tracing.Rays)
	assembler.OutlineSides = config.Display.OutlineSides
	assembler.LightColor = config.LightColor()

	log.Printf("Scene %gx%g: %d occluders, %d rays, %d bounces, %d workers",
		config.Scene.Width, config.Scene.Height, len(sc.Occluders),
		config.Tracing.Rays, config.Tracing.MaxBounces, config.Workers())

	ctx := context.Background()
	metrics := game.NewMetrics(config.Display.MetricsInterval.Duration)

	if *headless > 0 {
		f, err := game.RunHeadless(ctx, assembler, *headless, time.Second/60, metrics)
		if err != nil {
			log.Fatalf("Headless run failed: %v", err)
		}
		log.Printf("Finished %d ticks, last frame has %d vertices", f.Seq, f.VertexCount())
		return
	}

	// Publish a first frame so Draw has something before the first tick
	if _, err := assembler.Rebuild(ctx); err != nil {
		log.Fatalf("Failed to build first frame: %v", err)
	}

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	width, height := int(config.Scene.Width), int(config.Scene.Height)
	g := game.New(ctx, assembler, renderer, inputMgr, width, height)
	g.Metrics = metrics
	g.LineWidth = config.Display.LineWidth
	defer g.Close()

	// Set up the window
	engine.SetWindowSize(width, height)
	engine.SetWindowTitle(config.Display.Title + " - drag the light, space pauses")
	engine.SetWindowResizable(true)

	log.Println("Starting simulation...")
	if err := engine.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
