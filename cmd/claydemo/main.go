// Command claydemo drives a scripted frame loop against the layout
// engine and dumps the resulting render-command stream as JSON, the way
// a host's render backend would consume it. It exists so the engine is a
// complete, runnable repository rather than library-only, in the spirit
// of rupor-github-fb2cng's urfave/cli-based tooling.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	clay "github.com/kryvoslayout/clay"
	"github.com/kryvoslayout/clay/internal/diag"
)

func main() {
	cmd := &cli.Command{
		Name:  "claydemo",
		Usage: "run a scripted layout frame and print its render commands as JSON",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "width", Value: 800, Usage: "layout surface width"},
			&cli.Float64Flag{Name: "height", Value: 600, Usage: "layout surface height"},
			&cli.StringFlag{Name: "scene", Value: "sidebar", Usage: "which scripted scene to run (sidebar|grow|scroll)"},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "claydemo:", err)
		os.Exit(1)
	}
}

func run(_ context.Context, c *cli.Command) error {
	width := c.Float64("width")
	height := c.Float64("height")
	scene := c.String("scene")

	reporter, err := diag.NewReporter()
	if err != nil {
		return err
	}
	defer reporter.Sync()

	arenaBuf := make([]byte, 8*1024*1024)
	ctx := clay.Initialize(arenaBuf, clay.Dimensions{Width: width, Height: height}, reporter.Handler())
	ctx.SetMeasureTextFunction(stubMeasure)
	clay.SetCurrentContext(ctx)

	clay.BeginLayout()
	switch scene {
	case "grow":
		growScene()
	case "scroll":
		scrollScene()
	default:
		sidebarScene()
	}
	commands := clay.EndLayout()

	if err := reporter.FrameErr(); err != nil {
		fmt.Fprintln(os.Stderr, "claydemo: frame reported errors:", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(commandsToJSON(commands))
}

// stubMeasure is the demo's deterministic measurer (the demo loads no
// fonts): 7px per rune, fixed 16px line height, so the scripted scenes
// produce stable, inspectable output without bundling a font file in the
// repository.
func stubMeasure(text string, _ clay.TextConfig, _ any) (float64, float64) {
	return float64(len([]rune(text))) * 7, 16
}

func sidebarScene() {
	clay.OpenElement(clay.ElementDeclaration{
		ID: "root",
		Layout: clay.LayoutConfig{
			Direction: clay.LeftToRight,
			Padding:   clay.Padding{Left: 10, Right: 10, Top: 10, Bottom: 10},
			ChildGap:  5,
			Sizing: [2]clay.SizingAxis{
				clay.SizingFixed(800),
				clay.SizingFixed(600),
			},
		},
	})
	clay.OpenElement(clay.ElementDeclaration{
		ID:              "sidebar",
		BackgroundColor: clay.Color{R: 30, G: 30, B: 30, A: 255},
		Layout: clay.LayoutConfig{
			Sizing: [2]clay.SizingAxis{
				clay.SizingFixed(200),
				clay.SizingGrow(clay.MinMax{}),
			},
		},
	})
	clay.CloseElement()
	clay.OpenElement(clay.ElementDeclaration{
		ID:              "content",
		BackgroundColor: clay.Color{R: 240, G: 240, B: 240, A: 255},
		Layout: clay.LayoutConfig{
			Sizing: [2]clay.SizingAxis{
				clay.SizingGrow(clay.MinMax{}),
				clay.SizingGrow(clay.MinMax{}),
			},
		},
	})
	clay.OpenText("hello world this wraps eventually", clay.TextConfig{WrapMode: clay.WrapWords, LineHeight: 16})
	clay.CloseElement()
	clay.CloseElement()
}

func growScene() {
	clay.OpenElement(clay.ElementDeclaration{
		ID: "root",
		Layout: clay.LayoutConfig{
			Direction: clay.LeftToRight,
			Sizing: [2]clay.SizingAxis{
				clay.SizingFixed(300),
				clay.SizingFixed(100),
			},
		},
	})
	clay.OpenElement(clay.ElementDeclaration{ID: "a", Layout: clay.LayoutConfig{Sizing: [2]clay.SizingAxis{clay.SizingGrow(clay.MinMax{}), clay.SizingFixed(100)}}})
	clay.CloseElement()
	clay.OpenElement(clay.ElementDeclaration{ID: "b", Layout: clay.LayoutConfig{Sizing: [2]clay.SizingAxis{clay.SizingGrow(clay.MinMax{}), clay.SizingFixed(100)}}})
	clay.CloseElement()
	clay.OpenElement(clay.ElementDeclaration{ID: "c", Layout: clay.LayoutConfig{Sizing: [2]clay.SizingAxis{clay.SizingFixed(100), clay.SizingFixed(100)}}})
	clay.CloseElement()
	clay.CloseElement()
}

func scrollScene() {
	clay.OpenElement(clay.ElementDeclaration{
		ID: "root",
		Layout: clay.LayoutConfig{
			Sizing: [2]clay.SizingAxis{clay.SizingFixed(200), clay.SizingFixed(200)},
		},
		Clip: &clay.ClipConfig{Vertical: true, ChildOffset: clay.Vector2{Y: -50}},
	})
	clay.OpenElement(clay.ElementDeclaration{
		ID:              "content",
		BackgroundColor: clay.Color{R: 200, A: 255},
		Layout: clay.LayoutConfig{
			Sizing: [2]clay.SizingAxis{clay.SizingFixed(200), clay.SizingFixed(500)},
		},
	})
	clay.CloseElement()
	clay.CloseElement()
}

type jsonCommand struct {
	Type        string          `json:"type"`
	ID          uint32          `json:"id"`
	ZIndex      int16           `json:"zIndex"`
	BoundingBox clay.BoundingBox `json:"boundingBox"`
	Text        string          `json:"text,omitempty"`
}

func commandsToJSON(cmds []clay.RenderCommand) []jsonCommand {
	out := make([]jsonCommand, 0, len(cmds))
	for _, c := range cmds {
		jc := jsonCommand{Type: commandTypeName(c.CommandType), ID: c.ID, ZIndex: c.ZIndex, BoundingBox: c.BoundingBox}
		if c.CommandType == clay.CommandText {
			jc.Text = c.RenderData.Text.StringContents
		}
		out = append(out, jc)
	}
	return out
}

func commandTypeName(t clay.RenderCommandType) string {
	switch t {
	case clay.CommandRectangle:
		return "rectangle"
	case clay.CommandBorder:
		return "border"
	case clay.CommandText:
		return "text"
	case clay.CommandImage:
		return "image"
	case clay.CommandScissorStart:
		return "scissorStart"
	case clay.CommandScissorEnd:
		return "scissorEnd"
	default:
		return "custom"
	}
}
