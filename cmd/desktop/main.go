package main

import (
	"bytes"
	"fmt"
	"image/color"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"pl0/pkg/compiler"
	"pl0/pkg/grid"
	"pl0/pkg/utils"
	"pl0/pkg/vm"
)

const (
	cols       = 64
	rows       = 24
	charWidth  = 7
	charHeight = 13

	stepsPerFrame = 10000
)

var (
	textColor   = color.RGBA{0xd0, 0xd0, 0xd0, 0xff}
	promptColor = color.RGBA{0x7f, 0xdf, 0x7f, 0xff}
)

type Game struct {
	vm    *vm.Machine
	out   *bytes.Buffer
	input []rune // digits typed while the program waits on read
	face  text.Face
	err   error
}

func newGame(code []compiler.Instruction) *Game {
	out := &bytes.Buffer{}
	return &Game{
		vm:  vm.New(code, vm.Options{Output: out}),
		out: out,
	}
}

// typeRune accepts a key while the machine waits for input.
func (g *Game) typeRune(r rune) {
	if !g.vm.Waiting {
		return
	}
	if (r >= '0' && r <= '9') || (r == '-' && len(g.input) == 0) {
		g.input = append(g.input, r)
	}
}

func (g *Game) backspace() {
	if len(g.input) > 0 {
		g.input = g.input[:len(g.input)-1]
	}
}

// enter hands the typed number to the machine and echoes it.
func (g *Game) enter() {
	if !g.vm.Waiting || len(g.input) == 0 {
		return
	}
	v, err := strconv.Atoi(string(g.input))
	if err != nil {
		return
	}
	fmt.Fprintf(g.out, "? %d\n", v)
	g.input = g.input[:0]
	g.vm.PushInput(v)
}

// advance runs up to n steps, stopping early on halt, fault or input wait.
func (g *Game) advance(n int) {
	for i := 0; i < n; i++ {
		if g.vm.Halted || g.vm.Waiting {
			return
		}
		if err := g.vm.Step(); err != nil {
			g.err = err
			return
		}
	}
}

// status is the line shown under the program output.
func (g *Game) status() string {
	switch {
	case g.err != nil:
		return g.err.Error()
	case g.vm.Halted:
		return "[halted]"
	case g.vm.Waiting:
		return "? " + string(g.input)
	}
	return ""
}

func (g *Game) screenRows() []string {
	return grid.Wrap(g.out.String()+g.status(), cols, rows)
}

func (g *Game) Update() error {
	for _, r := range ebiten.AppendInputChars(nil) {
		g.typeRune(r)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		g.backspace()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		g.enter()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && (g.vm.Halted || g.err != nil) {
		return ebiten.Termination
	}

	g.advance(stepsPerFrame)
	return nil
}

func (g *Game) drawCell(screen *ebiten.Image, r rune, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x*charWidth), float64(y*charHeight))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, string(r), g.face, op)
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.face == nil {
		g.face = text.NewGoXFace(basicfont.Face7x13)
	}

	lines := g.screenRows()
	grid.Cells(lines, func(r rune, x, y int) {
		g.drawCell(screen, r, x, y, textColor)
	})

	if g.vm.Waiting && len(lines) > 0 {
		last := []rune(lines[len(lines)-1])
		x, y := grid.GetGridCoords((len(lines)-1)*cols+len(last), cols)
		g.drawCell(screen, '_', x, y, promptColor)
	}

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("steps %d", g.vm.Steps), cols*charWidth-80, rows*charHeight)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return cols * charWidth, rows*charHeight + 16
}

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <program.pl0> [--show-code]", os.Args[0])
	}
	filename := os.Args[1]
	showCode := false
	for _, arg := range os.Args[2:] {
		showCode = showCode || arg == "--show-code"
	}

	src, _, err := utils.ReadSource(filename)
	if err != nil {
		log.Fatalf("Failed to read source file: %v", err)
	}
	code, _, err := compiler.Compile(src)
	if err != nil {
		log.Fatalf("Compilation failed: %v", err)
	}
	if showCode {
		print("Generated Code:\n", compiler.FormatListing(code), "\n")
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cols*charWidth*2, (rows*charHeight+16)*2)
	ebiten.SetWindowTitle("PL/0 " + strings.TrimSuffix(filename, utils.SourceExt))

	if err := ebiten.RunGame(newGame(code)); err != nil {
		log.Fatal(err)
	}
}
