// Package media renders the placeholder exercise animation: a few square
// frames of caption text plus a "Phase N" label, encoded as a looping GIF.
package media

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/edgard/fitcoachbot/internal/config"
)

const (
	margin          = 20
	defaultFrames   = 5
	defaultSize     = 512
	defaultDelay    = 500 * time.Millisecond
	defaultFileName = "exercise.gif"
)

var (
	background = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	foreground = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Renderer writes the animation to a fixed path, overwriting the previous one.
type Renderer struct {
	dir    string
	name   string
	size   int
	frames int
	delay  time.Duration
	face   font.Face
	log    *slog.Logger

	mu sync.Mutex
}

// NewRenderer creates a Renderer from cfg, filling zero values with defaults.
func NewRenderer(cfg config.MediaConfig, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.Default()
	}
	r := &Renderer{
		dir:    cfg.OutputDir,
		name:   cfg.FileName,
		size:   cfg.Size,
		frames: cfg.Frames,
		delay:  cfg.FrameDelay,
		face:   basicfont.Face7x13,
		log:    log.With("component", "media_renderer"),
	}
	if r.name == "" {
		r.name = defaultFileName
	}
	if r.size <= 0 {
		r.size = defaultSize
	}
	if r.frames <= 0 {
		r.frames = defaultFrames
	}
	if r.delay <= 0 {
		r.delay = defaultDelay
	}
	return r
}

// Path is where Render writes the animation.
func (r *Renderer) Path() string {
	return filepath.Join(r.dir, r.name)
}

// Render draws frames frames (the configured count when frames <= 0) and
// writes the GIF to Path, creating the output directory if needed.
func (r *Renderer) Render(caption string, frames int) (string, error) {
	if frames <= 0 {
		frames = r.frames
	}
	anim := r.Animation(caption, frames)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dir != "" {
		if err := os.MkdirAll(r.dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	path := r.Path()
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create animation file: %w", err)
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to encode animation: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write animation file: %w", err)
	}

	r.log.Debug("Animation rendered", "path", path, "frames", frames)
	return path, nil
}

// Animation builds the in-memory GIF without touching the filesystem.
func (r *Renderer) Animation(caption string, frames int) *gif.GIF {
	delay := int(r.delay / (10 * time.Millisecond))
	anim := &gif.GIF{LoopCount: 0}
	lines := r.wrap(caption)

	for i := 0; i < frames; i++ {
		frameLines := append(lines[:len(lines):len(lines)], PhaseLabel(i))
		anim.Image = append(anim.Image, r.frame(frameLines))
		anim.Delay = append(anim.Delay, delay)
	}
	return anim
}

// PhaseLabel is the label stamped on the zero-based frame i.
func PhaseLabel(i int) string {
	return fmt.Sprintf("Phase %d", i+1)
}

func (r *Renderer) frame(lines []string) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, r.size, r.size), color.Palette{background, foreground})
	// Index 0 is the background, so a fresh Paletted is already filled.

	metrics := r.face.Metrics()
	lineHeight := metrics.Height
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(foreground),
		Face: r.face,
	}

	y := fixed.I(margin) + metrics.Ascent
	for _, line := range lines {
		if y.Ceil() > r.size-margin {
			break
		}
		d.Dot = fixed.Point26_6{X: fixed.I(margin), Y: y}
		d.DrawString(line)
		y += lineHeight
	}
	return img
}

// wrap splits caption into lines that fit the canvas width.
func (r *Renderer) wrap(caption string) []string {
	advance, ok := r.face.GlyphAdvance('M')
	if !ok || advance <= 0 {
		advance = fixed.I(7)
	}
	width := (r.size - 2*margin) / advance.Ceil()
	if width < 1 {
		width = 1
	}

	var lines []string
	for _, paragraph := range strings.Split(caption, "\n") {
		var current []rune
		for _, word := range strings.Fields(paragraph) {
			w := []rune(word)
			for len(w) > width {
				if len(current) > 0 {
					lines = append(lines, string(current))
					current = nil
				}
				lines = append(lines, string(w[:width]))
				w = w[width:]
			}
			switch {
			case len(current) == 0:
				current = w
			case len(current)+1+len(w) <= width:
				current = append(append(current, ' '), w...)
			default:
				lines = append(lines, string(current))
				current = w
			}
		}
		lines = append(lines, string(current))
	}
	return lines
}
