// Package palette picks the body's fill color and eases between picks.
package palette

import (
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	Saturation = 0.5
	Brightness = 0.75

	// MinInterval is the shortest time between two color changes.
	MinInterval = 250 * time.Millisecond

	FlashDuration = 0.3 // seconds
)

// Picker chooses a new random hue each time the body strikes a new wall.
type Picker struct {
	rng     *rand.Rand
	current colorful.Color
	last    time.Time
	picked  bool
}

func NewPicker(seed int64) *Picker {
	p := &Picker{rng: rand.New(rand.NewSource(seed))}
	p.current = p.next()
	return p
}

func (p *Picker) next() colorful.Color {
	return colorful.Hsv(p.rng.Float64()*360, Saturation, Brightness)
}

func (p *Picker) Color() colorful.Color { return p.current }

// Observe reports whether a fresh collision changed the color. Collisions
// arriving within MinInterval of the last change are ignored.
func (p *Picker) Observe(fresh bool, now time.Time) bool {
	if !fresh {
		return false
	}
	if p.picked && now.Sub(p.last) < MinInterval {
		return false
	}
	p.current = p.next()
	p.last = now
	p.picked = true
	return true
}

// Fader eases the displayed hue toward a target along the shorter way
// around the color wheel.
type Fader struct {
	spring harmonica.Spring
	hue    float64
	vel    float64
}

func NewFader(fps int, start colorful.Color) *Fader {
	h, _, _ := start.Hsv()
	return &Fader{
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
		hue:    h,
	}
}

// Step advances the fade by one frame and returns the color to draw.
func (f *Fader) Step(target colorful.Color) colorful.Color {
	th, _, _ := target.Hsv()
	delta := math.Mod(th-f.hue+540, 360) - 180
	f.hue, f.vel = f.spring.Update(f.hue, f.vel, f.hue+delta)
	f.hue = math.Mod(f.hue+360, 360)
	return colorful.Hsv(f.hue, Saturation, Brightness)
}

func (f *Fader) Hue() float64 { return f.hue }

// Flash brightens the outline for a moment after a wall strike.
type Flash struct {
	tween *gween.Tween
	level float64
}

// Trigger restarts the flash at full strength.
func (f *Flash) Trigger() {
	f.tween = gween.New(1, 0, FlashDuration, ease.OutQuad)
	f.level = 1
}

// Step advances the flash by dt seconds and returns c blended toward white.
func (f *Flash) Step(dt float64, c colorful.Color) colorful.Color {
	if f.tween != nil {
		v, done := f.tween.Update(float32(dt))
		f.level = float64(v)
		if done {
			f.tween = nil
			f.level = 0
		}
	}
	if f.level <= 0 {
		return c
	}
	return c.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, f.level*0.6).Clamped()
}

func (f *Flash) Level() float64 { return f.level }
