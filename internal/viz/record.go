package viz

import (
	"image"
	"image/color"
	"image/gif"
	"os"
)

const (
	cellW = 8
	cellH = 16
)

// Recorder collects canvas snapshots as GIF frames.
type Recorder struct {
	frames  []*image.Paletted
	palette color.Palette
}

func NewRecorder() *Recorder {
	return &Recorder{
		palette: color.Palette{color.Black, color.RGBA{0x9b, 0xe7, 0xff, 0xff}},
	}
}

func (r *Recorder) Len() int { return len(r.frames) }

// Capture rasterizes every lit braille dot as a block of pixels.
func (r *Recorder) Capture(c *Canvas) {
	img := image.NewPaletted(image.Rect(0, 0, c.Width*cellW, c.Height*cellH), r.palette)
	dotW, dotH := cellW/2, cellH/4
	dw, dh := c.Dots()

	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			if !c.Lit(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Save writes the captured frames as a looping GIF. It is a no-op without
// frames.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}
