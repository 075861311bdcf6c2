package engine

import (
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/ess476/gfx-final/internal/kdtree"
	"github.com/ess476/gfx-final/internal/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func smallConfig() RenderConfig {
	return RenderConfig{
		Width:        24,
		Height:       16,
		SamplesPerPx: 2,
		MaxDepth:     4,
		Workers:      1,
		Seed:         7,
	}
}

func TestRender(t *testing.T) {
	img, err := Render(testScene(), smallConfig())
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 24, 16), img.Bounds())

	rgba, ok := img.(*image.RGBA)
	require.True(t, ok)
	for i := 3; i < len(rgba.Pix); i += 4 {
		require.Equal(t, uint8(255), rgba.Pix[i])
	}

	// the top left corner looks at the sky
	require.Equal(t, toByte(0.2), rgba.Pix[0])
	require.Equal(t, toByte(0.3), rgba.Pix[1])
	require.Equal(t, toByte(0.5), rgba.Pix[2])
}

func TestRenderIsReproducibleWithOneWorker(t *testing.T) {
	for _, direct := range []bool{false, true} {
		cfg := smallConfig()
		cfg.DirectLight = direct

		a, err := Render(testScene(), cfg)
		require.NoError(t, err)
		b, err := Render(testScene(), cfg)
		require.NoError(t, err)
		require.Equal(t, a.(*image.RGBA).Pix, b.(*image.RGBA).Pix)
	}
}

func TestRenderIntoProgress(t *testing.T) {
	cfg := smallConfig()
	cfg.Width = 70
	cfg.Height = 40
	cfg.SamplesPerPx = 1
	cfg.Workers = 3

	var calls atomic.Int32
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	err := RenderInto(testScene(), cfg, img, func() {
		calls.Add(1)
	})
	require.NoError(t, err)
	require.Equal(t, int32(6), calls.Load())
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(*RenderConfig)
		img  image.Rectangle
	}{
		{
			name: "too small",
			cfg:  func(c *RenderConfig) { c.Width = 1 },
			img:  image.Rect(0, 0, 1, 16),
		},
		{
			name: "no samples",
			cfg:  func(c *RenderConfig) { c.SamplesPerPx = 0 },
			img:  image.Rect(0, 0, 24, 16),
		},
		{
			name: "image size mismatch",
			cfg:  func(c *RenderConfig) {},
			img:  image.Rect(0, 0, 10, 10),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := smallConfig()
			test.cfg(&cfg)

			err := RenderInto(testScene(), cfg, image.NewRGBA(test.img), nil)
			require.Error(t, err)
			require.True(t, errors.IsType(err, ErrTypeInvalidConfig))
		})
	}
}

func TestRenderScene(t *testing.T) {
	sc := testScene()
	sc.Settings = scene.RenderSettings{Width: 8, Height: 6, SamplesPerPx: 1, MaxDepth: 2}

	settings, err := RenderSettingsForMode("scene")
	require.NoError(t, err)

	img, err := RenderScene(sc, settings, RenderConfig{Workers: 1, Seed: 1})
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 8, 6), img.Bounds())
}

func TestRenderSettingsForMode(t *testing.T) {
	final, err := RenderSettingsForMode("final")
	require.NoError(t, err)
	require.Equal(t, 1920, final.Width)
	require.Equal(t, 1080, final.Height)

	preview, err := RenderSettingsForMode("")
	require.NoError(t, err)
	require.Equal(t, 400, preview.Width)
	require.Equal(t, 20, preview.SamplesPerPx)

	_, err = RenderSettingsForMode("draft")
	require.Error(t, err)
	require.True(t, errors.IsType(err, ErrTypeInvalidConfig))
}

func TestSavePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Pix[0] = 200
	img.Pix[3] = 255

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, SavePNG(path, img))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	decoded, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, img.Bounds(), decoded.Bounds())

	r, _, _, _ := decoded.At(0, 0).RGBA()
	require.Equal(t, uint32(200)*0x101, r)

	err = SavePNG(filepath.Join(t.TempDir(), "missing", "out.png"), img)
	require.Error(t, err)
}

func TestToByte(t *testing.T) {
	require.Equal(t, uint8(0), toByte(-1))
	require.Equal(t, uint8(0), toByte(math.NaN()))
	require.Equal(t, uint8(127), toByte(0.25))
	require.Equal(t, uint8(255), toByte(1))
	require.Equal(t, uint8(255), toByte(4))
}

func TestBackgroundFunc(t *testing.T) {
	sc := &scene.Scene{
		Sky: &scene.Sky{
			Type:    "gradient",
			Horizon: scene.Color{R: 1, G: 1, B: 1},
			Zenith:  scene.Color{R: 0, G: 0, B: 1},
		},
	}
	bg := backgroundFunc(sc)
	require.Equal(t, mgl64.Vec3{0, 0, 1}, bg(kdtree.Ray{Direction: mgl64.Vec3{0, 2, 0}}))
	require.Equal(t, mgl64.Vec3{1, 1, 1}, bg(kdtree.Ray{Direction: mgl64.Vec3{0, -1, 0}}))
	require.Equal(t, mgl64.Vec3{1, 1, 1}, bg(kdtree.Ray{}))

	sc = &scene.Scene{Background: scene.Color{R: 0.1}}
	require.Equal(t, mgl64.Vec3{0.1, 0, 0}, backgroundFunc(sc)(kdtree.Ray{Direction: mgl64.Vec3{0, 1, 0}}))
}
