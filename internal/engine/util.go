package engine

import (
	"image"
	"image/png"
	"os"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/ess476/gfx-final/internal/scene"
)

// RenderScene performs path tracing of the given scene using provided settings.
// Settings left at zero are taken from the scene.
func RenderScene(sc *scene.Scene, settings scene.RenderSettings, cfg RenderConfig) (image.Image, error) {
	if settings.Width == 0 {
		settings.Width = sc.Settings.Width
	}
	if settings.Height == 0 {
		settings.Height = sc.Settings.Height
	}
	if settings.SamplesPerPx == 0 {
		settings.SamplesPerPx = sc.Settings.SamplesPerPx
	}
	if settings.MaxDepth == 0 {
		settings.MaxDepth = sc.Settings.MaxDepth
	}

	cfg.Width = settings.Width
	cfg.Height = settings.Height
	cfg.SamplesPerPx = settings.SamplesPerPx
	cfg.MaxDepth = settings.MaxDepth
	return Render(sc, cfg)
}

// RenderSettingsForMode returns reasonable defaults for preview/final modes.
// The scene settings are used for the "scene" mode.
func RenderSettingsForMode(mode string) (scene.RenderSettings, error) {
	switch mode {
	case "final":
		return scene.RenderSettings{
			Width:        1920,
			Height:       1080,
			SamplesPerPx: 1000,
			MaxDepth:     80,
		}, nil

	case "preview", "":
		return scene.RenderSettings{
			Width:        400,
			Height:       225,
			SamplesPerPx: 20,
			MaxDepth:     20,
		}, nil

	case "scene":
		return scene.RenderSettings{}, nil

	default:
		return scene.RenderSettings{}, errors.New("unknown render mode").
			WithType(ErrTypeInvalidConfig).
			WithTag("mode", mode)
	}
}

// SavePNG writes an image to a PNG file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.New("creating png file failed").
			WithTag("path", path).
			Wrap(err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return errors.New("encoding png failed").
			WithTag("path", path).
			Wrap(err)
	}
	return f.Close()
}
