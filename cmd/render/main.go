package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"reflect"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/ess476/gfx-final/internal/engine"
	"github.com/ess476/gfx-final/internal/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
)

var _ = reflect.TypeOf(config{})

type config struct {
	Scene       string `cli:""        env:"GFX_SCENE"        help:"Path to the scene JSON file."`
	Mode        string `cli:""        env:"GFX_MODE"         help:"Render mode (preview|final|scene)."`
	Out         string `cli:""        env:"GFX_OUT"          help:"Output PNG file."`
	Accelerator string `cli:""        env:"GFX_ACCELERATOR"  help:"Ray query accelerator (kdtree|linear)."`
	KDMaxDepth  int    `cli:",hidden" env:"GFX_KD_MAX_DEPTH" help:"Maximum KD-tree depth."`
	KDLeafSize  int    `cli:",hidden" env:"GFX_KD_LEAF_SIZE" help:"Object count at or below which KD-tree nodes are not split."`
	Workers     int    `cli:""        env:"GFX_WORKERS"      help:"Number of render goroutines, 0 for one per CPU."`
	Seed        int64  `cli:""        env:"GFX_SEED"         help:"Random seed, 0 for a time based seed."`
	DirectLight bool   `cli:""        env:"GFX_DIRECT_LIGHT" help:"Sample emissive spheres with shadow rays."`
	Stats       bool   `cli:""        env:"-"                help:"Build the scene index, print its statistics and exit."`
	Probe       string `cli:""        env:"-"                help:"Cast a single ray given as ox,oy,oz:dx,dy,dz, print its hits and exit."`
	MetricsAddr string `cli:""        env:"GFX_METRICS_ADDR" help:"Listening address of the metrics endpoint, served until interrupted."`
	LogLevel    string `cli:""        env:"GFX_LOG_LEVEL"    help:"Log level (debug|info|warning|error)."`
	LogIndent   bool   `cli:""        env:"GFX_LOG_INDENT"   help:"Indent logs."`
	Help        bool   `cli:""        env:"-"                help:"Show help."`
}

func main() {
	conf := config{
		Scene:       "scenes/example_simple.json",
		Mode:        "preview",
		Out:         "output.png",
		Accelerator: engine.AcceleratorKDTree.String(),
		LogLevel:    logs.InfoLevel.String(),
	}

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Renders a scene with a KD-tree accelerated path tracer.").
		Options(&conf)
	cli.Load()

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}
	errors.Encoder = json.Marshal

	accel, err := engine.ParseAccelerator(conf.Accelerator)
	if err != nil {
		logs.Fatal(err)
	}
	engine.SetAccelerator(accel)

	var metricsServer *http.Server
	if conf.MetricsAddr != "" {
		metricsServer = startMetricsServer(conf.MetricsAddr)
	}

	sc, err := scene.Load(conf.Scene)
	if err != nil {
		logs.Fatal(errors.New("loading scene failed").Wrap(err))
	}

	indexOpts := engine.IndexOptions{
		MaxDepth: conf.KDMaxDepth,
		LeafSize: conf.KDLeafSize,
	}

	switch {
	case conf.Stats:
		if err := printStats(sc, indexOpts); err != nil {
			logs.Fatal(err)
		}

	case conf.Probe != "":
		if err := printProbe(sc, indexOpts, conf.Probe); err != nil {
			logs.Fatal(err)
		}

	default:
		if err := renderHeadless(sc, conf, indexOpts); err != nil {
			logs.Fatal(err)
		}
	}

	if metricsServer != nil {
		logs.WithTag("addr", conf.MetricsAddr).Info("serving metrics until interrupted")
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logs.Warn(errors.New("shutting down the metrics server failed").Wrap(err))
		}
	}
}

func startMetricsServer(addr string) *http.Server {
	var mux http.ServeMux
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    addr,
		Handler: &mux,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Warn(errors.New("metrics server stopped").
				WithTag("addr", addr).
				Wrap(err))
		}
	}()
	return server
}

func renderHeadless(sc *scene.Scene, conf config, indexOpts engine.IndexOptions) error {
	settings, err := engine.RenderSettingsForMode(conf.Mode)
	if err != nil {
		return err
	}

	img, err := engine.RenderScene(sc, settings, engine.RenderConfig{
		Workers:     conf.Workers,
		Seed:        conf.Seed,
		DirectLight: conf.DirectLight,
		Index:       indexOpts,
	})
	if err != nil {
		return errors.New("rendering scene failed").
			WithTag("scene", sc.Name).
			Wrap(err)
	}

	if err := engine.SavePNG(conf.Out, img); err != nil {
		return err
	}

	logs.WithTag("scene", sc.Name).
		WithTag("out", conf.Out).
		Info("image saved")
	return nil
}

func printStats(sc *scene.Scene, indexOpts engine.IndexOptions) error {
	w, err := engine.BuildWorld(sc, indexOpts)
	if err != nil {
		return err
	}
	if err := w.Validate(); err != nil {
		return errors.New("scene index is inconsistent").
			WithTag("scene", sc.Name).
			Wrap(err)
	}

	return printJSON(struct {
		Scene       string `json:"scene"`
		Accelerator string `json:"accelerator"`
		Stats       any    `json:"stats"`
	}{
		Scene:       sc.Name,
		Accelerator: w.Accelerator().String(),
		Stats:       w.Stats(),
	})
}

func printProbe(sc *scene.Scene, indexOpts engine.IndexOptions, probe string) error {
	origin, dir, err := parseProbe(probe)
	if err != nil {
		return err
	}

	w, err := engine.BuildWorld(sc, indexOpts)
	if err != nil {
		return err
	}
	return printJSON(engine.Probe(w, origin, dir))
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.New("encoding output failed").Wrap(err)
	}
	fmt.Println(string(data))
	return nil
}

// parseProbe reads a ray written as "ox,oy,oz:dx,dy,dz".
func parseProbe(s string) (mgl64.Vec3, mgl64.Vec3, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return mgl64.Vec3{}, mgl64.Vec3{}, errors.New("probe must be written as ox,oy,oz:dx,dy,dz").
			WithType(engine.ErrTypeInvalidConfig).
			WithTag("probe", s)
	}

	origin, err := parseVec3(parts[0])
	if err != nil {
		return mgl64.Vec3{}, mgl64.Vec3{}, errors.New("invalid probe origin").
			WithType(engine.ErrTypeInvalidConfig).
			WithTag("probe", s).
			Wrap(err)
	}

	dir, err := parseVec3(parts[1])
	if err != nil {
		return mgl64.Vec3{}, mgl64.Vec3{}, errors.New("invalid probe direction").
			WithType(engine.ErrTypeInvalidConfig).
			WithTag("probe", s).
			Wrap(err)
	}
	return origin, dir, nil
}

func parseVec3(s string) (mgl64.Vec3, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return mgl64.Vec3{}, errors.Newf("expected 3 components, got %d", len(fields))
	}

	var v mgl64.Vec3
	for i, f := range fields {
		c, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return mgl64.Vec3{}, err
		}
		v[i] = c
	}
	return v, nil
}
