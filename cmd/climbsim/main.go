// Command climbsim runs a scene headless and replays a scripted input
// sequence against the object tagged "player".
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"traverse3d/internal/config"
	"traverse3d/internal/metrics"
	"traverse3d/internal/session"
	"traverse3d/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func main() {
	scenePath := flag.String("scene", "cmd/climbsim/testdata/wall.json", "scene JSON file")
	configPath := flag.String("config", "", "YAML config (default $"+config.EnvPath+")")
	ticks := flag.Int("ticks", 300, "ticks to simulate")
	dt := flag.Float64("dt", 1.0/60, "seconds per tick")
	scriptPath := flag.String("script", "", "input script, one \"tick action [x y]\" per line")
	metricsAddr := flag.String("metrics-addr", "", "serve prometheus metrics on this address")
	flag.Parse()

	if err := run(*scenePath, *configPath, *scriptPath, *metricsAddr, *ticks, float32(*dt)); err != nil {
		logrus.WithError(err).Fatal("climbsim failed")
	}
}

func run(scenePath, configPath, scriptPath, metricsAddr string, ticks int, dt float32) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg.Log); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	sess, err := session.New(cfg, reg)
	if err != nil {
		return err
	}
	defer sess.Close()

	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: metrics.Handler(reg), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logrus.WithError(err).Error("metrics server stopped")
			}
		}()
		defer srv.Close()
		logrus.WithField("addr", metricsAddr).Info("serving metrics")
	}

	w := world.New(cfg, sess.Metrics)
	if err := w.LoadScene(scenePath); err != nil {
		return err
	}

	var cmds []command
	if scriptPath != "" {
		f, err := os.Open(scriptPath)
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		cmds, err = parseScript(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", scriptPath, err)
		}
	}

	sim, err := newSimulation(sess, w, cmds)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	frames, err := sim.Run(ctx, ticks, dt)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if len(frames) > 0 {
		last := frames[len(frames)-1]
		logrus.WithFields(logrus.Fields{
			"ticks": len(frames),
			"mode":  last.Mode.String(),
			"pos":   vecString(last.Position),
		}).Info("simulation finished")
	}
	return nil
}

func setupLogging(c config.LogConfig) error {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logrus.SetLevel(level)
	if c.JSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func vecString(v rl.Vector3) string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f)", v.X, v.Y, v.Z)
}
