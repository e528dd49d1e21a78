package main

import (
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vkngwrapper/raytracing/internal/config"
	"github.com/vkngwrapper/raytracing/internal/diag"
	"github.com/vkngwrapper/raytracing/internal/gpu"
	"github.com/vkngwrapper/raytracing/internal/shader"
	"github.com/vkngwrapper/raytracing/internal/vulkan"
	"github.com/vkngwrapper/raytracing/internal/window"
)

func init() {
	// SDL and the Vulkan surface are bound to the thread that created them.
	runtime.LockOSThread()
}

func creationError(err error, resource string) error {
	return errors.Mark(errors.Wrapf(err, "could not create %s", resource), gpu.ErrResourceCreation)
}

func run(cfg config.Config, log *logrus.Entry) error {
	win, err := window.Open(cfg.Window)
	if err != nil {
		return creationError(err, "window")
	}

	backend, err := vulkan.NewBackend(win)
	if err != nil {
		win.Destroy()
		return creationError(err, "vulkan loader")
	}

	shaders, err := shader.NewLoader(cfg.Shaders.Directory)
	if err != nil {
		win.Destroy()
		return creationError(err, "shader loader")
	}

	session, err := gpu.Negotiate(cfg, backend, win, shaders, diag.NewSink(log), log)
	if err != nil {
		win.Destroy()
		return err
	}
	session.Defer(gpu.StageWindow, win.Destroy)
	defer session.Close()

	win.Run()
	return nil
}

func main() {
	logger := logrus.New()
	log := logger.WithField("session", uuid.New().String())

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("%+v", err)
	}
	logger.SetLevel(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Errorf("%+v", err)
		os.Exit(1)
	}
}
