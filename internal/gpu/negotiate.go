package gpu

import (
	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/v3/core1_0"

	"github.com/vkngwrapper/raytracing/internal/config"
	"github.com/vkngwrapper/raytracing/internal/diag"
)

// Backend is the platform graphics API before an instance exists.
type Backend interface {
	InstanceProber
	CreateInstance(request InstanceRequest, handler diag.Handler) (Instance, error)
}

// Instance is a created API instance.
type Instance interface {
	CreateDebugMessenger(handler diag.Handler) (Releaser, error)
	CreateSurface() (Surface, error)
	CreateDevice(adapter Adapter, request DeviceRequest) (Device, error)
	Destroy()
}

// Surface is the presentation target bound to the window. Adapter queries run against it.
type Surface interface {
	AdapterProber
	Destroy()
}

type Releaser interface {
	Destroy()
}

type DeviceRequest struct {
	QueueFamilies []int
	Extensions    []string
	Layers        []string
}

// Window is the part of the windowing layer negotiation needs.
type Window interface {
	FramebufferSizer
	RequiredExtensions() []string
}

// ShaderSource reads whole compiled shader files.
type ShaderSource interface {
	Load(name string) ([]byte, error)
}

type ShaderCode struct {
	Vertex   []byte
	Fragment []byte
}

// Session is the result of a completed negotiation: a device with its queues and a swapchain with
// its views, ready for a pipeline.
type Session struct {
	Adapter       Adapter
	Indices       QueueFamilyIndices
	Device        Device
	GraphicsQueue core1_0.Queue
	PresentQueue  core1_0.Queue
	Presentation  *Presentation
	Shaders       ShaderCode

	surface  Surface
	window   Window
	teardown Teardown
	log      *logrus.Entry
}

// Negotiate runs the whole startup sequence. Every resource is registered for teardown as soon as it
// exists; if any step fails, whatever was created is released before the error is returned.
func Negotiate(cfg config.Config, backend Backend, window Window, shaders ShaderSource, handler diag.Handler, log *logrus.Entry) (*Session, error) {
	start := hrtime.Now()
	s := &Session{window: window, log: log}

	if err := s.negotiate(cfg, backend, shaders, handler); err != nil {
		s.Close()
		return nil, err
	}

	log.WithField("elapsed", hrtime.Since(start)).Info("negotiation complete")
	return s, nil
}

func (s *Session) negotiate(cfg config.Config, backend Backend, shaders ShaderSource, handler diag.Handler) error {
	request, err := PlanInstance(cfg, backend, s.window.RequiredExtensions())
	if err != nil {
		return err
	}
	s.log.WithField("extensions", request.Extensions).WithField("layers", request.Layers).Debug("instance request")

	instance, err := backend.CreateInstance(request, handler)
	if err != nil {
		return creationError(err, "instance")
	}
	s.teardown.Add(StageInstance, instance.Destroy)

	if cfg.Validation.Enabled {
		messenger, err := instance.CreateDebugMessenger(handler)
		if err != nil {
			return creationError(err, "debug messenger")
		}
		s.teardown.Add(StageDebugMessenger, messenger.Destroy)
	}

	surface, err := instance.CreateSurface()
	if err != nil {
		return creationError(err, "window surface")
	}
	s.teardown.Add(StageSurface, surface.Destroy)
	s.surface = surface

	s.Adapter, err = PickAdapter(surface, cfg.DeviceExtensions, s.log)
	if err != nil {
		return err
	}
	s.log.WithField("adapter", s.Adapter.Name()).Info("selected adapter")

	if err := s.createDevice(cfg, instance, request.Layers); err != nil {
		return err
	}

	support, err := surface.SurfaceSupport(s.Adapter)
	if err != nil {
		return enumerationError(err, "surface support")
	}

	presentCfg, err := Configure(support, s.Indices, s.window)
	if err != nil {
		return err
	}
	s.logPresentation(presentCfg)

	s.Presentation, err = BuildPresentation(s.Device, presentCfg)
	if err != nil {
		return err
	}
	s.teardown.Add(StageSwapchain, s.Presentation.ReleaseSwapchain)
	s.teardown.Add(StageImageViews, s.Presentation.ReleaseViews)

	return s.loadShaders(cfg, shaders)
}

func (s *Session) createDevice(cfg config.Config, instance Instance, layers []string) error {
	indices, err := FindQueueFamilies(s.surface, s.Adapter)
	if err != nil {
		return err
	}
	if !indices.IsComplete() {
		return requirementError("adapter %s has no complete graphics/present queue families", s.Adapter.Name())
	}
	s.Indices = indices

	extensions, err := DeviceExtensions(s.surface, s.Adapter, cfg.DeviceExtensions)
	if err != nil {
		return err
	}

	device, err := instance.CreateDevice(s.Adapter, DeviceRequest{
		QueueFamilies: indices.UniqueFamilies(),
		Extensions:    extensions,
		Layers:        layers,
	})
	if err != nil {
		return creationError(err, "logical device")
	}
	s.teardown.Add(StageDevice, device.Destroy)
	s.Device = device

	graphics, _ := indices.Graphics.Get()
	present, _ := indices.Present.Get()
	s.GraphicsQueue = device.Queue(graphics)
	s.PresentQueue = device.Queue(present)

	s.log.WithFields(logrus.Fields{
		"graphicsFamily": graphics,
		"presentFamily":  present,
		"extensions":     extensions,
	}).Debug("created logical device")
	return nil
}

func (s *Session) loadShaders(cfg config.Config, shaders ShaderSource) error {
	var err error
	s.Shaders.Vertex, err = shaders.Load(cfg.Shaders.Vertex)
	if err != nil {
		return errors.Wrap(err, "vertex shader")
	}

	s.Shaders.Fragment, err = shaders.Load(cfg.Shaders.Fragment)
	if err != nil {
		return errors.Wrap(err, "fragment shader")
	}
	return nil
}

func (s *Session) logPresentation(cfg PresentationConfig) {
	s.log.WithFields(logrus.Fields{
		"format":      cfg.Format.Format,
		"colorSpace":  cfg.Format.ColorSpace,
		"presentMode": cfg.PresentMode,
		"width":       cfg.Extent.Width,
		"height":      cfg.Extent.Height,
		"imageCount":  cfg.ImageCount,
		"sharing":     cfg.Sharing.Mode,
	}).Info("configured presentation")
}

// Reconfigure re-queries the surface and rebuilds the swapchain and its views. Callers decide when
// the current configuration has become stale.
func (s *Session) Reconfigure() error {
	support, err := s.surface.SurfaceSupport(s.Adapter)
	if err != nil {
		return enumerationError(err, "surface support")
	}

	cfg, err := Configure(support, s.Indices, s.window)
	if err != nil {
		return err
	}
	s.logPresentation(cfg)

	return s.Presentation.Rebuild(cfg)
}

// Defer registers an additional release action, such as the window, with the session teardown.
func (s *Session) Defer(stage Stage, release func()) {
	s.teardown.Add(stage, release)
}

// Close releases every resource in teardown order.
func (s *Session) Close() {
	s.teardown.Release()
}
