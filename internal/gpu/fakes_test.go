package gpu_test

import (
	"io/ioutil"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/raytracing/internal/config"
	"github.com/vkngwrapper/raytracing/internal/diag"
	"github.com/vkngwrapper/raytracing/internal/gpu"
)

var (
	preferredFormat = khr_surface.SurfaceFormat{Format: core1_0.FormatB8G8R8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear}
	otherFormatX    = khr_surface.SurfaceFormat{Format: core1_0.FormatR32G32B32SignedFloat, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear}
	otherFormatY    = khr_surface.SurfaceFormat{Format: core1_0.FormatR32G32SignedFloat, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear}

	errDriver = errors.New("driver returned VK_ERROR_INITIALIZATION_FAILED")
)

func quietLog() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)
	return logrus.NewEntry(logger)
}

// recorder tracks the order resources are released in.
type recorder struct {
	events []string
}

func (r *recorder) record(name string) {
	r.events = append(r.events, name)
}

func (r *recorder) first(name string) int {
	for i, event := range r.events {
		if event == name {
			return i
		}
	}
	return -1
}

func (r *recorder) last(name string) int {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i] == name {
			return i
		}
	}
	return -1
}

func (r *recorder) count(name string) int {
	n := 0
	for _, event := range r.events {
		if event == name {
			n++
		}
	}
	return n
}

type fakeAdapter struct {
	name       string
	families   []gpu.QueueFamily
	present    []bool
	extensions []string
	support    gpu.SurfaceSupport

	queueErr   error
	presentErr error
}

func (a *fakeAdapter) Name() string {
	return a.name
}

func graphicsFamily() gpu.QueueFamily {
	return gpu.QueueFamily{Flags: core1_0.QueueGraphics, QueueCount: 1}
}

func plainFamily() gpu.QueueFamily {
	return gpu.QueueFamily{QueueCount: 1}
}

func defaultCapabilities() *khr_surface.SurfaceCapabilities {
	return &khr_surface.SurfaceCapabilities{
		MinImageCount:  2,
		MaxImageCount:  8,
		CurrentExtent:  core1_0.Extent2D{Width: 800, Height: 600},
		MinImageExtent: core1_0.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: core1_0.Extent2D{Width: 4096, Height: 4096},
	}
}

// goodAdapter has one family doing both graphics and presentation and a usable surface.
func goodAdapter(name string) *fakeAdapter {
	return &fakeAdapter{
		name:       name,
		families:   []gpu.QueueFamily{graphicsFamily()},
		present:    []bool{true},
		extensions: []string{khr_swapchain.ExtensionName},
		support: gpu.SurfaceSupport{
			Capabilities: defaultCapabilities(),
			Formats:      []khr_surface.SurfaceFormat{otherFormatX, preferredFormat},
			PresentModes: []khr_surface.PresentMode{khr_surface.PresentModeFIFO, khr_surface.PresentModeMailbox},
		},
	}
}

type fakeProber struct {
	adapters    []gpu.Adapter
	adaptersErr error

	presentQueries int
	supportQueries int
}

func (p *fakeProber) Adapters() ([]gpu.Adapter, error) {
	return p.adapters, p.adaptersErr
}

func (p *fakeProber) DeviceExtensions(adapter gpu.Adapter) (gpu.ExtensionSet, error) {
	return gpu.NewExtensionSet(adapter.(*fakeAdapter).extensions...), nil
}

func (p *fakeProber) QueueFamilies(adapter gpu.Adapter) ([]gpu.QueueFamily, error) {
	a := adapter.(*fakeAdapter)
	return a.families, a.queueErr
}

func (p *fakeProber) PresentSupport(adapter gpu.Adapter, queueFamily int) (bool, error) {
	p.presentQueries++
	a := adapter.(*fakeAdapter)
	if a.presentErr != nil {
		return false, a.presentErr
	}
	return queueFamily < len(a.present) && a.present[queueFamily], nil
}

func (p *fakeProber) SurfaceSupport(adapter gpu.Adapter) (gpu.SurfaceSupport, error) {
	p.supportQueries++
	return adapter.(*fakeAdapter).support, nil
}

type fakeSurface struct {
	fakeProber
	rec *recorder
}

func (s *fakeSurface) Destroy() {
	s.rec.record("surface")
}

type fakeReleaser struct {
	name string
	rec  *recorder
}

func (r *fakeReleaser) Destroy() {
	r.rec.record(r.name)
}

type fakeSwapchain struct {
	images int
	rec    *recorder
}

func (s *fakeSwapchain) Images() ([]core1_0.Image, error) {
	return make([]core1_0.Image, s.images), nil
}

func (s *fakeSwapchain) Destroy() {
	s.rec.record("swapchain")
}

type fakeDevice struct {
	rec *recorder

	images        int
	failViewAfter int
	failSwapchain bool

	queues     []int
	swapchains []gpu.PresentationConfig
	viewsMade  int
}

func (d *fakeDevice) Queue(queueFamily int) core1_0.Queue {
	d.queues = append(d.queues, queueFamily)
	return core1_0.Queue{}
}

func (d *fakeDevice) CreateSwapchain(cfg gpu.PresentationConfig) (gpu.Swapchain, error) {
	if d.failSwapchain {
		return nil, errDriver
	}
	d.swapchains = append(d.swapchains, cfg)
	return &fakeSwapchain{images: d.images, rec: d.rec}, nil
}

func (d *fakeDevice) CreateImageView(image core1_0.Image, format core1_0.Format) (core1_0.ImageView, error) {
	if d.failViewAfter > 0 && d.viewsMade == d.failViewAfter {
		return core1_0.ImageView{}, errDriver
	}
	d.viewsMade++
	return core1_0.ImageView{}, nil
}

func (d *fakeDevice) DestroyImageView(view core1_0.ImageView) {
	d.rec.record("view")
}

func (d *fakeDevice) Destroy() {
	d.rec.record("device")
}

type fakeInstance struct {
	rec     *recorder
	surface *fakeSurface
	device  *fakeDevice
	failOn  string

	deviceRequests []gpu.DeviceRequest
}

func (i *fakeInstance) CreateDebugMessenger(handler diag.Handler) (gpu.Releaser, error) {
	if i.failOn == "messenger" {
		return nil, errDriver
	}
	return &fakeReleaser{name: "messenger", rec: i.rec}, nil
}

func (i *fakeInstance) CreateSurface() (gpu.Surface, error) {
	if i.failOn == "surface" {
		return nil, errDriver
	}
	return i.surface, nil
}

func (i *fakeInstance) CreateDevice(adapter gpu.Adapter, request gpu.DeviceRequest) (gpu.Device, error) {
	if i.failOn == "device" {
		return nil, errDriver
	}
	i.deviceRequests = append(i.deviceRequests, request)
	return i.device, nil
}

func (i *fakeInstance) Destroy() {
	i.rec.record("instance")
}

type fakeBackend struct {
	extensions gpu.ExtensionSet
	layers     gpu.ExtensionSet
	instance   *fakeInstance
	failOn     string

	requests []gpu.InstanceRequest
}

func (b *fakeBackend) InstanceExtensions() (gpu.ExtensionSet, error) {
	if b.failOn == "extensions" {
		return nil, errDriver
	}
	return b.extensions, nil
}

func (b *fakeBackend) InstanceLayers() (gpu.ExtensionSet, error) {
	return b.layers, nil
}

func (b *fakeBackend) CreateInstance(request gpu.InstanceRequest, handler diag.Handler) (gpu.Instance, error) {
	b.requests = append(b.requests, request)
	if b.failOn == "instance" {
		return nil, errDriver
	}
	return b.instance, nil
}

type fakeWindow struct {
	extensions    []string
	width, height int
}

func (w *fakeWindow) RequiredExtensions() []string {
	return w.extensions
}

func (w *fakeWindow) FramebufferSize() (int, int) {
	return w.width, w.height
}

type fakeShaders map[string][]byte

func (s fakeShaders) Load(name string) ([]byte, error) {
	data, ok := s[name]
	if !ok {
		return nil, errors.Newf("could not open file %s", name)
	}
	return data, nil
}

type nopHandler struct{}

func (nopHandler) HandleMessage(diag.Message) bool {
	return false
}

type world struct {
	rec      *recorder
	backend  *fakeBackend
	instance *fakeInstance
	surface  *fakeSurface
	device   *fakeDevice
	window   *fakeWindow
	shaders  fakeShaders
	cfg      config.Config
}

func newWorld(adapters ...gpu.Adapter) *world {
	rec := &recorder{}
	surface := &fakeSurface{fakeProber: fakeProber{adapters: adapters}, rec: rec}
	device := &fakeDevice{rec: rec, images: 3}
	instance := &fakeInstance{rec: rec, surface: surface, device: device}

	cfg := config.Default()
	cfg.Validation.Enabled = true

	return &world{
		rec: rec,
		backend: &fakeBackend{
			extensions: gpu.NewExtensionSet("VK_KHR_surface", "VK_KHR_xlib_surface", "VK_EXT_debug_utils"),
			layers:     gpu.NewExtensionSet("VK_LAYER_KHRONOS_validation"),
			instance:   instance,
		},
		instance: instance,
		surface:  surface,
		device:   device,
		window:   &fakeWindow{extensions: []string{"VK_KHR_surface", "VK_KHR_xlib_surface"}, width: 800, height: 600},
		shaders:  fakeShaders{"vert.spv": {3, 2, 35, 7}, "frag.spv": {3, 2, 35, 7, 0, 0, 1, 0}},
		cfg:      cfg,
	}
}

func (w *world) negotiate() (*gpu.Session, error) {
	return gpu.Negotiate(w.cfg, w.backend, w.window, w.shaders, nopHandler{}, quietLog())
}
