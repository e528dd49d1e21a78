package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"

	"github.com/vkngwrapper/raytracing/internal/diag"
	"github.com/vkngwrapper/raytracing/internal/gpu"
)

type Instance struct {
	driver core1_0.CoreInstanceDriver
	window *sdl.Window

	surfaceExtension khr_surface.ExtensionDriver
	surface          khr_surface.Surface
}

func (i *Instance) Destroy() {
	i.driver.DestroyInstance(nil)
}

type debugMessenger struct {
	driver    ext_debug_utils.ExtensionDriver
	messenger ext_debug_utils.DebugUtilsMessenger
}

func (m *debugMessenger) Destroy() {
	m.driver.DestroyDebugUtilsMessenger(m.messenger, nil)
}

func (i *Instance) CreateDebugMessenger(handler diag.Handler) (gpu.Releaser, error) {
	debugDriver := ext_debug_utils.CreateExtensionDriverFromCoreDriver(i.driver)
	messenger, _, err := debugDriver.CreateDebugUtilsMessenger(nil, debugMessengerOptions(handler))
	if err != nil {
		return nil, err
	}

	return &debugMessenger{driver: debugDriver, messenger: messenger}, nil
}

func (i *Instance) CreateSurface() (gpu.Surface, error) {
	if i.surface.Initialized() {
		return nil, errors.New("surface already created for this instance")
	}

	i.surfaceExtension = khr_surface.CreateExtensionDriverFromCoreDriver(i.driver)
	surface, err := vkng_sdl2.CreateSurface(i.driver.Instance(), i.surfaceExtension, i.window)
	if err != nil {
		return nil, err
	}
	i.surface = surface

	return &Surface{instance: i}, nil
}

func (i *Instance) CreateDevice(adapter gpu.Adapter, request gpu.DeviceRequest) (gpu.Device, error) {
	physicalDevice, err := physicalDeviceOf(adapter)
	if err != nil {
		return nil, err
	}

	var queueFamilyOptions []core1_0.DeviceQueueCreateInfo
	queuePriority := float32(1.0)
	for _, queueFamily := range request.QueueFamilies {
		queueFamilyOptions = append(queueFamilyOptions, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: queueFamily,
			QueuePriorities:  []float32{queuePriority},
		})
	}

	deviceDriver, _, err := i.driver.CreateDevice(physicalDevice, nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queueFamilyOptions,
		EnabledFeatures:       &core1_0.PhysicalDeviceFeatures{},
		EnabledExtensionNames: request.Extensions,
		EnabledLayerNames:     request.Layers,
	})
	if err != nil {
		return nil, err
	}

	return &Device{
		driver:             deviceDriver,
		swapchainExtension: khr_swapchain.CreateExtensionDriverFromCoreDriver(deviceDriver),
		surface:            i.surface,
	}, nil
}

// Surface answers adapter queries against the instance's window surface.
type Surface struct {
	instance *Instance
}

type physicalDevice struct {
	device core1_0.PhysicalDevice
	name   string
}

func (p *physicalDevice) Name() string {
	return p.name
}

func physicalDeviceOf(adapter gpu.Adapter) (core1_0.PhysicalDevice, error) {
	p, ok := adapter.(*physicalDevice)
	if !ok {
		return core1_0.PhysicalDevice{}, errors.Newf("adapter %s was not enumerated by this backend", adapter.Name())
	}
	return p.device, nil
}

func (s *Surface) Destroy() {
	s.instance.surfaceExtension.DestroySurface(s.instance.surface, nil)
	s.instance.surface = khr_surface.Surface{}
}

func (s *Surface) Adapters() ([]gpu.Adapter, error) {
	devices, _, err := s.instance.driver.EnumeratePhysicalDevices()
	if err != nil {
		return nil, err
	}

	adapters := make([]gpu.Adapter, 0, len(devices))
	for _, device := range devices {
		properties, err := s.instance.driver.GetPhysicalDeviceProperties(device)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, &physicalDevice{device: device, name: properties.DeviceName})
	}
	return adapters, nil
}

func (s *Surface) DeviceExtensions(adapter gpu.Adapter) (gpu.ExtensionSet, error) {
	device, err := physicalDeviceOf(adapter)
	if err != nil {
		return nil, err
	}

	extensions, _, err := s.instance.driver.EnumerateDeviceExtensionProperties(device)
	if err != nil {
		return nil, err
	}

	set := gpu.NewExtensionSet()
	for name := range extensions {
		set[name] = struct{}{}
	}
	return set, nil
}

func (s *Surface) QueueFamilies(adapter gpu.Adapter) ([]gpu.QueueFamily, error) {
	device, err := physicalDeviceOf(adapter)
	if err != nil {
		return nil, err
	}

	var families []gpu.QueueFamily
	for _, queueFamily := range s.instance.driver.GetPhysicalDeviceQueueFamilyProperties(device) {
		families = append(families, gpu.QueueFamily{
			Flags:      queueFamily.QueueFlags,
			QueueCount: queueFamily.QueueCount,
		})
	}
	return families, nil
}

func (s *Surface) PresentSupport(adapter gpu.Adapter, queueFamily int) (bool, error) {
	device, err := physicalDeviceOf(adapter)
	if err != nil {
		return false, err
	}

	supported, _, err := s.instance.surfaceExtension.GetPhysicalDeviceSurfaceSupport(s.instance.surface, device, queueFamily)
	return supported, err
}

func (s *Surface) SurfaceSupport(adapter gpu.Adapter) (gpu.SurfaceSupport, error) {
	var support gpu.SurfaceSupport

	device, err := physicalDeviceOf(adapter)
	if err != nil {
		return support, err
	}

	ext := s.instance.surfaceExtension
	support.Capabilities, _, err = ext.GetPhysicalDeviceSurfaceCapabilities(s.instance.surface, device)
	if err != nil {
		return support, err
	}

	support.Formats, _, err = ext.GetPhysicalDeviceSurfaceFormats(s.instance.surface, device)
	if err != nil {
		return support, err
	}

	support.PresentModes, _, err = ext.GetPhysicalDeviceSurfacePresentModes(s.instance.surface, device)
	return support, err
}
