package gpu

import (
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_get_physical_device_properties2"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
	"github.com/vkngwrapper/extensions/v3/khr_surface"

	"github.com/vkngwrapper/raytracing/internal/config"
)

// ExtensionSet holds the extension or layer names reported by the platform.
type ExtensionSet map[string]struct{}

func NewExtensionSet(names ...string) ExtensionSet {
	set := make(ExtensionSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func (s ExtensionSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Adapter is a physical device borrowed from the platform while an adapter is being selected.
type Adapter interface {
	Name() string
}

type QueueFamily struct {
	Flags      core1_0.QueueFlags
	QueueCount int
}

func (f QueueFamily) SupportsGraphics() bool {
	return f.Flags&core1_0.QueueGraphics != 0
}

// SurfaceSupport is a snapshot of what an (adapter, surface) pair offers. It must be queried
// again whenever either side changes.
type SurfaceSupport struct {
	Capabilities *khr_surface.SurfaceCapabilities
	Formats      []khr_surface.SurfaceFormat
	PresentModes []khr_surface.PresentMode
}

// InstanceProber answers the queries that precede instance creation.
type InstanceProber interface {
	InstanceExtensions() (ExtensionSet, error)
	InstanceLayers() (ExtensionSet, error)
}

// AdapterProber answers per-adapter queries against the surface the prober is bound to.
type AdapterProber interface {
	Adapters() ([]Adapter, error)
	DeviceExtensions(adapter Adapter) (ExtensionSet, error)
	QueueFamilies(adapter Adapter) ([]QueueFamily, error)
	PresentSupport(adapter Adapter, queueFamily int) (bool, error)
	SurfaceSupport(adapter Adapter) (SurfaceSupport, error)
}

// InstanceRequest is everything needed to create the instance.
type InstanceRequest struct {
	ApplicationName      string
	Extensions           []string
	Layers               []string
	EnumeratePortability bool
	Validation           bool
}

// PlanInstance checks the instance-level requirements against what the platform offers and
// returns the resulting creation request.
func PlanInstance(cfg config.Config, prober InstanceProber, windowExtensions []string) (InstanceRequest, error) {
	request := InstanceRequest{
		ApplicationName: cfg.Window.Title,
		Validation:      cfg.Validation.Enabled,
	}

	available, err := prober.InstanceExtensions()
	if err != nil {
		return request, enumerationError(err, "instance extensions")
	}

	request.Extensions, request.EnumeratePortability, err = ResolveInstanceExtensions(cfg, available, windowExtensions)
	if err != nil {
		return request, err
	}

	if !cfg.Validation.Enabled {
		return request, nil
	}

	layers, err := prober.InstanceLayers()
	if err != nil {
		return request, enumerationError(err, "instance layers")
	}

	if err := RequireLayers(cfg.Validation.Layers, layers); err != nil {
		return request, err
	}
	request.Layers = append(request.Layers, cfg.Validation.Layers...)

	return request, nil
}

// ResolveInstanceExtensions builds the instance extension list. Every extension the window asks for,
// plus debug utils when validation is on, must be available. Properties2 and portability enumeration
// are added whenever the platform offers them: the portability subset a device may demand later
// depends on properties2, and instance extensions cannot be added after creation.
func ResolveInstanceExtensions(cfg config.Config, available ExtensionSet, windowExtensions []string) ([]string, bool, error) {
	required := append([]string{}, windowExtensions...)
	if cfg.Validation.Enabled {
		required = append(required, ext_debug_utils.ExtensionName)
	}

	for _, ext := range required {
		if !available.Has(ext) {
			return nil, false, requirementError("missing instance extension %s", ext)
		}
	}

	extensions := dedupe(required)
	if available.Has(khr_get_physical_device_properties2.ExtensionName) {
		extensions = appendUnique(extensions, khr_get_physical_device_properties2.ExtensionName)
	}

	portability := available.Has(khr_portability_enumeration.ExtensionName)
	if portability {
		extensions = appendUnique(extensions, khr_portability_enumeration.ExtensionName)
	}

	return extensions, portability, nil
}

// RequireLayers fails unless every requested layer is available.
func RequireLayers(layers []string, available ExtensionSet) error {
	for _, layer := range layers {
		if !available.Has(layer) {
			return requirementError("validation layer %s not available- install the LunarG Vulkan SDK", layer)
		}
	}
	return nil
}

func dedupe(names []string) []string {
	var out []string
	for _, name := range names {
		out = appendUnique(out, name)
	}
	return out
}

func appendUnique(names []string, name string) []string {
	for _, existing := range names {
		if existing == name {
			return names
		}
	}
	return append(names, name)
}
