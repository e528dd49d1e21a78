// Package vulkan implements the gpu negotiation contracts on top of vkngwrapper.
package vulkan

import (
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"

	"github.com/vkngwrapper/raytracing/internal/diag"
	"github.com/vkngwrapper/raytracing/internal/gpu"
	"github.com/vkngwrapper/raytracing/internal/window"
)

// Backend is the loaded Vulkan library, before any instance exists.
type Backend struct {
	globalDriver core1_0.GlobalDriver
	window       *sdl.Window
}

func NewBackend(win *window.Window) (*Backend, error) {
	globalDriver, err := core.CreateDriverFromProcAddr(win.ProcAddr())
	if err != nil {
		return nil, err
	}

	return &Backend{globalDriver: globalDriver, window: win.Handle}, nil
}

func (b *Backend) InstanceExtensions() (gpu.ExtensionSet, error) {
	extensions, _, err := b.globalDriver.AvailableExtensions()
	if err != nil {
		return nil, err
	}

	set := gpu.NewExtensionSet()
	for name := range extensions {
		set[name] = struct{}{}
	}
	return set, nil
}

func (b *Backend) InstanceLayers() (gpu.ExtensionSet, error) {
	layers, _, err := b.globalDriver.AvailableLayers()
	if err != nil {
		return nil, err
	}

	set := gpu.NewExtensionSet()
	for name := range layers {
		set[name] = struct{}{}
	}
	return set, nil
}

func (b *Backend) CreateInstance(request gpu.InstanceRequest, handler diag.Handler) (gpu.Instance, error) {
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:       request.ApplicationName,
		ApplicationVersion:    common.CreateVersion(0, 0, 1),
		EngineName:            "No Engine",
		EngineVersion:         common.CreateVersion(0, 0, 1),
		APIVersion:            common.Vulkan1_0,
		EnabledExtensionNames: request.Extensions,
		EnabledLayerNames:     request.Layers,
	}

	if request.EnumeratePortability {
		instanceOptions.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	// Chaining the messenger options catches messages from instance creation and destruction too.
	if request.Validation {
		instanceOptions.Next = debugMessengerOptions(handler)
	}

	instanceDriver, _, err := b.globalDriver.CreateInstance(nil, instanceOptions)
	if err != nil {
		return nil, err
	}

	return &Instance{driver: instanceDriver, window: b.window}, nil
}

func debugMessengerOptions(handler diag.Handler) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityVerbose | ext_debug_utils.SeverityWarning | ext_debug_utils.SeverityError,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback: func(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
			return handler.HandleMessage(diag.Message{
				Severity: severity,
				Type:     msgType,
				Text:     data.Message,
			})
		},
	}
}

var (
	_ gpu.Backend   = (*Backend)(nil)
	_ gpu.Instance  = (*Instance)(nil)
	_ gpu.Surface   = (*Surface)(nil)
	_ gpu.Device    = (*Device)(nil)
	_ gpu.Swapchain = (*Swapchain)(nil)
)
