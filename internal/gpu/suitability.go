package gpu

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/extensions/v3/khr_portability_subset"
)

// MissingExtensions returns the members of required absent from available, in required order,
// without duplicates.
func MissingExtensions(required []string, available ExtensionSet) []string {
	var missing []string
	for _, ext := range required {
		if !available.Has(ext) {
			missing = appendUnique(missing, ext)
		}
	}
	return missing
}

// IsSuitable accepts an adapter when its queue families are complete for the surface, it supports
// every required device extension, and the surface offers it at least one format and one present mode.
func IsSuitable(prober AdapterProber, adapter Adapter, requiredExtensions []string) (bool, error) {
	indices, err := FindQueueFamilies(prober, adapter)
	if err != nil {
		return false, err
	}

	available, err := prober.DeviceExtensions(adapter)
	if err != nil {
		return false, enumerationError(err, "device extensions")
	}
	extensionsSupported := len(MissingExtensions(requiredExtensions, available)) == 0

	swapchainAdequate := false
	if extensionsSupported {
		support, err := prober.SurfaceSupport(adapter)
		if err != nil {
			return false, enumerationError(err, "surface support")
		}
		swapchainAdequate = len(support.Formats) > 0 && len(support.PresentModes) > 0
	}

	return indices.IsComplete() && extensionsSupported && swapchainAdequate, nil
}

// PickAdapter returns the first suitable adapter in enumeration order.
func PickAdapter(prober AdapterProber, requiredExtensions []string, log *logrus.Entry) (Adapter, error) {
	adapters, err := prober.Adapters()
	if err != nil {
		return nil, enumerationError(err, "physical devices")
	}
	if len(adapters) == 0 {
		return nil, errors.Mark(errors.New("could not enumerate physical devices: none reported"), ErrEnumeration)
	}

	for _, adapter := range adapters {
		suitable, err := IsSuitable(prober, adapter, requiredExtensions)
		if err != nil {
			return nil, err
		}

		log.WithField("adapter", adapter.Name()).WithField("suitable", suitable).Debug("evaluated adapter")
		if suitable {
			return adapter, nil
		}
	}

	return nil, errors.Mark(errors.New("failed to find a suitable GPU"), ErrNoSuitableAdapter)
}

// DeviceExtensions lists the extensions to enable on the logical device: the required ones plus the
// portability subset whenever the adapter advertises it.
func DeviceExtensions(prober AdapterProber, adapter Adapter, requiredExtensions []string) ([]string, error) {
	available, err := prober.DeviceExtensions(adapter)
	if err != nil {
		return nil, enumerationError(err, "device extensions")
	}

	if missing := MissingExtensions(requiredExtensions, available); len(missing) > 0 {
		return nil, requirementError("missing device extension %s", missing[0])
	}

	extensions := dedupe(requiredExtensions)
	if available.Has(khr_portability_subset.ExtensionName) {
		extensions = appendUnique(extensions, khr_portability_subset.ExtensionName)
	}
	return extensions, nil
}
