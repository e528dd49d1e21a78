package gpu

import (
	"math"

	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

// FramebufferSizer reports the live drawable size of the window in pixels.
type FramebufferSizer interface {
	FramebufferSize() (width, height int)
}

type Sharing struct {
	Mode               core1_0.SharingMode
	QueueFamilyIndices []int
}

// PresentationConfig is derived once per swapchain build. It is invalidated by anything that
// changes the surface and has to be rebuilt from a fresh SurfaceSupport query.
type PresentationConfig struct {
	Format       khr_surface.SurfaceFormat
	PresentMode  khr_surface.PresentMode
	Extent       core1_0.Extent2D
	ImageCount   int
	Sharing      Sharing
	PreTransform khr_surface.SurfaceTransformFlags
}

// Configure picks format, present mode, extent, image count and sharing for a surface.
func Configure(support SurfaceSupport, indices QueueFamilyIndices, sizer FramebufferSizer) (PresentationConfig, error) {
	var cfg PresentationConfig

	if support.Capabilities == nil {
		return cfg, requirementError("surface capabilities unavailable")
	}
	if len(support.Formats) == 0 {
		return cfg, requirementError("surface offers no formats")
	}
	if !indices.IsComplete() {
		return cfg, requirementError("queue family indices incomplete")
	}

	cfg.Format = ChooseSurfaceFormat(support.Formats)
	cfg.PresentMode = ChoosePresentMode(support.PresentModes)
	cfg.Extent = ChooseExtent(support.Capabilities, sizer)
	cfg.ImageCount = ChooseImageCount(support.Capabilities)
	cfg.Sharing = ChooseSharing(indices)
	cfg.PreTransform = support.Capabilities.CurrentTransform

	return cfg, nil
}

// ChooseSurfaceFormat prefers BGRA8 SRGB in the SRGB nonlinear color space and otherwise takes
// the first offered format. formats must not be empty.
func ChooseSurfaceFormat(formats []khr_surface.SurfaceFormat) khr_surface.SurfaceFormat {
	for _, format := range formats {
		if format.Format == core1_0.FormatB8G8R8A8SRGB && format.ColorSpace == khr_surface.ColorSpaceSRGBNonlinear {
			return format
		}
	}

	return formats[0]
}

// ChoosePresentMode prefers mailbox. FIFO is guaranteed by the platform so it needs no check.
func ChoosePresentMode(modes []khr_surface.PresentMode) khr_surface.PresentMode {
	for _, mode := range modes {
		if mode == khr_surface.PresentModeMailbox {
			return mode
		}
	}

	return khr_surface.PresentModeFIFO
}

// ChooseExtent uses the surface's current extent unless the surface leaves it undefined, in which
// case the framebuffer size is clamped into the supported range one dimension at a time.
func ChooseExtent(capabilities *khr_surface.SurfaceCapabilities, sizer FramebufferSizer) core1_0.Extent2D {
	if !extentUndefined(capabilities.CurrentExtent) {
		return capabilities.CurrentExtent
	}

	width, height := sizer.FramebufferSize()

	return core1_0.Extent2D{
		Width:  clamp(width, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width),
		Height: clamp(height, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height),
	}
}

// ChooseImageCount asks for one image more than the driver minimum. A max of zero means unbounded.
func ChooseImageCount(capabilities *khr_surface.SurfaceCapabilities) int {
	imageCount := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && imageCount > capabilities.MaxImageCount {
		imageCount = capabilities.MaxImageCount
	}
	return imageCount
}

// ChooseSharing shares images concurrently between two distinct families. A single family gets
// exclusive mode with no family list, and so do incomplete indices.
func ChooseSharing(indices QueueFamilyIndices) Sharing {
	if !indices.IsComplete() || indices.Shared() {
		return Sharing{Mode: core1_0.SharingModeExclusive}
	}

	return Sharing{
		Mode:               core1_0.SharingModeConcurrent,
		QueueFamilyIndices: []int{indices.Graphics.index, indices.Present.index},
	}
}

// The platform reports 0xFFFFFFFF for both components; depending on the conversion it arrives as -1.
func extentUndefined(extent core1_0.Extent2D) bool {
	return undefinedDimension(extent.Width) && undefinedDimension(extent.Height)
}

func undefinedDimension(v int) bool {
	return v == -1 || int64(v) == math.MaxUint32
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
