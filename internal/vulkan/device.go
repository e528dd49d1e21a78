package vulkan

import (
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/raytracing/internal/gpu"
)

type Device struct {
	driver             core1_0.CoreDeviceDriver
	swapchainExtension khr_swapchain.ExtensionDriver
	surface            khr_surface.Surface
}

func (d *Device) Queue(queueFamily int) core1_0.Queue {
	return d.driver.GetQueue(queueFamily, 0)
}

func (d *Device) CreateSwapchain(cfg gpu.PresentationConfig) (gpu.Swapchain, error) {
	swapchain, _, err := d.swapchainExtension.CreateSwapchain(nil, khr_swapchain.SwapchainCreateInfo{
		Surface: d.surface,

		MinImageCount:    cfg.ImageCount,
		ImageFormat:      cfg.Format.Format,
		ImageColorSpace:  cfg.Format.ColorSpace,
		ImageExtent:      cfg.Extent,
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   cfg.Sharing.Mode,
		QueueFamilyIndices: cfg.Sharing.QueueFamilyIndices,

		PreTransform:   cfg.PreTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    cfg.PresentMode,
		Clipped:        true,
	})
	if err != nil {
		return nil, err
	}

	return &Swapchain{extension: d.swapchainExtension, swapchain: swapchain}, nil
}

// CreateImageView builds a 2D color view over the single mip level and array layer of image.
// The zero component mapping is the identity swizzle.
func (d *Device) CreateImageView(image core1_0.Image, format core1_0.Format) (core1_0.ImageView, error) {
	imageView, _, err := d.driver.CreateImageView(nil, core1_0.ImageViewCreateInfo{
		Image:    image,
		ViewType: core1_0.ImageViewType2D,
		Format:   format,
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask:     core1_0.ImageAspectColor,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	})
	return imageView, err
}

func (d *Device) DestroyImageView(view core1_0.ImageView) {
	d.driver.DestroyImageView(view, nil)
}

func (d *Device) Destroy() {
	d.driver.DestroyDevice(nil)
}

type Swapchain struct {
	extension khr_swapchain.ExtensionDriver
	swapchain khr_swapchain.Swapchain
}

func (s *Swapchain) Images() ([]core1_0.Image, error) {
	images, _, err := s.extension.GetSwapchainImages(s.swapchain)
	return images, err
}

func (s *Swapchain) Destroy() {
	s.extension.DestroySwapchain(s.swapchain, nil)
}
