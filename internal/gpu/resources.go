package gpu

import (
	"github.com/vkngwrapper/core/v3/core1_0"
)

// Device is a logical device created for the selected adapter. It owns its queues.
type Device interface {
	Queue(queueFamily int) core1_0.Queue
	CreateSwapchain(cfg PresentationConfig) (Swapchain, error)
	CreateImageView(image core1_0.Image, format core1_0.Format) (core1_0.ImageView, error)
	DestroyImageView(view core1_0.ImageView)
	Destroy()
}

// Swapchain is a created presentation chain. Its images belong to the driver.
type Swapchain interface {
	Images() ([]core1_0.Image, error)
	Destroy()
}

// Presentation is the swapchain plus one view per swapchain image. Images and Views are
// index-aligned and always the same length.
type Presentation struct {
	Config    PresentationConfig
	Swapchain Swapchain
	Images    []core1_0.Image
	Views     []core1_0.ImageView

	device Device
}

// BuildPresentation creates the swapchain described by cfg and a view for each of its images.
func BuildPresentation(device Device, cfg PresentationConfig) (*Presentation, error) {
	p := &Presentation{device: device}
	if err := p.build(cfg); err != nil {
		return nil, err
	}
	return p, nil
}

// Rebuild releases the current views and swapchain and builds new ones from cfg in place.
func (p *Presentation) Rebuild(cfg PresentationConfig) error {
	p.Release()
	return p.build(cfg)
}

func (p *Presentation) build(cfg PresentationConfig) error {
	swapchain, err := p.device.CreateSwapchain(cfg)
	if err != nil {
		return creationError(err, "swapchain")
	}
	p.Swapchain = swapchain
	p.Config = cfg

	images, err := swapchain.Images()
	if err != nil {
		p.Release()
		return enumerationError(err, "swapchain images")
	}

	views := make([]core1_0.ImageView, 0, len(images))
	for _, image := range images {
		view, err := p.device.CreateImageView(image, cfg.Format.Format)
		if err != nil {
			p.Views = views
			p.Release()
			return creationError(err, "image view")
		}
		views = append(views, view)
	}

	p.Images = images
	p.Views = views
	return nil
}

// ReleaseViews destroys the image views. Safe to call more than once.
func (p *Presentation) ReleaseViews() {
	for _, view := range p.Views {
		p.device.DestroyImageView(view)
	}
	p.Views = nil
	p.Images = nil
}

// ReleaseSwapchain destroys the swapchain. Views must already be gone.
func (p *Presentation) ReleaseSwapchain() {
	if p.Swapchain == nil {
		return
	}
	p.Swapchain.Destroy()
	p.Swapchain = nil
}

// Release destroys views and then the swapchain.
func (p *Presentation) Release() {
	p.ReleaseViews()
	p.ReleaseSwapchain()
}
