// Package window is the SDL2 windowing layer the Vulkan surface is bound to.
package window

import (
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/vkngwrapper/raytracing/internal/config"
)

// Window is a fixed-size SDL window created for Vulkan rendering. SDL must be driven from the
// thread that created it.
type Window struct {
	Handle *sdl.Window
}

func Open(cfg config.Window) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, err
	}

	handle, err := sdl.CreateWindow(cfg.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.Width), int32(cfg.Height), sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN)
	if err != nil {
		sdl.Quit()
		return nil, err
	}

	return &Window{Handle: handle}, nil
}

// ProcAddr is the loader entry point SDL resolved for the Vulkan library.
func (w *Window) ProcAddr() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

func (w *Window) RequiredExtensions() []string {
	return w.Handle.VulkanGetInstanceExtensions()
}

func (w *Window) FramebufferSize() (int, int) {
	width, height := w.Handle.VulkanGetDrawableSize()
	return int(width), int(height)
}

// PollEvents drains the event queue and reports whether the run loop should keep going.
func (w *Window) PollEvents() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch event.(type) {
		case *sdl.QuitEvent:
			return false
		}
	}
	return true
}

// Run pumps events until the window is closed.
func (w *Window) Run() {
	for w.PollEvents() {
		sdl.Delay(1)
	}
}

func (w *Window) Destroy() {
	if w.Handle != nil {
		w.Handle.Destroy()
		w.Handle = nil
	}
	sdl.Quit()
}
