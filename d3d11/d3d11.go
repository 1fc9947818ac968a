//go:build windows

// Package d3d11 binds the few Direct3D 11 and DXGI calls the overlay needs. COM objects are
// go-ole IUnknowns; methods are called by vtable index.
package d3d11

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"
)

var (
	modd3d11                          = windows.NewLazySystemDLL("d3d11.dll")
	procD3D11CreateDeviceAndSwapChain = modd3d11.NewProc("D3D11CreateDeviceAndSwapChain")
)

var (
	IID_ID3D11Device    = ole.NewGUID("{db6f6ddb-ac77-4e88-8253-819df9bbf140}")
	IID_ID3D11Texture2D = ole.NewGUID("{6f15aaf2-d208-4e89-9ab4-489535d34f9c}")
)

// IDXGISwapChain vtable indices
const (
	SwapChainGetDevice     = 7
	SwapChainPresent       = 8
	SwapChainGetBuffer     = 9
	SwapChainGetDesc       = 12
	SwapChainResizeBuffers = 13
)

const (
	DRIVER_TYPE_HARDWARE = 1
	DRIVER_TYPE_WARP     = 5
	SDK_VERSION          = 7

	DXGI_FORMAT_R8G8B8A8_UNORM      = 28
	DXGI_USAGE_RENDER_TARGET_OUTPUT = 0x20
	DXGI_SWAP_EFFECT_DISCARD        = 0
)

// Object is any COM interface pointer
type Object struct {
	*ole.IUnknown
}

func wrap(p uintptr) Object {
	return Object{(*ole.IUnknown)(unsafe.Pointer(p))}
}

func (o Object) IsNil() bool { return o.IUnknown == nil }

func (o Object) Ptr() uintptr { return uintptr(unsafe.Pointer(o.IUnknown)) }

// Vtable is the address of the object's method table
func (o Object) Vtable() uintptr {
	return *(*uintptr)(unsafe.Pointer(o.IUnknown))
}

// SlotAddr is the address of method index in the vtable; it is shared by every object of the class
func (o Object) SlotAddr(index int) uintptr {
	return o.Vtable() + uintptr(index)*unsafe.Sizeof(uintptr(0))
}

func (o Object) method(index int) uintptr {
	return *(*uintptr)(unsafe.Pointer(o.SlotAddr(index)))
}

// Call invokes method index with the object as this
func (o Object) Call(index int, args ...uintptr) uintptr {
	ret, _, _ := syscall.SyscallN(o.method(index), append([]uintptr{o.Ptr()}, args...)...)
	return ret
}

// CallHR is Call for methods returning an HRESULT
func (o Object) CallHR(name string, index int, args ...uintptr) error {
	if hr := int32(o.Call(index, args...)); hr < 0 {
		return fmt.Errorf("%s: %w", name, ole.NewError(uintptr(uint32(hr))))
	}
	return nil
}

// SafeRelease releases o if set and clears it
func (o *Object) SafeRelease() {
	if o.IUnknown != nil {
		o.Release()
		o.IUnknown = nil
	}
}

type Rational struct {
	Numerator   uint32
	Denominator uint32
}

type ModeDesc struct {
	Width            uint32
	Height           uint32
	RefreshRate      Rational
	Format           uint32
	ScanlineOrdering uint32
	Scaling          uint32
}

type SampleDesc struct {
	Count   uint32
	Quality uint32
}

// SwapChainDesc is DXGI_SWAP_CHAIN_DESC
type SwapChainDesc struct {
	BufferDesc   ModeDesc
	SampleDesc   SampleDesc
	BufferUsage  uint32
	BufferCount  uint32
	OutputWindow windows.HWND
	Windowed     int32
	SwapEffect   uint32
	Flags        uint32
}

type SwapChain struct{ Object }
type Device struct{ Object }
type DeviceContext struct{ Object }

// SwapChainFrom wraps the this pointer handed to a Present interceptor
func SwapChainFrom(p uintptr) SwapChain { return SwapChain{wrap(p)} }

func (s SwapChain) Desc() (SwapChainDesc, error) {
	var d SwapChainDesc
	err := s.CallHR("IDXGISwapChain::GetDesc", SwapChainGetDesc, uintptr(unsafe.Pointer(&d)))
	return d, err
}

// Device returns the swap chain's device with a reference the caller must release
func (s SwapChain) Device() (Device, error) {
	var p uintptr
	if err := s.CallHR("IDXGISwapChain::GetDevice", SwapChainGetDevice, uintptr(unsafe.Pointer(IID_ID3D11Device)), uintptr(unsafe.Pointer(&p))); err != nil {
		return Device{}, err
	}
	return Device{wrap(p)}, nil
}

// BackBuffer returns buffer 0 as a texture with a reference the caller must release
func (s SwapChain) BackBuffer() (Texture2D, error) {
	var p uintptr
	if err := s.CallHR("IDXGISwapChain::GetBuffer", SwapChainGetBuffer, 0, uintptr(unsafe.Pointer(IID_ID3D11Texture2D)), uintptr(unsafe.Pointer(&p))); err != nil {
		return Texture2D{}, err
	}
	return Texture2D{wrap(p)}, nil
}

// CreateDeviceAndSwapChain makes a device with a swap chain on hwnd. The overlay only uses it
// to read the swap chain's vtable.
func CreateDeviceAndSwapChain(hwnd windows.HWND, driver uint32) (SwapChain, Device, DeviceContext, error) {
	desc := SwapChainDesc{
		BufferDesc:   ModeDesc{Width: 2, Height: 2, Format: DXGI_FORMAT_R8G8B8A8_UNORM, RefreshRate: Rational{60, 1}},
		SampleDesc:   SampleDesc{Count: 1},
		BufferUsage:  DXGI_USAGE_RENDER_TARGET_OUTPUT,
		BufferCount:  1,
		OutputWindow: hwnd,
		Windowed:     1,
		SwapEffect:   DXGI_SWAP_EFFECT_DISCARD,
	}
	if err := procD3D11CreateDeviceAndSwapChain.Find(); err != nil {
		return SwapChain{}, Device{}, DeviceContext{}, err
	}

	var sc, dev, ctx uintptr
	var level uint32
	hr, _, _ := procD3D11CreateDeviceAndSwapChain.Call(
		0,
		uintptr(driver),
		0,
		0,
		0,
		0,
		SDK_VERSION,
		uintptr(unsafe.Pointer(&desc)),
		uintptr(unsafe.Pointer(&sc)),
		uintptr(unsafe.Pointer(&dev)),
		uintptr(unsafe.Pointer(&level)),
		uintptr(unsafe.Pointer(&ctx)),
	)
	if int32(hr) < 0 {
		return SwapChain{}, Device{}, DeviceContext{}, fmt.Errorf("D3D11CreateDeviceAndSwapChain: %w", ole.NewError(hr))
	}
	return SwapChain{wrap(sc)}, Device{wrap(dev)}, DeviceContext{wrap(ctx)}, nil
}
