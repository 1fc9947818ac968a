//go:build windows

package d3d11

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"
)

// ID3D11Device vtable indices
const (
	deviceCreateTexture2D          = 5
	deviceCreateShaderResourceView = 7
	deviceCreateRenderTargetView   = 9
	deviceCreateVertexShader       = 12
	deviceCreatePixelShader        = 15
	deviceCreateBlendState         = 20
	deviceCreateSamplerState       = 23
	deviceGetImmediateContext      = 40
)

// ID3D11DeviceContext vtable indices
const (
	contextPSSetShaderResources   = 8
	contextPSSetShader            = 9
	contextPSSetSamplers          = 10
	contextVSSetShader            = 11
	contextDraw                   = 13
	contextMap                    = 14
	contextUnmap                  = 15
	contextIASetInputLayout       = 17
	contextIASetPrimitiveTopology = 24
	contextOMSetRenderTargets     = 33
	contextOMSetBlendState        = 35
	contextRSSetState             = 43
	contextRSSetViewports         = 44
)

const (
	USAGE_DYNAMIC              = 2
	BIND_SHADER_RESOURCE       = 0x8
	CPU_ACCESS_WRITE           = 0x10000
	MAP_WRITE_DISCARD          = 4
	PRIMITIVE_TOPOLOGY_TRILIST = 4

	FILTER_MIN_MAG_MIP_POINT = 0
	TEXTURE_ADDRESS_CLAMP    = 3
	COMPARISON_NEVER         = 1
	BLEND_ONE                = 2
	BLEND_INV_SRC_ALPHA      = 6
	BLEND_OP_ADD             = 1
	COLOR_WRITE_ENABLE_ALL   = 0x0F
)

type Texture2D struct{ Object }
type RenderTargetView struct{ Object }
type ShaderResourceView struct{ Object }
type VertexShader struct{ Object }
type PixelShader struct{ Object }
type BlendState struct{ Object }
type SamplerState struct{ Object }

type Texture2DDesc struct {
	Width          uint32
	Height         uint32
	MipLevels      uint32
	ArraySize      uint32
	Format         uint32
	SampleDesc     SampleDesc
	Usage          uint32
	BindFlags      uint32
	CPUAccessFlags uint32
	MiscFlags      uint32
}

type SamplerDesc struct {
	Filter         uint32
	AddressU       uint32
	AddressV       uint32
	AddressW       uint32
	MipLODBias     float32
	MaxAnisotropy  uint32
	ComparisonFunc uint32
	BorderColor    [4]float32
	MinLOD         float32
	MaxLOD         float32
}

type RenderTargetBlendDesc struct {
	BlendEnable           int32
	SrcBlend              uint32
	DestBlend             uint32
	BlendOp               uint32
	SrcBlendAlpha         uint32
	DestBlendAlpha        uint32
	BlendOpAlpha          uint32
	RenderTargetWriteMask uint8
}

type BlendDesc struct {
	AlphaToCoverageEnable  int32
	IndependentBlendEnable int32
	RenderTarget           [8]RenderTargetBlendDesc
}

type Viewport struct {
	TopLeftX, TopLeftY, Width, Height, MinDepth, MaxDepth float32
}

type MappedSubresource struct {
	Data       uintptr
	RowPitch   uint32
	DepthPitch uint32
}

func (d Device) create(name string, index int, args ...uintptr) (Object, error) {
	var p uintptr
	if err := d.CallHR(name, index, append(args, uintptr(unsafe.Pointer(&p)))...); err != nil {
		return Object{}, err
	}
	return wrap(p), nil
}

// ImmediateContext returns the device context with a reference the caller must release
func (d Device) ImmediateContext() DeviceContext {
	var p uintptr
	d.Call(deviceGetImmediateContext, uintptr(unsafe.Pointer(&p)))
	return DeviceContext{wrap(p)}
}

// CreateDynamicTexture makes an RGBA texture the CPU rewrites every frame
func (d Device) CreateDynamicTexture(w, h uint32) (Texture2D, error) {
	desc := Texture2DDesc{
		Width:          w,
		Height:         h,
		MipLevels:      1,
		ArraySize:      1,
		Format:         DXGI_FORMAT_R8G8B8A8_UNORM,
		SampleDesc:     SampleDesc{Count: 1},
		Usage:          USAGE_DYNAMIC,
		BindFlags:      BIND_SHADER_RESOURCE,
		CPUAccessFlags: CPU_ACCESS_WRITE,
	}
	o, err := d.create("CreateTexture2D", deviceCreateTexture2D, uintptr(unsafe.Pointer(&desc)), 0)
	return Texture2D{o}, err
}

func (d Device) CreateShaderResourceView(res Object) (ShaderResourceView, error) {
	o, err := d.create("CreateShaderResourceView", deviceCreateShaderResourceView, res.Ptr(), 0)
	return ShaderResourceView{o}, err
}

func (d Device) CreateRenderTargetView(res Object) (RenderTargetView, error) {
	o, err := d.create("CreateRenderTargetView", deviceCreateRenderTargetView, res.Ptr(), 0)
	return RenderTargetView{o}, err
}

func (d Device) CreateVertexShader(code []byte) (VertexShader, error) {
	o, err := d.create("CreateVertexShader", deviceCreateVertexShader, uintptr(unsafe.Pointer(&code[0])), uintptr(len(code)), 0)
	return VertexShader{o}, err
}

func (d Device) CreatePixelShader(code []byte) (PixelShader, error) {
	o, err := d.create("CreatePixelShader", deviceCreatePixelShader, uintptr(unsafe.Pointer(&code[0])), uintptr(len(code)), 0)
	return PixelShader{o}, err
}

// CreatePremultipliedBlend blends src over dst for premultiplied colour
func (d Device) CreatePremultipliedBlend() (BlendState, error) {
	var desc BlendDesc
	desc.RenderTarget[0] = RenderTargetBlendDesc{
		BlendEnable:           1,
		SrcBlend:              BLEND_ONE,
		DestBlend:             BLEND_INV_SRC_ALPHA,
		BlendOp:               BLEND_OP_ADD,
		SrcBlendAlpha:         BLEND_ONE,
		DestBlendAlpha:        BLEND_INV_SRC_ALPHA,
		BlendOpAlpha:          BLEND_OP_ADD,
		RenderTargetWriteMask: COLOR_WRITE_ENABLE_ALL,
	}
	o, err := d.create("CreateBlendState", deviceCreateBlendState, uintptr(unsafe.Pointer(&desc)))
	return BlendState{o}, err
}

func (d Device) CreatePointSampler() (SamplerState, error) {
	desc := SamplerDesc{
		Filter:         FILTER_MIN_MAG_MIP_POINT,
		AddressU:       TEXTURE_ADDRESS_CLAMP,
		AddressV:       TEXTURE_ADDRESS_CLAMP,
		AddressW:       TEXTURE_ADDRESS_CLAMP,
		ComparisonFunc: COMPARISON_NEVER,
		MaxLOD:         math.MaxFloat32,
	}
	o, err := d.create("CreateSamplerState", deviceCreateSamplerState, uintptr(unsafe.Pointer(&desc)))
	return SamplerState{o}, err
}

// Upload copies rows of tightly packed RGBA pixels into a dynamic texture
func (c DeviceContext) Upload(tex Texture2D, pix []byte, stride, rows int) error {
	var m MappedSubresource
	if err := c.CallHR("Map", contextMap, tex.Ptr(), 0, MAP_WRITE_DISCARD, 0, uintptr(unsafe.Pointer(&m))); err != nil {
		return err
	}
	defer c.Call(contextUnmap, tex.Ptr(), 0)

	if int(m.RowPitch) < stride {
		return fmt.Errorf("Map: row pitch %d below %d", m.RowPitch, stride)
	}
	dst := unsafe.Slice((*byte)(unsafe.Pointer(m.Data)), int(m.RowPitch)*rows)
	for y := 0; y < rows; y++ {
		copy(dst[y*int(m.RowPitch):], pix[y*stride:(y+1)*stride])
	}
	return nil
}

// DrawFullscreen draws one triangle covering the viewport with the given shaders and texture
func (c DeviceContext) DrawFullscreen(rtv RenderTargetView, w, h float32, vs VertexShader, ps PixelShader, srv ShaderResourceView, sampler SamplerState, blend BlendState) {
	rt := rtv.Ptr()
	c.Call(contextOMSetRenderTargets, 1, uintptr(unsafe.Pointer(&rt)), 0)
	vp := Viewport{Width: w, Height: h, MaxDepth: 1}
	c.Call(contextRSSetViewports, 1, uintptr(unsafe.Pointer(&vp)))
	c.Call(contextRSSetState, 0)
	c.Call(contextIASetInputLayout, 0)
	c.Call(contextIASetPrimitiveTopology, PRIMITIVE_TOPOLOGY_TRILIST)
	c.Call(contextVSSetShader, vs.Ptr(), 0, 0)
	c.Call(contextPSSetShader, ps.Ptr(), 0, 0)
	view := srv.Ptr()
	c.Call(contextPSSetShaderResources, 0, 1, uintptr(unsafe.Pointer(&view)))
	smp := sampler.Ptr()
	c.Call(contextPSSetSamplers, 0, 1, uintptr(unsafe.Pointer(&smp)))
	c.Call(contextOMSetBlendState, blend.Ptr(), 0, 0xFFFFFFFF)
	c.Call(contextDraw, 3, 0)
}

var (
	modd3dcompiler = windows.NewLazySystemDLL("d3dcompiler_47.dll")
	procD3DCompile = modd3dcompiler.NewProc("D3DCompile")
)

// ID3DBlob vtable indices
const (
	blobGetBufferPointer = 3
	blobGetBufferSize    = 4
)

// Compile compiles HLSL source with d3dcompiler_47 and returns the bytecode
func Compile(src, entry, target string) ([]byte, error) {
	if err := procD3DCompile.Find(); err != nil {
		return nil, err
	}
	entryZ, err := windows.BytePtrFromString(entry)
	if err != nil {
		return nil, err
	}
	targetZ, err := windows.BytePtrFromString(target)
	if err != nil {
		return nil, err
	}
	code := []byte(src)

	var out, errs uintptr
	hr, _, _ := procD3DCompile.Call(
		uintptr(unsafe.Pointer(&code[0])),
		uintptr(len(code)),
		0, 0, 0,
		uintptr(unsafe.Pointer(entryZ)),
		uintptr(unsafe.Pointer(targetZ)),
		0, 0,
		uintptr(unsafe.Pointer(&out)),
		uintptr(unsafe.Pointer(&errs)),
	)
	if errs != 0 {
		blob := wrap(errs)
		defer blob.SafeRelease()
		if int32(hr) < 0 {
			return nil, fmt.Errorf("D3DCompile %s: %s", entry, blobBytes(blob))
		}
	}
	if int32(hr) < 0 {
		return nil, fmt.Errorf("D3DCompile %s: %w", entry, ole.NewError(hr))
	}
	blob := wrap(out)
	defer blob.SafeRelease()
	return append([]byte(nil), blobBytes(blob)...), nil
}

func blobBytes(blob Object) []byte {
	p := blob.Call(blobGetBufferPointer)
	n := blob.Call(blobGetBufferSize)
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), int(n))
}
