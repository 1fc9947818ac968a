//go:build windows

package render

import (
	"fmt"
	"image"

	"practicetool/d3d11"
)

const shaderSource = `
Texture2D overlay : register(t0);
SamplerState point_sampler : register(s0);

struct VSOut {
	float4 pos : SV_POSITION;
	float2 uv  : TEXCOORD0;
};

VSOut vs_main(uint id : SV_VertexID) {
	VSOut o;
	o.uv = float2((id << 1) & 2, id & 2);
	o.pos = float4(o.uv * float2(2, -2) + float2(-1, 1), 0, 1);
	return o;
}

float4 ps_main(VSOut i) : SV_TARGET {
	return overlay.Sample(point_sampler, i.uv);
}
`

// Backend draws the rasterised frame over the game's back buffer. It lives on the render thread
// and is created lazily from the first swap chain it sees.
type Backend struct {
	device  d3d11.Device
	context d3d11.DeviceContext
	rtv     d3d11.RenderTargetView
	tex     d3d11.Texture2D
	srv     d3d11.ShaderResourceView
	vs      d3d11.VertexShader
	ps      d3d11.PixelShader
	sampler d3d11.SamplerState
	blend   d3d11.BlendState

	width, height int

	setup func(d3d11.SwapChain) error
	// failed latches the first setup error; the backend stays off after it
	failed error
}

func NewBackend() *Backend {
	b := &Backend{}
	b.setup = b.init
	return b
}

func (b *Backend) init(sc d3d11.SwapChain) error {
	dev, err := sc.Device()
	if err != nil {
		return err
	}
	b.device = dev
	b.context = dev.ImmediateContext()

	vsCode, err := d3d11.Compile(shaderSource, "vs_main", "vs_4_0")
	if err != nil {
		return err
	}
	psCode, err := d3d11.Compile(shaderSource, "ps_main", "ps_4_0")
	if err != nil {
		return err
	}
	if b.vs, err = dev.CreateVertexShader(vsCode); err != nil {
		return err
	}
	if b.ps, err = dev.CreatePixelShader(psCode); err != nil {
		return err
	}
	if b.sampler, err = dev.CreatePointSampler(); err != nil {
		return err
	}
	if b.blend, err = dev.CreatePremultipliedBlend(); err != nil {
		return err
	}
	log.Infof("dx11 backend ready")
	return nil
}

func (b *Backend) ensureTexture(w, h int) error {
	if !b.tex.IsNil() && b.width == w && b.height == h {
		return nil
	}
	b.srv.SafeRelease()
	b.tex.SafeRelease()

	tex, err := b.device.CreateDynamicTexture(uint32(w), uint32(h))
	if err != nil {
		return err
	}
	srv, err := b.device.CreateShaderResourceView(tex.Object)
	if err != nil {
		tex.SafeRelease()
		return err
	}
	b.tex, b.srv, b.width, b.height = tex, srv, w, h
	return nil
}

func (b *Backend) ensureTarget(sc d3d11.SwapChain) error {
	if !b.rtv.IsNil() {
		return nil
	}
	buf, err := sc.BackBuffer()
	if err != nil {
		return err
	}
	defer buf.SafeRelease()
	b.rtv, err = b.device.CreateRenderTargetView(buf.Object)
	return err
}

// Draw blends img over the back buffer. upload is false when img did not change since the last
// call and the texture still holds it.
// After a failed setup it draws nothing and returns nil.
func (b *Backend) Draw(sc d3d11.SwapChain, img *image.RGBA, upload bool) error {
	if b.failed != nil {
		return nil
	}
	if b.device.IsNil() {
		if err := b.setup(sc); err != nil {
			b.Release()
			b.failed = err
			return fmt.Errorf("dx11 backend disabled: %w", err)
		}
	}
	if img == nil {
		return nil
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if b.tex.IsNil() || b.width != w || b.height != h {
		if err := b.ensureTexture(w, h); err != nil {
			return err
		}
		upload = true
	}
	if err := b.ensureTarget(sc); err != nil {
		return err
	}
	if upload {
		if err := b.context.Upload(b.tex, img.Pix, img.Stride, h); err != nil {
			return err
		}
	}
	b.context.DrawFullscreen(b.rtv, float32(w), float32(h), b.vs, b.ps, b.srv, b.sampler, b.blend)
	return nil
}

// ReleaseTarget drops the back buffer view; ResizeBuffers fails while it is held
func (b *Backend) ReleaseTarget() {
	b.rtv.SafeRelease()
}

func (b *Backend) Release() {
	b.rtv.SafeRelease()
	b.srv.SafeRelease()
	b.tex.SafeRelease()
	b.vs.SafeRelease()
	b.ps.SafeRelease()
	b.sampler.SafeRelease()
	b.blend.SafeRelease()
	b.context.SafeRelease()
	b.device.SafeRelease()
}
