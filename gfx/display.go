package gfx

import (
	"context"
	"image"
	"log"

	math "github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	ml "github.com/go-gl/mathgl/mgl32"
)

const (
	vertexShaderSource = `
	#version 410
	layout (location=0) in vec2 vertPos;
	layout (location=1) in vec2 texPos;
	uniform vec2 scale;
	out vec2 fragTexPos;
	void main() {
		fragTexPos = texPos;
		gl_Position = vec4(scale * vertPos, 0.0, 1.0);
	}`

	fragmentShaderSource = `
	#version 410
	uniform sampler2D tex;
	in vec2 fragTexPos;
	out vec4 frag_color;
	void main() {
		frag_color = texture(tex, fragTexPos);
	}`
)

var (
	square = [6]ml.Vec2{
		{-1, 1},
		{-1, -1},
		{1, -1},

		{-1, 1},
		{1, 1},
		{1, -1},
	}
	uvCoord = [6]ml.Vec2{
		{0, 0},
		{0, 1},
		{1, 1},

		{0, 0},
		{1, 0},
		{1, 1},
	}
)

// Display shows a single RGBA image in a window as a textured quad,
// letterboxed so the image keeps its aspect ratio under resize.
type Display struct {
	window *Window
	image  *image.RGBA

	program  uint32
	vao      uint32
	texture  uint32
	scaleLoc int32

	ctx context.Context
}

// DisplayConfig configures a new Display. ImageWidth and ImageHeight fix the
// backing image size; Width and Height are the initial window size.
type DisplayConfig struct {
	Width       int
	Height      int
	ImageWidth  int
	ImageHeight int
	Title       string
}

// NewDisplay opens a window and prepares the quad and texture for the
// backing image. Like NewWindow, it must run on the main goroutine with the
// OS thread locked.
func NewDisplay(ctx context.Context, cfg *DisplayConfig) (*Display, error) {
	window, err := NewWindow(&WindowConfig{
		Width: cfg.Width, Height: cfg.Height, Title: cfg.Title,
	})
	if err != nil {
		return nil, err
	}

	if err := gl.Init(); err != nil {
		return nil, err
	}
	log.Println("OpenGL version", gl.GoStr(gl.GetString(gl.VERSION)))

	program, err := newProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, err
	}
	gl.UseProgram(program)

	img := image.NewRGBA(image.Rect(0, 0, cfg.ImageWidth, cfg.ImageHeight))

	var texID uint32
	gl.GenTextures(1, &texID)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(cfg.ImageWidth), int32(cfg.ImageHeight),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.Uniform1i(gl.GetUniformLocation(program, gl.Str("tex\x00")), 0)

	// interleaved xy|uv quad
	verts := make([]float32, 4*len(square))
	for i := range square {
		verts[4*i] = square[i][0]
		verts[4*i+1] = square[i][1]
		verts[4*i+2] = uvCoord[i][0]
		verts[4*i+3] = uvCoord[i][1]
	}

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(verts), gl.Ptr(verts), gl.STATIC_DRAW)

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 16, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 16, gl.PtrOffset(8))
	gl.BindVertexArray(0)

	return &Display{
		window:   window,
		image:    img,
		program:  program,
		vao:      vao,
		texture:  texID,
		scaleLoc: gl.GetUniformLocation(program, gl.Str("scale\x00")),
		ctx:      ctx,
	}, nil
}

// Image returns the backing image the render callback draws into.
func (d *Display) Image() *image.RGBA {
	return d.image
}

// Run executes the event loop until the window is closed or the context is
// cancelled, then terminates glfw. The render callback is invoked once per
// pass; returning true re-uploads the backing image to the texture.
func (d *Display) Run(render func(img *image.RGBA) bool) {
	defer glfw.Terminate()

	for !d.window.Glfw.ShouldClose() {
		select {
		case <-d.ctx.Done():
			return
		default:
		}

		if render(d.image) {
			gl.ActiveTexture(gl.TEXTURE0)
			gl.BindTexture(gl.TEXTURE_2D, d.texture)
			gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0,
				int32(d.image.Rect.Dx()), int32(d.image.Rect.Dy()),
				gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(d.image.Pix))
		}

		fbw, fbh := d.window.Glfw.GetFramebufferSize()
		gl.Viewport(0, 0, int32(fbw), int32(fbh))
		gl.ClearColor(0, 0, 0, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		sx, sy := d.letterbox(fbw, fbh)
		gl.UseProgram(d.program)
		gl.Uniform2f(d.scaleLoc, sx, sy)

		gl.BindVertexArray(d.vao)
		gl.DrawArrays(gl.TRIANGLES, 0, 6)

		glfw.PollEvents()
		d.window.Glfw.SwapBuffers()
	}
}

// letterbox computes the quad scale that fits the image into the framebuffer
// without stretching it.
func (d *Display) letterbox(fbw, fbh int) (float32, float32) {
	if fbw == 0 || fbh == 0 {
		return 1, 1
	}
	imgAspect := float32(d.image.Rect.Dx()) / float32(d.image.Rect.Dy())
	winAspect := float32(fbw) / float32(fbh)

	sx := math.Min(1, imgAspect/winAspect)
	sy := math.Min(1, winAspect/imgAspect)
	return sx, sy
}
