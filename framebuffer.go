package main

// frameBuffer stores one RGB8 frame, row-major, three bytes per pixel. Render
// workers share it and each writes only its own columns.
type frameBuffer struct {
	width, height int
	pix           []byte
}

// newFrameBuffer allocates a black frame of the given size.
func newFrameBuffer(width, height int) *frameBuffer {
	return &frameBuffer{
		width:  width,
		height: height,
		pix:    make([]byte, width*height*3),
	}
}

// set writes the pixel at (x, y).
func (f *frameBuffer) set(x, y int, c packedColor) {
	i := (y*f.width + x) * 3
	f.pix[i] = byte(c >> 16)
	f.pix[i+1] = byte(c >> 8)
	f.pix[i+2] = byte(c)
}

// rgbToRGBA expands a packed RGB8 frame into dst as opaque RGBA8, growing
// dst if needed.
func rgbToRGBA(dst, src []byte) []byte {
	n := len(src) / 3
	if cap(dst) < n*4 {
		dst = make([]byte, n*4)
	}
	dst = dst[:n*4]
	for i := 0; i < n; i++ {
		dst[i*4] = src[i*3]
		dst[i*4+1] = src[i*3+1]
		dst[i*4+2] = src[i*3+2]
		dst[i*4+3] = 255
	}
	return dst
}
