package main

import "image/color"

// packedColor is a 24-bit RGB value packed as 0xRRGGBB.
type packedColor uint32

// RGB unpacks the three channels.
func (c packedColor) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// RGBA converts to an opaque image/color value for backends that draw with it.
func (c packedColor) RGBA() color.RGBA {
	r, g, b := c.RGB()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func packRGB(r, g, b uint8) packedColor {
	return packedColor(r)<<16 | packedColor(g)<<8 | packedColor(b)
}

// lerpColor interpolates each channel linearly from c1 (t=0) to c2 (t=1).
// Channels are truncated back to a byte.
func lerpColor(c1, c2 packedColor, t float64) packedColor {
	r1, g1, b1 := c1.RGB()
	r2, g2, b2 := c2.RGB()
	inv := 1 - t
	return packRGB(
		uint8(float64(r1)*inv+float64(r2)*t),
		uint8(float64(g1)*inv+float64(g2)*t),
		uint8(float64(b1)*inv+float64(b2)*t),
	)
}

// fogAmount returns how far a surface at depth is blended toward the fog color.
// It is zero up to minFogDistance, grows linearly and saturates at maxFogAmount.
func fogAmount(depth float64) float64 {
	if !(depth > minFogDistance) {
		return 0
	}
	amount := (depth - minFogDistance) / (maxFogDistance - minFogDistance)
	if amount > maxFogAmount {
		return maxFogAmount
	}
	return amount
}
