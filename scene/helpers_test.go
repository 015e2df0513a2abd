package scene

import (
	"image"
	"image/color"

	"fresnel-scene/core"
)

func checker2x2() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	img.Set(1, 0, color.Black)
	img.Set(0, 1, color.Black)
	img.Set(1, 1, color.White)
	return img
}

func solidFace(c core.Color, size int) *Texture {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	n := c.NRGBA()
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = n.R, n.G, n.B, n.A
	}
	return TextureFromImage("face", img)
}
