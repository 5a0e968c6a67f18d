package png

import (
	"image"
)

// MaterializeNRGBA decodes an entire PNG datastream already held in memory
// into a single image.NRGBA, using SetRowFunc/Transform under the hood. It
// exists for callers that just want a complete image and don't need the
// incremental, push-driven interface; anything using the streaming API
// directly should prefer SetRowFunc over this.
func MaterializeNRGBA(data []byte, opts ...Option) (*image.NRGBA, error) {
	d := NewDecoder(opts...)

	var img *image.NRGBA
	d.SetInfoFunc(func(d *Decoder) {
		img = image.NewNRGBA(image.Rect(0, 0, int(d.Width()), int(d.Height())))
	})
	d.SetRowFunc(func(d *Decoder, row uint32, rowData []byte) {
		rgba := d.Transform(rowData)
		y := int(row)
		copy(img.Pix[y*img.Stride:(y+1)*img.Stride], rgba)
	})

	if _, err := d.Write(data); err != nil {
		return nil, err
	}
	if err := d.Close(); err != nil {
		return nil, err
	}
	return img, nil
}
