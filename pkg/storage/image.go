package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoder

	"golang.org/x/image/draw"
)

const maxAvatarDimension = 512

// NormalizeAvatar decodes an uploaded avatar image, downscales it so its
// longest side is at most 512px and re-encodes it as JPEG. Re-encoding also
// strips any metadata the original file carried.
func NormalizeAvatar(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode avatar image: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxAvatarDimension || h > maxAvatarDimension {
		scale := float64(maxAvatarDimension) / float64(w)
		if h > w {
			scale = float64(maxAvatarDimension) / float64(h)
		}
		dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, src, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode avatar image: %w", err)
	}
	return out.Bytes(), nil
}
