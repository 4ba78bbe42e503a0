package message

import "math"

// Image display bounds in CSS pixels.
const (
	MaxImageWidth  = 280
	MaxImageHeight = 220
	MinImageSide   = 48
)

// ImageFailedText is shown in place of an image that fails to load.
const ImageFailedText = "image failed to load"

// Size is a displayed width and height in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ImageDisplaySize scales an image by the largest uniform factor <= 1 that
// fits MaxImageWidth x MaxImageHeight, then floors each side at MinImageSide.
// Unknown or non-positive dimensions get the minimum square.
func ImageDisplaySize(width, height int) Size {
	if width <= 0 || height <= 0 {
		return Size{Width: MinImageSide, Height: MinImageSide}
	}

	w, h := float64(width), float64(height)
	scale := math.Min(math.Min(MaxImageWidth/w, MaxImageHeight/h), 1)

	return Size{
		Width:  max(floorPx(w*scale), MinImageSide),
		Height: max(floorPx(h*scale), MinImageSide),
	}
}

// floorPx floors a scaled dimension, absorbing float error so that a side
// scaled exactly to a bound (e.g. 3 * 280/3) does not come out one pixel short.
func floorPx(v float64) int {
	return int(math.Floor(v + 1e-9))
}
