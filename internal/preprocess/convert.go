package preprocess

import (
	"image"
	"runtime"
	"sync"

	"gocv.io/x/gocv"
)

// imageToMat converts normalized RGBA pixels to a BGR Mat, parallelized
// by horizontal stripes.
func imageToMat(img *image.RGBA) gocv.Mat {
	width := img.Bounds().Dx()
	height := img.Bounds().Dy()
	stride := img.Stride

	// BGR, the OpenCV default channel order.
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)

	numWorkers := runtime.NumCPU()
	rowsPerWorker := (height + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		startY := w * rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > height {
			endY = height
		}
		if startY >= height {
			break
		}

		wg.Add(1)
		go func(yStart, yEnd int) {
			defer wg.Done()
			for y := yStart; y < yEnd; y++ {
				rowOffset := y * stride
				for x := 0; x < width; x++ {
					pixOffset := rowOffset + x*4
					mat.SetUCharAt(y, x*3+0, img.Pix[pixOffset+2]) // B
					mat.SetUCharAt(y, x*3+1, img.Pix[pixOffset+1]) // G
					mat.SetUCharAt(y, x*3+2, img.Pix[pixOffset+0]) // R
				}
			}
		}(startY, endY)
	}
	wg.Wait()

	return mat
}
