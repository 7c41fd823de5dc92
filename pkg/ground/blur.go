package ground

import "math"

// gaussianBlur2D applies a separable Gaussian blur (horizontal pass then
// vertical pass) to a width x depth grid step.
func gaussianBlur2D(grid []float64, width, depth int32, sigma float64) []float64 {
	kernel := gaussianKernel(sigma)
	radius := int32(len(kernel) / 2)

	horizontal := make([]float64, len(grid))
	for z := int32(0); z < depth; z++ {
		for x := int32(0); x < width; x++ {
			var sum, weight float64
			for k := -radius; k <= radius; k++ {
				sx := x + k
				if sx < 0 || sx >= width {
					continue
				}
				w := kernel[k+radius]
				sum += grid[z*width+sx] * w
				weight += w
			}
			horizontal[z*width+x] = sum / weight
		}
	}

	vertical := make([]float64, len(grid))
	for z := int32(0); z < depth; z++ {
		for x := int32(0); x < width; x++ {
			var sum, weight float64
			for k := -radius; k <= radius; k++ {
				sz := z + k
				if sz < 0 || sz >= depth {
					continue
				}
				w := kernel[k+radius]
				sum += horizontal[sz*width+x] * w
				weight += w
			}
			vertical[z*width+x] = sum / weight
		}
	}

	return vertical
}

// gaussianKernel builds a normalized 1D Gaussian kernel truncated at 3
// standard deviations.
func gaussianKernel(sigma float64) []float64 {
	radius := int(math.Ceil(sigma * 3))
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}
