package outbound

import "github.com/Sukhman-Singh-Narula/STServer/domain"

// ImageProcessorPort covers the CPU-bound post-processing of provider
// output: resizing to the target dimensions, deriving a grayscale copy and
// re-encoding as JPEG for storage uniformity.
type ImageProcessorPort interface {
	Process(data []byte, dims domain.Dimensions) (colored []byte, grayscale []byte, err error)
	// Placeholder renders a deterministic stand-in image for the scene,
	// used when synthesis fails so the pipeline never stalls.
	Placeholder(sceneNumber int, dims domain.Dimensions) (colored []byte, grayscale []byte, err error)
}
