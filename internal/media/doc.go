// Package media reads and writes the artifacts nodes exchange with the disk:
// PNG images and masks, tensor blobs and JSON records.
//
// Pixel values are float32 in [0, 1]. Images are stored height-major with
// interleaved channels (HWC). Missing files are reported as
// perr.NotFoundError; nothing here substitutes a default except the neutral
// mask of an image without alpha.
package media
