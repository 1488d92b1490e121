// Package imagefile finds, measures and loads the images placed on a sheet.
//
// [Scan] lists the matching files of a folder in lexicographic order.
// [Prober] decodes each file to obtain its pixel size; it satisfies
// [layout.DimensionsProvider]. [Loader] returns the bytes handed to the
// PDF writer, transcoding formats the writer cannot embed directly.
//
// Decoders for JPEG and PNG come from the standard library; BMP, TIFF and
// WEBP are registered from golang.org/x/image.
package imagefile
