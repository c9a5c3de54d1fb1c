// Package nifti reads and writes NIfTI-1 volumes, the interchange
// format of most diffusion-MRI tooling. The support is deliberately
// minimal: single-file .nii and .nii.gz images, little-endian, the
// common scalar datatypes, with slope/intercept scaling applied on
// load. Data is held as float64 in column-major voxel order,
// i + nx*(j + ny*(k + nz*t)).
package nifti

import "errors"

var (
	// ErrBadMagic is returned when a file is not a single-file NIfTI-1
	// image.
	ErrBadMagic = errors.New("nifti: bad magic, not a NIfTI-1 file")

	// ErrBadHeader is returned for structurally invalid headers.
	ErrBadHeader = errors.New("nifti: invalid header")

	// ErrUnsupportedDatatype is returned for voxel datatypes outside the
	// supported scalar set.
	ErrUnsupportedDatatype = errors.New("nifti: unsupported datatype")

	// ErrShortData is returned when a file ends before all voxels.
	ErrShortData = errors.New("nifti: truncated voxel data")

	// ErrDimension is returned for image dimensions that cannot form a
	// volume.
	ErrDimension = errors.New("nifti: invalid dimensions")
)

// Image is a 4-D volume with isotropic float64 voxel storage. Nt is 1
// for plain 3-D images.
type Image struct {
	Nx, Ny, Nz, Nt int

	// Voxel sizes in the units of the source header, x/y/z spacing and
	// the repetition spacing along t.
	Dx, Dy, Dz, Dt float64

	// Data holds Nx*Ny*Nz*Nt values, x fastest, t slowest.
	Data []float64
}

// NewImage returns a zero-filled image with unit voxel spacing.
func NewImage(nx, ny, nz, nt int) *Image {
	return &Image{
		Nx: nx, Ny: ny, Nz: nz, Nt: nt,
		Dx: 1, Dy: 1, Dz: 1, Dt: 1,
		Data: make([]float64, nx*ny*nz*nt),
	}
}

// NumVoxels returns the spatial voxel count Nx*Ny*Nz.
func (img *Image) NumVoxels() int { return img.Nx * img.Ny * img.Nz }

// index returns the flat offset of (i, j, k, t).
func (img *Image) index(i, j, k, t int) int {
	return i + img.Nx*(j+img.Ny*(k+img.Nz*t))
}

// At returns the voxel value at (i, j, k, t).
func (img *Image) At(i, j, k, t int) float64 {
	return img.Data[img.index(i, j, k, t)]
}

// SetAt stores a voxel value at (i, j, k, t).
func (img *Image) SetAt(i, j, k, t int, v float64) {
	img.Data[img.index(i, j, k, t)] = v
}

// Volume returns the t-th 3-D volume as a slice into Data.
func (img *Image) Volume(t int) []float64 {
	n := img.NumVoxels()
	return img.Data[t*n : (t+1)*n]
}

// VoxelSeries gathers the values of one spatial voxel across all
// volumes into dst, growing it as needed.
func (img *Image) VoxelSeries(i, j, k int, dst []float64) []float64 {
	if cap(dst) < img.Nt {
		dst = make([]float64, img.Nt)
	}
	dst = dst[:img.Nt]
	for t := range img.Nt {
		dst[t] = img.At(i, j, k, t)
	}
	return dst
}
