package nifti

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// header is the fixed 348-byte NIfTI-1 header.
type header struct {
	SizeofHdr    int32
	DataType     [10]byte
	DBName       [18]byte
	Extents      int32
	SessionError int16
	Regular      byte
	DimInfo      byte

	Dim        [8]int16
	IntentP1   float32
	IntentP2   float32
	IntentP3   float32
	IntentCode int16
	Datatype   int16
	Bitpix     int16
	SliceStart int16
	Pixdim     [8]float32
	VoxOffset  float32
	SclSlope   float32
	SclInter   float32
	SliceEnd   int16
	SliceCode  byte
	XyztUnits  byte
	CalMax     float32
	CalMin     float32
	SliceDur   float32
	Toffset    float32
	Glmax      int32
	Glmin      int32

	Descrip [80]byte
	AuxFile [24]byte

	QformCode int16
	SformCode int16
	QuaternB  float32
	QuaternC  float32
	QuaternD  float32
	QoffsetX  float32
	QoffsetY  float32
	QoffsetZ  float32
	SrowX     [4]float32
	SrowY     [4]float32
	SrowZ     [4]float32

	IntentName [16]byte
	Magic      [4]byte
}

const (
	headerSize = 348
	voxOffset  = 352

	dtUint8   = 2
	dtInt16   = 4
	dtInt32   = 8
	dtFloat32 = 16
	dtFloat64 = 64
)

var gzipMagic = []byte{0x1f, 0x8b}

// Load reads a .nii or .nii.gz image. Compression is detected from the
// file content, not the name. Values are scaled by scl_slope and
// scl_inter; a zero slope counts as one, per the NIfTI convention.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("nifti: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	head, err := br.Peek(2)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}

	var r io.Reader = br
	if head[0] == gzipMagic[0] && head[1] == gzipMagic[1] {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("nifti: gzip: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	return decode(r)
}

func decode(r io.Reader) (*Image, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if h.SizeofHdr != headerSize {
		return nil, fmt.Errorf("%w: sizeof_hdr = %d", ErrBadHeader, h.SizeofHdr)
	}
	if string(h.Magic[:3]) != "n+1" || h.Magic[3] != 0 {
		return nil, fmt.Errorf("%w: %q", ErrBadMagic, h.Magic[:])
	}

	ndim := int(h.Dim[0])
	if ndim < 3 || ndim > 4 {
		return nil, fmt.Errorf("%w: %d-dimensional image", ErrDimension, ndim)
	}
	nx, ny, nz := int(h.Dim[1]), int(h.Dim[2]), int(h.Dim[3])
	nt := 1
	if ndim == 4 {
		nt = int(h.Dim[4])
	}
	if nx <= 0 || ny <= 0 || nz <= 0 || nt <= 0 {
		return nil, fmt.Errorf("%w: %dx%dx%dx%d", ErrDimension, nx, ny, nz, nt)
	}

	// Skip from the end of the header to the voxel data.
	skip := int64(h.VoxOffset) - headerSize
	if skip < 0 {
		return nil, fmt.Errorf("%w: vox_offset = %g", ErrBadHeader, h.VoxOffset)
	}
	if _, err := io.CopyN(io.Discard, r, skip); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShortData, err)
	}

	img := NewImage(nx, ny, nz, nt)
	img.Dx = float64(h.Pixdim[1])
	img.Dy = float64(h.Pixdim[2])
	img.Dz = float64(h.Pixdim[3])
	img.Dt = float64(h.Pixdim[4])

	if err := readVoxels(r, img.Data, h.Datatype); err != nil {
		return nil, err
	}

	slope := float64(h.SclSlope)
	inter := float64(h.SclInter)
	if slope == 0 {
		slope = 1
	}
	if slope != 1 || inter != 0 {
		for i, v := range img.Data {
			img.Data[i] = v*slope + inter
		}
	}
	return img, nil
}

func readVoxels(r io.Reader, dst []float64, datatype int16) error {
	var size int
	switch datatype {
	case dtUint8:
		size = 1
	case dtInt16:
		size = 2
	case dtInt32, dtFloat32:
		size = 4
	case dtFloat64:
		size = 8
	default:
		return fmt.Errorf("%w: code %d", ErrUnsupportedDatatype, datatype)
	}

	raw := make([]byte, len(dst)*size)
	if _, err := io.ReadFull(r, raw); err != nil {
		return fmt.Errorf("%w: %v", ErrShortData, err)
	}

	switch datatype {
	case dtUint8:
		for i := range dst {
			dst[i] = float64(raw[i])
		}
	case dtInt16:
		for i := range dst {
			dst[i] = float64(int16(binary.LittleEndian.Uint16(raw[2*i:])))
		}
	case dtInt32:
		for i := range dst {
			dst[i] = float64(int32(binary.LittleEndian.Uint32(raw[4*i:])))
		}
	case dtFloat32:
		for i := range dst {
			dst[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:])))
		}
	case dtFloat64:
		for i := range dst {
			dst[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
		}
	}
	return nil
}

// Save writes the image as float32 voxels. A name ending in .gz is
// gzip-compressed.
func Save(path string, img *Image) error {
	if img.Nx <= 0 || img.Ny <= 0 || img.Nz <= 0 || img.Nt <= 0 {
		return fmt.Errorf("%w: %dx%dx%dx%d", ErrDimension, img.Nx, img.Ny, img.Nz, img.Nt)
	}
	if len(img.Data) != img.NumVoxels()*img.Nt {
		return fmt.Errorf("%w: %d values for %d voxels", ErrDimension, len(img.Data), img.NumVoxels()*img.Nt)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("nifti: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	var zw *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		zw = gzip.NewWriter(f)
		w = zw
	}
	bw := bufio.NewWriter(w)

	if err := encode(bw, img); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("nifti: %w", err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return fmt.Errorf("nifti: gzip: %w", err)
		}
	}
	return f.Close()
}

func encode(w io.Writer, img *Image) error {
	ndim := int16(4)
	if img.Nt == 1 {
		ndim = 3
	}

	h := header{
		SizeofHdr: headerSize,
		Regular:   'r',
		Dim:       [8]int16{ndim, int16(img.Nx), int16(img.Ny), int16(img.Nz), int16(img.Nt), 1, 1, 1},
		Datatype:  dtFloat32,
		Bitpix:    32,
		Pixdim:    [8]float32{1, float32(img.Dx), float32(img.Dy), float32(img.Dz), float32(img.Dt), 0, 0, 0},
		VoxOffset: voxOffset,
		SclSlope:  1,
		Magic:     [4]byte{'n', '+', '1', 0},
	}

	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("nifti: %w", err)
	}
	// Four zero bytes mark the absence of header extensions.
	if _, err := w.Write(make([]byte, voxOffset-headerSize)); err != nil {
		return fmt.Errorf("nifti: %w", err)
	}

	buf := make([]byte, 4*len(img.Data))
	for i, v := range img.Data {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(float32(v)))
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("nifti: %w", err)
	}
	return nil
}
