package index

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"os"

	"github.com/rotisserie/eris"
)

// Vector file layout, all little-endian:
//
//	uint32 dim
//	uint32 count
//	count * dim float32 (IEEE 754)
//
// No per-vector framing; offsets are derived from dim.

const vectorHeaderLen = 8

func decodeVectors(data []byte) (int, [][]float32, error) {
	if len(data) < vectorHeaderLen {
		return 0, nil, eris.New("truncated header")
	}
	dim := int(binary.LittleEndian.Uint32(data[0:4]))
	count := int(binary.LittleEndian.Uint32(data[4:8]))
	if count == 0 {
		return dim, nil, nil
	}
	if dim <= 0 {
		return 0, nil, eris.Errorf("invalid dimension %d", dim)
	}
	want := vectorHeaderLen + 4*dim*count
	if len(data) != want {
		return 0, nil, eris.Errorf("expected %d bytes for %d x %d vectors, got %d", want, count, dim, len(data))
	}

	vecs := make([][]float32, count)
	off := vectorHeaderLen
	for i := 0; i < count; i++ {
		vec := make([]float32, dim)
		for j := 0; j < dim; j++ {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		vecs[i] = vec
	}
	return dim, vecs, nil
}

func encodeVectors(dim int, vecs [][]float32) ([]byte, error) {
	out := make([]byte, vectorHeaderLen, vectorHeaderLen+4*dim*len(vecs))
	binary.LittleEndian.PutUint32(out[0:4], uint32(dim))
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(vecs)))
	var buf [4]byte
	for i, vec := range vecs {
		if len(vec) != dim {
			return nil, eris.Errorf("vector %d has dim %d, want %d", i, len(vec), dim)
		}
		for _, v := range vec {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
			out = append(out, buf[:]...)
		}
	}
	return out, nil
}

// Write persists evidence store artifacts: the vector file and the parallel
// metadata array. Used by the offline `index build` command; serving code
// only reads.
func Write(vectorPath, metaPath string, vecs [][]float32, meta []MetaRow) error {
	if len(vecs) != len(meta) {
		return eris.Errorf("index: %d vectors but %d metadata rows", len(vecs), len(meta))
	}
	dim := 0
	if len(vecs) > 0 {
		dim = len(vecs[0])
	}

	vecData, err := encodeVectors(dim, vecs)
	if err != nil {
		return eris.Wrap(err, "index: encode vectors")
	}
	if err := os.WriteFile(vectorPath, vecData, 0o644); err != nil {
		return eris.Wrapf(err, "index: write vectors %s", vectorPath)
	}

	metaData, err := json.Marshal(meta)
	if err != nil {
		return eris.Wrap(err, "index: encode metadata")
	}
	if err := os.WriteFile(metaPath, metaData, 0o644); err != nil {
		return eris.Wrapf(err, "index: write metadata %s", metaPath)
	}
	return nil
}
