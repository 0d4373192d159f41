package embedding

import (
	"encoding/binary"
	"math"

	"github.com/kadra-cloud/hrsearch/internal/domain"
)

func (r *Repo) indexName() string {
	return r.prefix + "emb:idx"
}

func (r *Repo) embKey(webinarID string, kind domain.EmbeddingKind) string {
	return r.prefix + "emb:" + webinarID + ":" + string(kind)
}

// encodeVector packs float32s little-endian, the layout FT.SEARCH expects
// for vector BLOBs.
func encodeVector(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// decodeVector is the inverse of encodeVector.
func decodeVector(s string) []float32 {
	out := make([]float32, len(s)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32([]byte(s[i*4 : i*4+4])))
	}
	return out
}
