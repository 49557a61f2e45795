package resultstore

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/0xcro3dile/liufit-go/internal/domain/entities"
)

// XXHashFingerprinter identifies datasets by the xxHash64 of their samples.
type XXHashFingerprinter struct{}

// NewFingerprinter creates a dataset fingerprinter.
func NewFingerprinter() XXHashFingerprinter {
	return XXHashFingerprinter{}
}

// Fingerprint hashes the IEEE-754 bits of every sample in order and
// returns 16 lowercase hex digits. Sample order is part of the identity
// because it is preserved for display.
func (XXHashFingerprinter) Fingerprint(ds entities.Dataset) string {
	d := xxhash.New()
	var buf [16]byte
	for _, s := range ds {
		binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(s.Energy))
		binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(s.Diameter))
		d.Write(buf[:])
	}

	return fmt.Sprintf("%016x", d.Sum64())
}
