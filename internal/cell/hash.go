package cell

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Hash returns a 64-bit hash of the tag and payload. Cells that are Equal hash
// identically; -0 and +0 share a hash. User values hash by type name and
// rendered text, so their Stringer output must agree with Equal.
func (c Cell) Hash() uint64 {
	d := xxhash.New()
	var buf [9]byte
	buf[0] = byte(c.tag)
	switch {
	case c.tag == None:
		_, _ = d.Write(buf[:1])
	case c.tag.IsFloat():
		f := c.float()
		if f == 0 {
			f = 0
		}
		binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(f))
		_, _ = d.Write(buf[:])
	case c.tag == String:
		_, _ = d.Write(buf[:1])
		_, _ = d.WriteString(c.str)
	case c.tag == Custom:
		_, _ = d.Write(buf[:1])
		_, _ = d.WriteString(c.obj.TypeName())
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(c.String())
	default:
		binary.LittleEndian.PutUint64(buf[1:], c.bits)
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
