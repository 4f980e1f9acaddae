package wiring

import (
	"math/bits"
)

// Shifter bit-bangs clocked serial data over two digital pins. There is no delay between edges beyond
// what the pin writes cost; the peer has to keep up.
type Shifter struct {
	io DigitalIO
}

func NewShifter(io DigitalIO) *Shifter {
	return &Shifter{io: io}
}

// bitIndex gives the value bit moved on step i of an n bit transfer. ShiftIn and ShiftOut share it so
// that the same order on both ends round-trips.
func bitIndex(order BitShiftOrder, i, n uint) uint {
	if order == LSBFIRST {
		return i
	}
	return n - 1 - i
}

// ShiftIn reads a byte one bit at a time. For each bit the clock pin is pulled high, the data pin is read,
// and then the clock pin is taken low.
//
// A read that returns a sentinel is merged into the result like any other value. Use ShiftInStrict to
// have it reported instead.
func (s *Shifter) ShiftIn(dataPin Pin, clockPin Pin, order BitShiftOrder) uint8 {
	return uint8(s.ShiftInSize(dataPin, clockPin, order, 8))
}

// ShiftInSize is ShiftIn for n bits, returned in the low n bits of the result.
func (s *Shifter) ShiftInSize(dataPin Pin, clockPin Pin, order BitShiftOrder, n uint) uint {
	value := uint(0)
	for i := uint(0); i < n; i++ {
		s.io.DigitalWrite(clockPin, HIGH)
		value |= uint(s.io.DigitalRead(dataPin)) << bitIndex(order, i, n)
		s.io.DigitalWrite(clockPin, LOW)
	}
	if n < bits.UintSize {
		value &= (uint(1) << n) - 1
	}
	return value
}

// ShiftInStrict is ShiftIn that stops at the first read error. The clock is left low and the bits read
// so far are returned with the error.
func (s *Shifter) ShiftInStrict(dataPin Pin, clockPin Pin, order BitShiftOrder) (uint8, error) {
	value := uint8(0)
	for i := uint(0); i < 8; i++ {
		s.io.DigitalWrite(clockPin, HIGH)
		v := s.io.DigitalRead(dataPin)
		if e := SentinelError(v); e != nil {
			s.io.DigitalWrite(clockPin, LOW)
			return value, e
		}
		value |= uint8(v) << bitIndex(order, i, 8)
		s.io.DigitalWrite(clockPin, LOW)
	}
	return value, nil
}

// ShiftOut writes a byte to a clocked peer. Each bit is put on the data pin and then the clock pin is
// pulsed high and low to say it is available.
func (s *Shifter) ShiftOut(dataPin Pin, clockPin Pin, order BitShiftOrder, value uint8) {
	s.ShiftOutSize(dataPin, clockPin, order, uint(value), 8)
}

// More generic version of ShiftOut which shifts out n bits of data from value. The bits shifted out are
// always the lowest n bits of the value, but 'order' determines whether the msb or lsb of those is first.
func (s *Shifter) ShiftOutSize(dataPin Pin, clockPin Pin, order BitShiftOrder, value uint, n uint) {
	for i := uint(0); i < n; i++ {
		bit := LOW
		if value&(uint(1)<<bitIndex(order, i, n)) != 0 {
			bit = HIGH
		}
		s.io.DigitalWrite(dataPin, bit)
		s.io.DigitalWrite(clockPin, HIGH)
		s.io.DigitalWrite(clockPin, LOW)
	}
}
