package wiring

import (
	"strconv"
)

// ADCChannel identifies an input of the board's A/D converter. Only ADC0 to ADC11 are driven by
// AnalogRead; every other value, NO_ADC included, reads as zero without touching the converter.
type ADCChannel int

const (
	NO_ADC ADCChannel = -1
)

const (
	ADC0 ADCChannel = iota
	ADC1
	ADC2
	ADC3
	ADC4
	ADC5
	ADC6
	ADC7
	ADC8
	ADC9
	ADC10
	ADC11
	ADC12
	ADC13
	ADC14
	ADC15
	DA0
	DA1
)

// Supported reports whether AnalogRead knows how to run a conversion on this channel.
func (c ADCChannel) Supported() bool {
	switch c {
	case ADC0, ADC1, ADC2, ADC3, ADC4, ADC5, ADC6, ADC7, ADC8, ADC9, ADC10, ADC11:
		return true
	}
	return false
}

func (c ADCChannel) String() string {
	switch {
	case c == NO_ADC:
		return "NO_ADC"
	case c == DA0:
		return "DA0"
	case c == DA1:
		return "DA1"
	case c >= ADC0 && c <= ADC15:
		return "ADC" + strconv.Itoa(int(c))
	}
	return "ADC?" + strconv.Itoa(int(c))
}

// ADCChannelNumber is the channel selector written to the converter's enable register.
type ADCChannelNumber uint32

// ADCDriver is the converter itself. A conversion is: enable a channel, start, wait for DataReady, read
// LatestValue, disable the channel. Resolution is the native sample width in bits.
type ADCDriver interface {
	EnableChannel(ch ADCChannelNumber)
	DisableChannel(ch ADCChannelNumber)
	Start()
	DataReady() bool
	LatestValue() uint32
	Resolution() uint32
}

// The reference voltage used as the top of the analog input range.
type AnalogReferenceMode int

const (
	AR_DEFAULT AnalogReferenceMode = iota
	AR_INTERNAL
	AR_EXTERNAL
)

func (r AnalogReferenceMode) String() string {
	switch r {
	case AR_DEFAULT:
		return "AR_DEFAULT"
	case AR_INTERNAL:
		return "AR_INTERNAL"
	case AR_EXTERNAL:
		return "AR_EXTERNAL"
	}
	return "AR_" + strconv.Itoa(int(r))
}
