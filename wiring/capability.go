package wiring

// Definitions for capabilities.
import (
	"strings"
)

// Define a generic way to represent pin capabilities.
type Capability int

const (
	CAP_INPUT      Capability = iota // digital input
	CAP_OUTPUT                       // digital output
	CAP_ANALOG_IN                    // analog input using A/D converter
	CAP_ANALOG_OUT                   // analog output using D/A converter
	CAP_CAN                          // CAN transceiver line
)

// This represents a set of capabilities that a pin may have. There may be multiple pins on a device that have identical
// capability set.
type CapabilitySet []Capability

func (c Capability) String() string {
	switch c {
	case CAP_INPUT:
		return "input"
	case CAP_OUTPUT:
		return "output"
	case CAP_ANALOG_IN:
		return "analog_in"
	case CAP_ANALOG_OUT:
		return "analog_out"
	case CAP_CAN:
		return "can"
	}
	return ""
}

func (cs CapabilitySet) String() string {
	s := []string{}
	for _, c := range cs {
		s = append(s, c.String())
	}
	return strings.Join(s, ",")
}
