package wiring

// Definitions relating to pins.
type PinIOMode int

// The modes for PinMode.
const (
	INPUT PinIOMode = iota
	OUTPUT
)

// String representation of pin IO mode
func (mode PinIOMode) String() string {
	switch mode {
	case INPUT:
		return "INPUT"
	case OUTPUT:
		return "OUTPUT"
	}
	return ""
}

// Convenience constants for digital pin values.
const (
	HIGH = 1
	LOW  = 0
)

// Pin is a logical pin number as printed on the board header.
type Pin int

// BitShiftOrder selects which end of a byte ShiftIn and ShiftOut start from.
type BitShiftOrder byte

const (
	LSBFIRST BitShiftOrder = iota
	MSBFIRST
)

func (o BitShiftOrder) String() string {
	if o == LSBFIRST {
		return "LSBFIRST"
	}
	return "MSBFIRST"
}

type PinDef struct {
	pin          Pin           // the pin, also in the map key of HardwarePinMap
	names        []string      // names the pin is known by, driver specific
	capabilities CapabilitySet // set of capabilities of the pin
}

type HardwarePinMap map[Pin]*PinDef

// Add a pin to the map
func (m HardwarePinMap) add(pin Pin, names []string, cap CapabilitySet) {
	m[pin] = &PinDef{pin: pin, names: names, capabilities: cap}
}

// Given a pin number, return it's PinDef, or nil if that pin is not defined in the map
func (m HardwarePinMap) GetPin(pin Pin) *PinDef {
	return m[pin]
}

// Names returns the names a pin is known by. The first is the canonical one.
func (pd *PinDef) Names() []string {
	return pd.names
}

// Provide a string representation of a logic pin and the capabilties it
// supports.
func (pd *PinDef) String() string {
	name := ""
	if len(pd.names) > 0 {
		name = pd.names[0]
	}
	return name + "  cap:" + pd.capabilities.String()
}

// Determine if a pin has a particular capability.
func (pd *PinDef) HasCapability(cap Capability) bool {
	for _, v := range pd.capabilities {
		if v == cap {
			return true
		}
	}
	return false
}
