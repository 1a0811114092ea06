// Package bus describes the audio buses a processor exposes to its host.
package bus

// Direction represents the bus direction
type Direction int32

const (
	// DirectionInput represents input bus
	DirectionInput Direction = 0
	// DirectionOutput represents output bus
	DirectionOutput Direction = 1
)

// Type represents the bus type
type Type int32

const (
	// TypeMain represents main bus
	TypeMain Type = 0
	// TypeAux represents auxiliary bus
	TypeAux Type = 1
)

// Info contains bus configuration
type Info struct {
	Direction    Direction
	ChannelCount int32
	Name         string
	BusType      Type
	IsActive     bool
}

// Configuration manages audio buses
type Configuration struct {
	buses []Info
}

// NewStereoConfiguration creates a standard stereo I/O configuration
func NewStereoConfiguration() *Configuration {
	return &Configuration{
		buses: []Info{
			mainBus(DirectionInput, 2, "Stereo In"),
			mainBus(DirectionOutput, 2, "Stereo Out"),
		},
	}
}

// NewMonoConfiguration creates a mono I/O configuration
func NewMonoConfiguration() *Configuration {
	return &Configuration{
		buses: []Info{
			mainBus(DirectionInput, 1, "Mono In"),
			mainBus(DirectionOutput, 1, "Mono Out"),
		},
	}
}

func mainBus(direction Direction, channels int32, name string) Info {
	return Info{
		Direction:    direction,
		ChannelCount: channels,
		Name:         name,
		BusType:      TypeMain,
		IsActive:     true,
	}
}

// GetBusCount returns the number of buses for a given direction
func (c *Configuration) GetBusCount(direction Direction) int32 {
	count := int32(0)
	for _, bus := range c.buses {
		if bus.Direction == direction {
			count++
		}
	}
	return count
}

// GetBusInfo returns information about a specific bus
func (c *Configuration) GetBusInfo(direction Direction, index int32) *Info {
	busIndex := int32(0)
	for i := range c.buses {
		if c.buses[i].Direction == direction {
			if busIndex == index {
				return &c.buses[i]
			}
			busIndex++
		}
	}
	return nil
}

// MainChannels returns the channel count of the first active main bus in
// the given direction, or 0 when there is none.
func (c *Configuration) MainChannels(direction Direction) int {
	for _, bus := range c.buses {
		if bus.Direction == direction && bus.BusType == TypeMain && bus.IsActive {
			return int(bus.ChannelCount)
		}
	}
	return 0
}

// Accepts reports whether a host can connect the given number of input
// channels. Narrower layouts than the main input are accepted so a mono
// source can feed a stereo processor.
func (c *Configuration) Accepts(inputChannels int) bool {
	return inputChannels > 0 && inputChannels <= c.MainChannels(DirectionInput)
}
