package models

import "strings"

// Plant identifies one production site. Plants are an explicit enumeration
// with a configured display-name table; free-text plant names from forms or
// imports resolve through the alias table only, never through substring
// matching.
type Plant string

const (
	PlantPineMill     Plant = "PINE_MILL"
	PlantHardwoodMill Plant = "HARDWOOD_MILL"
	PlantRoundingMill Plant = "ROUNDING_MILL"
	PlantDestripShed  Plant = "DESTRIP_SHED"
)

var plantDisplayNames = map[Plant]string{
	PlantPineMill:     "Pine Mill",
	PlantHardwoodMill: "Hardwood Mill",
	PlantRoundingMill: "Rounding Mill",
	PlantDestripShed:  "Destrip Shed",
}

// plantAliases maps known spellings of plant names, lowercased, onto the
// enumerated identifier. Unknown names do not resolve; they surface to the
// operator instead of being silently reclassified.
var plantAliases = map[string]Plant{
	"pine_mill":     PlantPineMill,
	"pine mill":     PlantPineMill,
	"hardwood_mill": PlantHardwoodMill,
	"hardwood mill": PlantHardwoodMill,
	"rounding_mill": PlantRoundingMill,
	"rounding mill": PlantRoundingMill,
	"destrip_shed":  PlantDestripShed,
	"destrip shed":  PlantDestripShed,
}

// DisplayName returns the human-readable plant name.
func (p Plant) DisplayName() string {
	if name, ok := plantDisplayNames[p]; ok {
		return name
	}
	return string(p)
}

// Valid reports whether the plant is one of the enumerated sites.
func (p Plant) Valid() bool {
	_, ok := plantDisplayNames[p]
	return ok
}

// ParsePlant resolves a raw plant name through the alias table. The second
// return value is false when the name is not a known plant.
func ParsePlant(raw string) (Plant, bool) {
	plant, ok := plantAliases[strings.ToLower(strings.TrimSpace(raw))]
	return plant, ok
}

// Plants returns all enumerated plants in stable display order.
func Plants() []Plant {
	return []Plant{PlantPineMill, PlantHardwoodMill, PlantRoundingMill, PlantDestripShed}
}

// Shift is one schedulable production window within a day.
type Shift string

const (
	ShiftMorning   Shift = "MORNING"
	ShiftAfternoon Shift = "AFTERNOON"
	ShiftNight     Shift = "NIGHT"
)

var shiftDisplayNames = map[Shift]string{
	ShiftMorning:   "Morning Shift",
	ShiftAfternoon: "Afternoon Shift",
	ShiftNight:     "Night Shift",
}

var shiftAliases = map[string]Shift{
	"morning":         ShiftMorning,
	"morning shift":   ShiftMorning,
	"afternoon":       ShiftAfternoon,
	"afternoon shift": ShiftAfternoon,
	"night":           ShiftNight,
	"night shift":     ShiftNight,
}

// DisplayName returns the human-readable shift name.
func (s Shift) DisplayName() string {
	if name, ok := shiftDisplayNames[s]; ok {
		return name
	}
	return string(s)
}

// Valid reports whether the shift is a known window.
func (s Shift) Valid() bool {
	_, ok := shiftDisplayNames[s]
	return ok
}

// Rank orders shifts within a day: Morning < Afternoon < Night. Used for
// deterministic tie-breaking in slot suggestion.
func (s Shift) Rank() int {
	switch s {
	case ShiftMorning:
		return 0
	case ShiftAfternoon:
		return 1
	case ShiftNight:
		return 2
	default:
		return 3
	}
}

// ParseShift resolves a raw shift name through the alias table.
func ParseShift(raw string) (Shift, bool) {
	shift, ok := shiftAliases[strings.ToLower(strings.TrimSpace(raw))]
	return shift, ok
}

// Shifts returns the fixed shift enumeration in rank order.
func Shifts() []Shift {
	return []Shift{ShiftMorning, ShiftAfternoon, ShiftNight}
}
