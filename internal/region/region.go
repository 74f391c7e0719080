// Package region classifies free-text UK location strings into a fixed
// taxonomy of named regions via postcode-area and place-name matching.
package region

// Region is one bucket of the closed UK region taxonomy.
type Region string

// The twelve UK regions plus the Unknown sentinel.
const (
	London          Region = "London"
	SouthEast       Region = "South East"
	SouthWest       Region = "South West"
	EastOfEngland   Region = "East of England"
	EastMidlands    Region = "East Midlands"
	WestMidlands    Region = "West Midlands"
	Yorkshire       Region = "Yorkshire and the Humber"
	NorthWest       Region = "North West"
	NorthEast       Region = "North East"
	Scotland        Region = "Scotland"
	Wales           Region = "Wales"
	NorthernIreland Region = "Northern Ireland"
	Unknown         Region = "Unknown"
)

// All lists every named region in display order, excluding Unknown.
func All() []Region {
	return []Region{
		London, SouthEast, SouthWest, EastOfEngland,
		EastMidlands, WestMidlands, Yorkshire, NorthWest,
		NorthEast, Scotland, Wales, NorthernIreland,
	}
}
