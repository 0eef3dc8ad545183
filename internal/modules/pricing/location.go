// README: Location classifier — substring heuristics over free-text input.
package pricing

import "strings"

var downtownMarkers = []string{"downtown", "city center", "financial district", "times square"}
var suburbanMarkers = []string{"suburb", "residential"}

// Classify derives a pricing zone from a free-text location. This is a
// heuristic with known false negatives (a suburb named "Downtown Heights"
// classifies as downtown); unknown locations classify as remote.
func Classify(locationText string) LocationCategory {
	lower := strings.ToLower(locationText)
	for _, m := range downtownMarkers {
		if strings.Contains(lower, m) {
			return LocationDowntown
		}
	}
	for _, m := range suburbanMarkers {
		if strings.Contains(lower, m) {
			return LocationSuburban
		}
	}
	return LocationRemote
}
