// Package world provides the static city geography: districts, buildings,
// landmarks, and spawn points. Locations never change after seeding.
package world

import "math"

// World bounds. All positions are clamped to [0, Size] on both axes.
const Size = 2500.0

// District names. The city is split into five zones.
const (
	DistrictDowntown   = "Downtown"
	DistrictIndustrial = "Industrial"
	DistrictDocks      = "Docks"
	DistrictHills      = "Hills"
	DistrictWorkshop   = "Workshop"
)

// LocationType categorizes a static world location.
type LocationType string

const (
	TypeBuilding LocationType = "building"
	TypeLandmark LocationType = "landmark"
	TypeSpawn    LocationType = "spawn"
)

// Location is a static piece of city geography.
type Location struct {
	Name           string       `json:"name"`
	Type           LocationType `json:"type"`
	X              float64      `json:"x"`
	Y              float64      `json:"y"`
	Width          float64      `json:"width"`
	Height         float64      `json:"height"`
	Color          string       `json:"color"`
	IsInteractable bool         `json:"isInteractable"`
	Description    string       `json:"description,omitempty"`
}

// Named locations the subsystems look up directly.
const (
	RechargeLocation = "Agent Café" // energy recharge point
	CaptureSpawn     = "Workshop Spawn"
)

// Capture respawn coordinates (the Workshop Spawn).
const (
	CaptureSpawnX = 350
	CaptureSpawnY = 1850
)

// DistrictAt returns the district containing the given point. District
// boundaries follow the original city layout: Downtown holds the center,
// the four corner zones take their quadrants.
func DistrictAt(x, y float64) string {
	switch {
	case x < 850 && y < 850:
		return DistrictIndustrial
	case x >= 1650 && y < 850:
		return DistrictHills
	case x < 850 && y >= 1650:
		return DistrictWorkshop
	case y >= 1650:
		return DistrictDocks
	default:
		return DistrictDowntown
	}
}

// Clamp restricts a coordinate to world bounds.
func Clamp(v float64) float64 {
	return math.Max(0, math.Min(Size, v))
}

// Distance returns the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return math.Sqrt(dx*dx + dy*dy)
}

// Locations returns the full static geography table. Callers seed these
// into the store once; the table itself is immutable.
func Locations() []Location {
	return []Location{
		// Downtown (center)
		{Name: "City Hall", Type: TypeBuilding, X: 1200, Y: 1200, Width: 100, Height: 80, Color: "#3b82f6", IsInteractable: true, Description: "Central command and mission board"},
		{Name: "Financial Tower", Type: TypeBuilding, X: 1100, Y: 1100, Width: 80, Height: 120, Color: "#1e40af", IsInteractable: true, Description: "High-value financial operations"},
		{Name: "Data Exchange", Type: TypeBuilding, X: 1400, Y: 1150, Width: 90, Height: 70, Color: "#2563eb", IsInteractable: true, Description: "Information trading hub"},
		{Name: "Corporate Plaza", Type: TypeLandmark, X: 1225, Y: 1325, Width: 50, Height: 50, Color: "#60a5fa", IsInteractable: true, Description: "Downtown meeting point"},
		{Name: "Security HQ", Type: TypeBuilding, X: 1350, Y: 1300, Width: 70, Height: 60, Color: "#1e3a8a", IsInteractable: true, Description: "Security forces headquarters"},

		// Industrial (northwest)
		{Name: "Warehouse Alpha", Type: TypeBuilding, X: 300, Y: 300, Width: 120, Height: 80, Color: "#6b7280", IsInteractable: true, Description: "Storage and smuggling operations"},
		{Name: "Factory Complex", Type: TypeBuilding, X: 500, Y: 200, Width: 150, Height: 100, Color: "#4b5563", IsInteractable: true, Description: "Manufacturing facility"},
		{Name: "Crew Hideout", Type: TypeBuilding, X: 200, Y: 500, Width: 80, Height: 60, Color: "#374151", IsInteractable: true, Description: "Secret meeting place for crews"},
		{Name: "Industrial Yard", Type: TypeLandmark, X: 400, Y: 450, Width: 60, Height: 40, Color: "#9ca3af", IsInteractable: true, Description: "Equipment storage area"},
		{Name: "Processing Plant", Type: TypeBuilding, X: 600, Y: 400, Width: 100, Height: 70, Color: "#52525b", IsInteractable: true, Description: "Data processing facility"},

		// Docks (south)
		{Name: "Main Port", Type: TypeBuilding, X: 1200, Y: 1900, Width: 200, Height: 100, Color: "#0c4a6e", IsInteractable: true, Description: "Primary shipping terminal"},
		{Name: "Cargo Terminal", Type: TypeBuilding, X: 1000, Y: 2000, Width: 150, Height: 80, Color: "#075985", IsInteractable: true, Description: "Container operations"},
		{Name: "Smuggler's Pier", Type: TypeBuilding, X: 1500, Y: 1950, Width: 80, Height: 60, Color: "#0369a1", IsInteractable: true, Description: "Illicit trading post"},
		{Name: "Harbor Master", Type: TypeBuilding, X: 1100, Y: 1800, Width: 60, Height: 50, Color: "#0284c7", IsInteractable: true, Description: "Port authority office"},
		{Name: "Shipping Yard", Type: TypeLandmark, X: 1300, Y: 2100, Width: 100, Height: 70, Color: "#0ea5e9", IsInteractable: true, Description: "Container storage area"},
		{Name: "Contraband Cache", Type: TypeLandmark, X: 1600, Y: 2000, Width: 40, Height: 30, Color: "#38bdf8", IsInteractable: true, Description: "Hidden goods storage"},

		// Hills (northeast)
		{Name: "Luxury Villa", Type: TypeBuilding, X: 1900, Y: 300, Width: 100, Height: 80, Color: "#dcfce7", IsInteractable: true, Description: "High-end safe house"},
		{Name: "Country Club", Type: TypeBuilding, X: 2100, Y: 400, Width: 120, Height: 90, Color: "#bbf7d0", IsInteractable: true, Description: "Elite social gathering"},
		{Name: "Observatory", Type: TypeBuilding, X: 2200, Y: 200, Width: 80, Height: 80, Color: "#86efac", IsInteractable: true, Description: "Surveillance and intelligence"},
		{Name: "Private Estate", Type: TypeBuilding, X: 1800, Y: 500, Width: 90, Height: 70, Color: "#4ade80", IsInteractable: true, Description: "Secure property"},
		{Name: "Hillside Overlook", Type: TypeLandmark, X: 2000, Y: 150, Width: 60, Height: 40, Color: "#22c55e", IsInteractable: true, Description: "Strategic vantage point"},

		// Workshop (southwest), the starting area
		{Name: "Agent Café", Type: TypeBuilding, X: 400, Y: 1800, Width: 80, Height: 60, Color: "#f59e0b", IsInteractable: true, Description: "Social gathering spot for agents"},
		{Name: "Workshop Garage", Type: TypeBuilding, X: 200, Y: 1900, Width: 90, Height: 70, Color: "#ef4444", IsInteractable: true, Description: "Vehicle depot and upgrades"},
		{Name: "Tech Lab", Type: TypeBuilding, X: 300, Y: 1700, Width: 70, Height: 80, Color: "#8b5cf6", IsInteractable: true, Description: "Technology development"},
		{Name: "Training Ground", Type: TypeLandmark, X: 150, Y: 1750, Width: 80, Height: 60, Color: "#06b6d4", IsInteractable: true, Description: "Agent skill development"},
		{Name: "Supply Depot", Type: TypeBuilding, X: 500, Y: 1950, Width: 60, Height: 50, Color: "#10b981", IsInteractable: true, Description: "Equipment and supplies"},

		// Spawn points
		{Name: "Downtown Spawn", Type: TypeSpawn, X: 1250, Y: 1250, Width: 20, Height: 20, Color: "#6b7280", Description: "City center entry"},
		{Name: "Workshop Spawn", Type: TypeSpawn, X: CaptureSpawnX, Y: CaptureSpawnY, Width: 20, Height: 20, Color: "#6b7280", Description: "Workshop district entry"},

		// Data nodes
		{Name: "Data Node Downtown", Type: TypeLandmark, X: 1300, Y: 1400, Width: 25, Height: 25, Color: "#06b6d4", IsInteractable: true, Description: "Downtown data collection"},
		{Name: "Data Node Industrial", Type: TypeLandmark, X: 450, Y: 350, Width: 25, Height: 25, Color: "#06b6d4", IsInteractable: true, Description: "Industrial data cache"},
		{Name: "Data Node Docks", Type: TypeLandmark, X: 1400, Y: 2050, Width: 25, Height: 25, Color: "#06b6d4", IsInteractable: true, Description: "Port data terminal"},
		{Name: "Data Node Hills", Type: TypeLandmark, X: 2050, Y: 350, Width: 25, Height: 25, Color: "#06b6d4", IsInteractable: true, Description: "Hills surveillance data"},
	}
}
