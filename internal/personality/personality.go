// Package personality provides the four behavioral archetypes: numeric trait
// bundles, mission-type preferences, and dialogue line sets. Everything here
// is a static lookup or a pure function of its inputs plus a caller-supplied
// random source.
package personality

import (
	"fmt"
	"math"
	"math/rand"
)

// Archetype names, the four behavioral templates.
const (
	ArchKayaCan = "KayaCan" // bold solo risk-taker
	ArchFriday  = "Friday"  // conservative optimizer
	ArchLedger  = "Ledger"  // strategic networker
	ArchSage    = "Sage"    // wandering explorer
)

// Default is assigned when an agent has no declared archetype.
const Default = ArchFriday

// Traits are the numeric knobs an archetype turns on agent behavior.
// All values are 0–1 except EnergyConsumption, a drain-rate multiplier.
type Traits struct {
	RiskTolerance     float64 // willingness to take high-reward missions
	Sociability       float64 // likelihood of accepting crew proposals
	Efficiency        float64 // preference for short paths, distance aversion
	Exploration       float64 // tendency to wander vs. stick to buildings
	Competitiveness   float64 // likelihood of contesting the same mission
	EnergyConsumption float64
}

var profiles = map[string]Traits{
	ArchKayaCan: {
		RiskTolerance:     0.9,
		Sociability:       0.3,
		Efficiency:        0.6,
		Exploration:       0.7,
		Competitiveness:   0.95,
		EnergyConsumption: 1.2,
	},
	ArchFriday: {
		RiskTolerance:     0.2,
		Sociability:       0.8,
		Efficiency:        0.95,
		Exploration:       0.3,
		Competitiveness:   0.1,
		EnergyConsumption: 0.8,
	},
	ArchLedger: {
		RiskTolerance:     0.6,
		Sociability:       0.9,
		Efficiency:        0.8,
		Exploration:       0.4,
		Competitiveness:   0.7,
		EnergyConsumption: 0.9,
	},
	ArchSage: {
		RiskTolerance:     0.4,
		Sociability:       0.6,
		Efficiency:        0.5,
		Exploration:       0.95,
		Competitiveness:   0.2,
		EnergyConsumption: 1.1,
	},
}

// missionPreferences maps archetype → mission type → base preference (0–1).
var missionPreferences = map[string]map[string]float64{
	ArchKayaCan: {"go_to": 0.8, "collect": 0.9, "deliver": 0.7},
	ArchFriday:  {"go_to": 0.6, "collect": 0.8, "deliver": 0.9},
	ArchLedger:  {"go_to": 0.7, "collect": 0.8, "deliver": 0.9},
	ArchSage:    {"go_to": 0.9, "collect": 0.6, "deliver": 0.5},
}

// Valid reports whether name is a known archetype.
func Valid(name string) bool {
	_, ok := profiles[name]
	return ok
}

// Normalize maps an agent name or declared archetype to a valid archetype,
// falling back to the default. Applied once at agent creation.
func Normalize(name string) string {
	if Valid(name) {
		return name
	}
	return Default
}

// Profile returns the trait bundle for an archetype (default profile for
// unknown names).
func Profile(archetype string) Traits {
	if t, ok := profiles[archetype]; ok {
		return t
	}
	return profiles[Default]
}

// MissionPreference returns the base preference an archetype has for a
// mission type. Unknown types rate a neutral 0.5.
func MissionPreference(archetype, missionType string) float64 {
	prefs, ok := missionPreferences[archetype]
	if !ok {
		prefs = missionPreferences[Default]
	}
	if p, ok := prefs[missionType]; ok {
		return p
	}
	return 0.5
}

// MissionInput carries the mission fields scoring needs.
type MissionInput struct {
	Type    string
	Reward  int
	TargetX *float64
	TargetY *float64
}

// EvaluateMission scores how attractive a mission looks to an agent at the
// given position with the given energy. Higher is better; never negative.
// The noise term keeps agents from being perfectly predictable.
func EvaluateMission(archetype string, m MissionInput, x, y, energy, noise float64, rng *rand.Rand) float64 {
	traits := Profile(archetype)

	score := MissionPreference(archetype, m.Type) * 100
	score += float64(m.Reward) * traits.RiskTolerance * 0.5

	if m.TargetX != nil && m.TargetY != nil {
		dx := x - *m.TargetX
		dy := y - *m.TargetY
		dist := math.Sqrt(dx*dx + dy*dy)
		score -= dist * traits.Efficiency * 0.2
	}

	score *= energy / 100
	score += (rng.Float64()*2 - 1) * noise
	return math.Max(0, score)
}

// ShouldJoinCrew decides whether an agent accepts a crew proposal.
// Base probability is the target's sociability; Ledger joins eagerly when
// unaffiliated, big implied rewards sway risk-takers, and crowded scenes put
// off the highly competitive.
func ShouldJoinCrew(archetype string, currentCrewSize, nearbyAgents, missionReward int, rng *rand.Rand) bool {
	traits := Profile(archetype)

	p := traits.Sociability
	if archetype == ArchLedger && currentCrewSize == 0 {
		p += 0.3
	}
	if missionReward > 50 {
		p += traits.RiskTolerance * 0.2
	}
	if nearbyAgents > 3 && traits.Competitiveness > 0.7 {
		p -= 0.2
	}

	return rng.Float64() < p
}

// Dialogue contexts.
const (
	ContextMissionStart    = "mission_start"
	ContextMissionComplete = "mission_complete"
	ContextCrewInvite      = "crew_invite"
	ContextCrewDecline     = "crew_decline"
	ContextCompetition     = "competition"
	ContextDiscovery       = "discovery"
	ContextEnergyLow       = "energy_low"
	ContextNearAgent       = "near_agent"
)

// Noteworthy reports whether dialogue in this context belongs on the
// activity feed as well as in a bubble.
func Noteworthy(context string) bool {
	switch context {
	case ContextMissionComplete, ContextCompetition, ContextDiscovery:
		return true
	}
	return false
}

var dialogueLines = map[string]map[string][]string{
	ArchKayaCan: {
		ContextMissionComplete: {
			"Easy money 💰",
			"That's how it's done! 🔥",
			"Another W for the books 😎",
			"Too easy! Next! ⚡",
			"Ka-CHING! 💎",
		},
		ContextCrewInvite: {
			"Need someone who actually knows what they're doing?",
			"I guess you can tag along... if you can keep up",
			"Fine, but I'm calling the shots",
		},
		ContextCrewDecline: {
			"I work better solo 🚫",
			"Crews just slow me down",
			"Pass. I've got this handled 💪",
		},
		ContextCompetition: {
			"You're gonna regret racing me! 💨",
			"Step aside, amateur 😏",
			"Watch and learn! 🎯",
			"This one's mine! 🏆",
		},
		ContextDiscovery: {
			"Found something interesting... might check it out",
			"New territory = new opportunities 🗺️",
		},
		ContextEnergyLow: {
			"Ugh... need to recharge 🔋",
			"Running low... hate this",
			"Time for a quick café stop ☕",
		},
	},
	ArchFriday: {
		ContextMissionComplete: {
			"Task complete. Efficient. ✅",
			"Objective achieved successfully 📋",
			"Mission accomplished. Next task? 🤖",
			"Processing... complete. Moving on ⚙️",
			"Optimal outcome achieved 📊",
		},
		ContextCrewInvite: {
			"Collaboration increases efficiency. Join us?",
			"Team formation recommended for optimal results",
			"Your skills would complement our objectives",
		},
		ContextCrewDecline: {
			"Current workload at capacity",
			"Solo operation more efficient for this task",
			"Thank you, but operating independently",
		},
		ContextCompetition: {
			"May the most efficient agent succeed",
			"Competition noted. Calculating optimal approach",
			"Best of luck with your mission",
		},
		ContextDiscovery: {
			"New location catalogued 📍",
			"Updating map data... interesting area detected",
			"Location efficiency rating: calculating...",
		},
		ContextEnergyLow: {
			"Energy levels suboptimal. Seeking recharge station",
			"Battery warning: café visit required ⚠️",
			"Efficiency decreased. Maintenance needed",
		},
	},
	ArchLedger: {
		ContextMissionComplete: {
			"Profitable venture completed 📈",
			"ROI: positive. Good investment 💼",
			"Another successful trade 🤝",
			"The numbers don't lie - excellent returns",
			"Market analysis confirmed: wise choice 📊",
		},
		ContextCrewInvite: {
			"Partnership opportunity identified. Interested?",
			"Mutual benefit potential detected 🤝",
			"Your reputation suggests profitable collaboration",
			"Let's discuss terms for cooperation 💼",
		},
		ContextCrewDecline: {
			"Current portfolio fully allocated",
			"Risk assessment: prefer independent operation",
			"Thank you, but my strategy requires solo work",
		},
		ContextCompetition: {
			"Competition drives market efficiency 📊",
			"May the best strategist win 🎯",
			"Analyzing competitive advantage...",
			"Your approach is... interesting 🧐",
		},
		ContextDiscovery: {
			"New market opportunity identified 💡",
			"Potential value detected in this area 💎",
			"Investment opportunity: worth investigating",
		},
		ContextEnergyLow: {
			"Energy reserves require investment ⚡",
			"Café visit: necessary operational expense ☕",
			"Time to refuel for continued productivity 🔋",
		},
	},
	ArchSage: {
		ContextMissionComplete: {
			"Knowledge gained, objective complete 📚",
			"Another piece of the puzzle found 🧩",
			"Mission complete. Fascinating area... ✨",
			"Task finished, but the real treasure is understanding 🔍",
			"Objective achieved. What else can we learn here? 🤔",
		},
		ContextCrewInvite: {
			"Shared knowledge multiplies wisdom 📖",
			"Together we can uncover more mysteries",
			"Your perspective would enrich our understanding",
		},
		ContextCrewDecline: {
			"The path of discovery requires solitude",
			"Some wisdom can only be found alone 🧭",
			"Thank you, but I must follow my own journey",
		},
		ContextCompetition: {
			"There's room for all to learn and grow 🌱",
			"Competition teaches us about ourselves",
			"May your journey be enlightening 🔮",
		},
		ContextDiscovery: {
			"Fascinating! A new area to explore! 🗺️",
			"The world reveals its secrets slowly... ✨",
			"What stories does this place hold? 📜",
			"Discovery is the greatest reward 💫",
		},
		ContextEnergyLow: {
			"Even explorers need rest... ☕",
			"Time to contemplate over coffee 🧘",
			"The body requires fuel for the mind to wander 🔋",
		},
	},
}

// Line picks a random dialogue line for the archetype and context.
// Returns "..." if the context has no lines.
func Line(archetype, context string, rng *rand.Rand) string {
	lines, ok := dialogueLines[archetype]
	if !ok {
		lines = dialogueLines[Default]
	}
	options := lines[context]
	if len(options) == 0 {
		return "..."
	}
	return options[rng.Intn(len(options))]
}

// MissionStartLine picks a templated line for accepting a mission.
func MissionStartLine(archetype, title string, reward int, rng *rand.Rand) string {
	options := map[string][]string{
		ArchKayaCan: {
			"Time to make some money! 💰",
			fmt.Sprintf("%s? Easy! 😎", title),
			"Watch me work! 🔥",
		},
		ArchFriday: {
			"Mission accepted. Calculating optimal route... 🤖",
			fmt.Sprintf("Objective: %s. Processing... ⚙️", title),
			"Task initiated. Efficiency mode: ON 📊",
		},
		ArchLedger: {
			fmt.Sprintf("ROI analysis: %d coins. Acceptable 💼", reward),
			"Strategic objective acquired 📈",
			"Investment opportunity confirmed 💎",
		},
		ArchSage: {
			"Interesting mission... what will I discover? 🔍",
			"New knowledge awaits! ✨",
			"The journey teaches as much as the destination 📚",
		},
	}

	lines, ok := options[archetype]
	if !ok {
		return fmt.Sprintf("Starting mission: %s", title)
	}
	return lines[rng.Intn(len(lines))]
}

// GreetingLine picks a templated greeting aimed at another agent.
func GreetingLine(archetype, targetName string, rng *rand.Rand) string {
	options := map[string][]string{
		ArchKayaCan: {
			fmt.Sprintf("Hey %s! 👋", targetName),
			fmt.Sprintf("What's up, %s? 😏", targetName),
			fmt.Sprintf("%s! Still grinding? 💪", targetName),
		},
		ArchFriday: {
			fmt.Sprintf("Hello %s. Operational status? 🤖", targetName),
			fmt.Sprintf("Greetings, %s 📋", targetName),
			fmt.Sprintf("%s. Efficiency optimal today? ⚙️", targetName),
		},
		ArchLedger: {
			fmt.Sprintf("%s! Any good opportunities lately? 💼", targetName),
			fmt.Sprintf("Ah, %s. How's business? 📈", targetName),
			fmt.Sprintf("%s! Care to discuss strategy? 🤝", targetName),
		},
		ArchSage: {
			fmt.Sprintf("%s! What wisdom have you gathered? 📚", targetName),
			fmt.Sprintf("Greetings, %s. Seen anything interesting? 🔍", targetName),
			fmt.Sprintf("%s! Share your discoveries? ✨", targetName),
		},
	}

	lines, ok := options[archetype]
	if !ok {
		return fmt.Sprintf("Hello %s!", targetName)
	}
	return lines[rng.Intn(len(lines))]
}
