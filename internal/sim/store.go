package sim

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/agent-metro/internal/world"
)

// Store owns every world entity. Reads hand out copies and writes go through
// per-entity patch closures under the store lock, so each operation is atomic
// at single-entity granularity and callers never hold live references across
// another subsystem's mutations.
//
// The store is deliberately dumb: no behavior, no validation beyond identity.
// Subsystems re-fetch fresh state inside every pass.
type Store struct {
	mu sync.RWMutex

	agents    map[AgentID]*Agent
	missions  map[MissionID]*Mission
	crews     map[CrewID]*Crew
	vehicles  map[VehicleID]*Vehicle
	security  map[SecurityID]*SecurityNPC
	dialogue  map[DialogueID]*DialogueBubble
	locations []world.Location
	activity  []Activity

	// pendingActivity queues entries for the durable log; the snapshot job
	// drains it.
	pendingActivity []Activity
}

// NewStore creates an empty world store.
func NewStore() *Store {
	return &Store{
		agents:   make(map[AgentID]*Agent),
		missions: make(map[MissionID]*Mission),
		crews:    make(map[CrewID]*Crew),
		vehicles: make(map[VehicleID]*Vehicle),
		security: make(map[SecurityID]*SecurityNPC),
		dialogue: make(map[DialogueID]*DialogueBubble),
	}
}

// ── Agents ───────────────────────────────────────────────────────────

// InsertAgent stores a new agent, issuing an ID when absent.
func (s *Store) InsertAgent(a Agent) AgentID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = AgentID(uuid.NewString())
	}
	cp := a
	s.agents[a.ID] = &cp
	return a.ID
}

// Agent returns a copy of the agent with the given ID.
func (s *Store) Agent(id AgentID) (Agent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.agents[id]
	if !ok {
		return Agent{}, false
	}
	return cloneAgent(a), true
}

// Agents returns copies of all agents in unspecified order.
func (s *Store) Agents() []Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Agent, 0, len(s.agents))
	for _, a := range s.agents {
		out = append(out, cloneAgent(a))
	}
	return out
}

// UpdateAgent applies fn to the live agent under the store lock.
// Returns false if the agent no longer exists.
func (s *Store) UpdateAgent(id AgentID, fn func(*Agent)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.agents[id]
	if !ok {
		return false
	}
	fn(a)
	return true
}

// DeleteAgent removes an agent.
func (s *Store) DeleteAgent(id AgentID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.agents, id)
}

// Leaderboard returns the top n agents sorted by coins, then reputation.
func (s *Store) Leaderboard(n int) []Agent {
	agents := s.Agents()
	sort.Slice(agents, func(i, j int) bool {
		if agents[i].Coins != agents[j].Coins {
			return agents[i].Coins > agents[j].Coins
		}
		return agents[i].Reputation > agents[j].Reputation
	})
	if len(agents) > n {
		agents = agents[:n]
	}
	return agents
}

// ── Missions ─────────────────────────────────────────────────────────

func (s *Store) InsertMission(m Mission) MissionID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = MissionID(uuid.NewString())
	}
	cp := m
	s.missions[m.ID] = &cp
	return m.ID
}

func (s *Store) Mission(id MissionID) (Mission, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.missions[id]
	if !ok {
		return Mission{}, false
	}
	return cloneMission(m), true
}

func (s *Store) Missions() []Mission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Mission, 0, len(s.missions))
	for _, m := range s.missions {
		out = append(out, cloneMission(m))
	}
	return out
}

// OpenMissions returns uncompleted, unassigned missions.
func (s *Store) OpenMissions() []Mission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Mission
	for _, m := range s.missions {
		if !m.IsCompleted && m.AssignedTo == "" {
			out = append(out, cloneMission(m))
		}
	}
	return out
}

func (s *Store) UpdateMission(id MissionID, fn func(*Mission)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.missions[id]
	if !ok {
		return false
	}
	fn(m)
	return true
}

func (s *Store) DeleteMission(id MissionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.missions, id)
}

// ── Crews ────────────────────────────────────────────────────────────

func (s *Store) InsertCrew(c Crew) CrewID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = CrewID(uuid.NewString())
	}
	cp := c
	s.crews[c.ID] = &cp
	return c.ID
}

func (s *Store) Crew(id CrewID) (Crew, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.crews[id]
	if !ok {
		return Crew{}, false
	}
	return *c, true
}

func (s *Store) Crews() []Crew {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Crew, 0, len(s.crews))
	for _, c := range s.crews {
		out = append(out, *c)
	}
	return out
}

func (s *Store) UpdateCrew(id CrewID, fn func(*Crew)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.crews[id]
	if !ok {
		return false
	}
	fn(c)
	return true
}

func (s *Store) DeleteCrew(id CrewID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.crews, id)
}

// CrewMembers returns copies of all agents currently in the given crew.
func (s *Store) CrewMembers(id CrewID) []Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Agent
	for _, a := range s.agents {
		if a.CrewID == id {
			out = append(out, cloneAgent(a))
		}
	}
	return out
}

// ── Vehicles ─────────────────────────────────────────────────────────

func (s *Store) InsertVehicle(v Vehicle) VehicleID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == "" {
		v.ID = VehicleID(uuid.NewString())
	}
	cp := v
	s.vehicles[v.ID] = &cp
	return v.ID
}

func (s *Store) Vehicle(id VehicleID) (Vehicle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vehicles[id]
	if !ok {
		return Vehicle{}, false
	}
	return *v, true
}

func (s *Store) Vehicles() []Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		out = append(out, *v)
	}
	return out
}

func (s *Store) UpdateVehicle(id VehicleID, fn func(*Vehicle)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vehicles[id]
	if !ok {
		return false
	}
	fn(v)
	return true
}

func (s *Store) DeleteVehicle(id VehicleID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.vehicles, id)
}

// ── Security NPCs ────────────────────────────────────────────────────

func (s *Store) InsertSecurity(n SecurityNPC) SecurityID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID == "" {
		n.ID = SecurityID(uuid.NewString())
	}
	cp := n
	s.security[n.ID] = &cp
	return n.ID
}

func (s *Store) Security() []SecurityNPC {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SecurityNPC, 0, len(s.security))
	for _, n := range s.security {
		out = append(out, *n)
	}
	return out
}

// SecurityTargeting returns all chasers locked onto the given agent.
func (s *Store) SecurityTargeting(agentID AgentID) []SecurityNPC {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []SecurityNPC
	for _, n := range s.security {
		if n.TargetAgentID == agentID {
			out = append(out, *n)
		}
	}
	return out
}

func (s *Store) UpdateSecurity(id SecurityID, fn func(*SecurityNPC)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.security[id]
	if !ok {
		return false
	}
	fn(n)
	return true
}

func (s *Store) DeleteSecurity(id SecurityID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.security, id)
}

// ── Dialogue ─────────────────────────────────────────────────────────

func (s *Store) InsertDialogue(d DialogueBubble) DialogueID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == "" {
		d.ID = DialogueID(uuid.NewString())
	}
	cp := d
	s.dialogue[d.ID] = &cp
	return d.ID
}

// ActiveDialogue returns unexpired bubbles, newest first, capped at limit.
func (s *Store) ActiveDialogue(now time.Time, limit int) []DialogueBubble {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []DialogueBubble
	for _, d := range s.dialogue {
		if d.ExpiresAt.After(now) {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ExpiredDialogue returns bubbles whose lifetime has passed.
func (s *Store) ExpiredDialogue(now time.Time) []DialogueBubble {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []DialogueBubble
	for _, d := range s.dialogue {
		if !d.ExpiresAt.After(now) {
			out = append(out, *d)
		}
	}
	return out
}

func (s *Store) DeleteDialogue(id DialogueID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dialogue, id)
}

// ── Locations ────────────────────────────────────────────────────────

// SetLocations installs the static geography. Idempotent: a second call with
// data already present is a no-op.
func (s *Store) SetLocations(locs []world.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.locations) > 0 {
		return
	}
	s.locations = append([]world.Location(nil), locs...)
}

func (s *Store) Locations() []world.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]world.Location(nil), s.locations...)
}

// LocationByName finds a static location by exact name.
func (s *Store) LocationByName(name string) (world.Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.locations {
		if l.Name == name {
			return l, true
		}
	}
	return world.Location{}, false
}

// Buildings returns all locations of the building type.
func (s *Store) Buildings() []world.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []world.Location
	for _, l := range s.locations {
		if l.Type == world.TypeBuilding {
			out = append(out, l)
		}
	}
	return out
}

// ── Activity feed ────────────────────────────────────────────────────

// activityCap bounds in-memory history; the persistence layer keeps the
// full record.
const activityCap = 1000

// AppendActivity records an entry on the append-only feed.
func (s *Store) AppendActivity(a Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activity = append(s.activity, a)
	if len(s.activity) > activityCap {
		s.activity = s.activity[len(s.activity)-activityCap:]
	}
	s.pendingActivity = append(s.pendingActivity, a)
}

// DrainPendingActivity hands over entries queued since the last drain.
func (s *Store) DrainPendingActivity() []Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pendingActivity
	s.pendingActivity = nil
	return out
}

// RecentActivity returns the most recent limit entries, newest last.
func (s *Store) RecentActivity(limit int) []Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := 0
	if limit > 0 && len(s.activity) > limit {
		start = len(s.activity) - limit
	}
	return append([]Activity(nil), s.activity[start:]...)
}

// ── Lifecycle ────────────────────────────────────────────────────────

// Reset deletes every dynamic entity. Static geography survives so a
// following Initialize only has to re-seed the dynamic pools.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agents = make(map[AgentID]*Agent)
	s.missions = make(map[MissionID]*Mission)
	s.crews = make(map[CrewID]*Crew)
	s.vehicles = make(map[VehicleID]*Vehicle)
	s.security = make(map[SecurityID]*SecurityNPC)
	s.dialogue = make(map[DialogueID]*DialogueBubble)
	s.activity = nil
	s.pendingActivity = nil
}

func cloneAgent(a *Agent) Agent {
	cp := *a
	if a.Target != nil {
		t := *a.Target
		cp.Target = &t
	}
	return cp
}

func cloneMission(m *Mission) Mission {
	cp := *m
	if m.Target != nil {
		t := *m.Target
		cp.Target = &t
	}
	return cp
}
