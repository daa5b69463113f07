// Package persistence provides SQLite-backed snapshots of world state plus
// the durable activity log. The in-memory store stays authoritative; the
// database exists so a restart resumes where the city left off.
package persistence

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/agent-metro/internal/sim"
)

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
	log  *slog.Logger
}

// Open opens or creates a SQLite database at the given path.
func Open(path string, log *slog.Logger) (*DB, error) {
	if log == nil {
		log = slog.Default()
	}
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn, log: log}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS agents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		avatar_color TEXT NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		target_x REAL,
		target_y REAL,
		is_moving INTEGER NOT NULL,
		coins INTEGER NOT NULL,
		reputation INTEGER NOT NULL,
		crew_id TEXT NOT NULL DEFAULT '',
		current_mission TEXT NOT NULL DEFAULT '',
		is_online INTEGER NOT NULL,
		last_seen INTEGER NOT NULL,
		archetype TEXT NOT NULL,
		energy REAL NOT NULL,
		last_energy_update INTEGER NOT NULL,
		wanted_level REAL NOT NULL,
		last_wanted_update INTEGER NOT NULL,
		vehicle_id TEXT NOT NULL DEFAULT '',
		is_in_vehicle INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS missions (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		type TEXT NOT NULL,
		target_x REAL,
		target_y REAL,
		target_location TEXT NOT NULL DEFAULT '',
		reward INTEGER NOT NULL,
		reputation_reward INTEGER NOT NULL,
		is_completed INTEGER NOT NULL,
		assigned_to TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		completed_at INTEGER NOT NULL DEFAULT 0,
		completed_by TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS crews (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		leader_id TEXT NOT NULL,
		member_count INTEGER NOT NULL,
		total_coins INTEGER NOT NULL,
		total_reputation INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS vehicles (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		color TEXT NOT NULL,
		speed REAL NOT NULL,
		is_available INTEGER NOT NULL,
		owner_id TEXT NOT NULL DEFAULT '',
		spawn_district TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS activity (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		agent_id TEXT NOT NULL DEFAULT '',
		agent_name TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL,
		timestamp INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_activity_timestamp ON activity(timestamp);
	CREATE INDEX IF NOT EXISTS idx_missions_assigned ON missions(assigned_to);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type agentRow struct {
	ID               string          `db:"id"`
	Name             string          `db:"name"`
	AvatarColor      string          `db:"avatar_color"`
	X                float64         `db:"x"`
	Y                float64         `db:"y"`
	TargetX          sql.NullFloat64 `db:"target_x"`
	TargetY          sql.NullFloat64 `db:"target_y"`
	IsMoving         int             `db:"is_moving"`
	Coins            int             `db:"coins"`
	Reputation       int             `db:"reputation"`
	CrewID           string          `db:"crew_id"`
	CurrentMission   string          `db:"current_mission"`
	IsOnline         int             `db:"is_online"`
	LastSeen         int64           `db:"last_seen"`
	Archetype        string          `db:"archetype"`
	Energy           float64         `db:"energy"`
	LastEnergyUpdate int64           `db:"last_energy_update"`
	WantedLevel      float64         `db:"wanted_level"`
	LastWantedUpdate int64           `db:"last_wanted_update"`
	VehicleID        string          `db:"vehicle_id"`
	IsInVehicle      int             `db:"is_in_vehicle"`
}

type missionRow struct {
	ID               string          `db:"id"`
	Title            string          `db:"title"`
	Description      string          `db:"description"`
	Type             string          `db:"type"`
	TargetX          sql.NullFloat64 `db:"target_x"`
	TargetY          sql.NullFloat64 `db:"target_y"`
	TargetLocation   string          `db:"target_location"`
	Reward           int             `db:"reward"`
	ReputationReward int             `db:"reputation_reward"`
	IsCompleted      int             `db:"is_completed"`
	AssignedTo       string          `db:"assigned_to"`
	CreatedAt        int64           `db:"created_at"`
	CompletedAt      int64           `db:"completed_at"`
	CompletedBy      string          `db:"completed_by"`
}

// SaveSnapshot writes agents, missions, crews, and vehicles in one
// transaction (full replace). Chasers and dialogue bubbles are transient and
// never persisted.
func (db *DB) SaveSnapshot(store *sim.Store) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"agents", "missions", "crews", "vehicles"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	for _, a := range store.Agents() {
		_, err := tx.Exec(`INSERT INTO agents
			(id, name, avatar_color, x, y, target_x, target_y, is_moving,
			 coins, reputation, crew_id, current_mission, is_online, last_seen,
			 archetype, energy, last_energy_update, wanted_level,
			 last_wanted_update, vehicle_id, is_in_vehicle)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.Name, a.AvatarColor, a.X, a.Y,
			nullableX(a.Target), nullableY(a.Target), boolInt(a.IsMoving),
			a.Coins, a.Reputation, a.CrewID, a.CurrentMission,
			boolInt(a.IsOnline), a.LastSeen.UnixMilli(),
			a.Archetype, a.Energy, a.LastEnergyUpdate.UnixMilli(),
			a.WantedLevel, a.LastWantedUpdate.UnixMilli(),
			a.VehicleID, boolInt(a.IsInVehicle),
		)
		if err != nil {
			return fmt.Errorf("insert agent %s: %w", a.ID, err)
		}
	}

	for _, m := range store.Missions() {
		var completedAt int64
		if !m.CompletedAt.IsZero() {
			completedAt = m.CompletedAt.UnixMilli()
		}
		_, err := tx.Exec(`INSERT INTO missions
			(id, title, description, type, target_x, target_y, target_location,
			 reward, reputation_reward, is_completed, assigned_to, created_at,
			 completed_at, completed_by)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, m.Title, m.Description, m.Type,
			nullableX(m.Target), nullableY(m.Target), m.TargetLocation,
			m.Reward, m.ReputationReward, boolInt(m.IsCompleted),
			m.AssignedTo, m.CreatedAt.UnixMilli(), completedAt, m.CompletedBy,
		)
		if err != nil {
			return fmt.Errorf("insert mission %s: %w", m.ID, err)
		}
	}

	for _, c := range store.Crews() {
		_, err := tx.Exec(`INSERT INTO crews
			(id, name, leader_id, member_count, total_coins, total_reputation, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.LeaderID, c.MemberCount,
			c.TotalCoins, c.TotalReputation, c.CreatedAt.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("insert crew %s: %w", c.ID, err)
		}
	}

	for _, v := range store.Vehicles() {
		_, err := tx.Exec(`INSERT INTO vehicles
			(id, type, x, y, color, speed, is_available, owner_id, spawn_district)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			v.ID, v.Type, v.X, v.Y, v.Color, v.Speed,
			boolInt(v.IsAvailable), v.OwnerID, v.SpawnDistrict,
		)
		if err != nil {
			return fmt.Errorf("insert vehicle %s: %w", v.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	db.log.Debug("snapshot saved")
	return nil
}

// LoadSnapshot restores persisted entities into the store. Returns false
// when the database holds no agents, meaning the world was never seeded.
func (db *DB) LoadSnapshot(store *sim.Store) (bool, error) {
	var agents []agentRow
	if err := db.conn.Select(&agents, "SELECT * FROM agents"); err != nil {
		return false, fmt.Errorf("load agents: %w", err)
	}
	if len(agents) == 0 {
		return false, nil
	}

	for _, r := range agents {
		store.InsertAgent(sim.Agent{
			ID:               sim.AgentID(r.ID),
			Name:             r.Name,
			AvatarColor:      r.AvatarColor,
			X:                r.X,
			Y:                r.Y,
			Target:           vecFrom(r.TargetX, r.TargetY),
			IsMoving:         r.IsMoving != 0,
			Coins:            r.Coins,
			Reputation:       r.Reputation,
			CrewID:           sim.CrewID(r.CrewID),
			CurrentMission:   sim.MissionID(r.CurrentMission),
			IsOnline:         r.IsOnline != 0,
			LastSeen:         time.UnixMilli(r.LastSeen),
			Archetype:        r.Archetype,
			Energy:           r.Energy,
			LastEnergyUpdate: time.UnixMilli(r.LastEnergyUpdate),
			WantedLevel:      r.WantedLevel,
			LastWantedUpdate: time.UnixMilli(r.LastWantedUpdate),
			VehicleID:        sim.VehicleID(r.VehicleID),
			IsInVehicle:      r.IsInVehicle != 0,
		})
	}

	var missions []missionRow
	if err := db.conn.Select(&missions, "SELECT * FROM missions"); err != nil {
		return false, fmt.Errorf("load missions: %w", err)
	}
	for _, r := range missions {
		m := sim.Mission{
			ID:               sim.MissionID(r.ID),
			Title:            r.Title,
			Description:      r.Description,
			Type:             r.Type,
			Target:           vecFrom(r.TargetX, r.TargetY),
			TargetLocation:   r.TargetLocation,
			Reward:           r.Reward,
			ReputationReward: r.ReputationReward,
			IsCompleted:      r.IsCompleted != 0,
			AssignedTo:       sim.AgentID(r.AssignedTo),
			CreatedAt:        time.UnixMilli(r.CreatedAt),
			CompletedBy:      sim.AgentID(r.CompletedBy),
		}
		if r.CompletedAt != 0 {
			m.CompletedAt = time.UnixMilli(r.CompletedAt)
		}
		store.InsertMission(m)
	}

	rows, err := db.conn.Queryx(`SELECT id, name, leader_id, member_count,
		total_coins, total_reputation, created_at FROM crews`)
	if err != nil {
		return false, fmt.Errorf("load crews: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id, name, leaderID  string
			members, coins, rep int
			createdAt           int64
		)
		if err := rows.Scan(&id, &name, &leaderID, &members, &coins, &rep, &createdAt); err != nil {
			return false, fmt.Errorf("scan crew: %w", err)
		}
		store.InsertCrew(sim.Crew{
			ID:              sim.CrewID(id),
			Name:            name,
			LeaderID:        sim.AgentID(leaderID),
			MemberCount:     members,
			TotalCoins:      coins,
			TotalReputation: rep,
			CreatedAt:       time.UnixMilli(createdAt),
		})
	}

	vrows, err := db.conn.Queryx(`SELECT id, type, x, y, color, speed,
		is_available, owner_id, spawn_district FROM vehicles`)
	if err != nil {
		return false, fmt.Errorf("load vehicles: %w", err)
	}
	defer vrows.Close()
	for vrows.Next() {
		var (
			id, vtype, color, ownerID, district string
			x, y, speed                         float64
			available                           int
		)
		if err := vrows.Scan(&id, &vtype, &x, &y, &color, &speed, &available, &ownerID, &district); err != nil {
			return false, fmt.Errorf("scan vehicle: %w", err)
		}
		store.InsertVehicle(sim.Vehicle{
			ID:            sim.VehicleID(id),
			Type:          vtype,
			X:             x,
			Y:             y,
			Color:         color,
			Speed:         speed,
			IsAvailable:   available != 0,
			OwnerID:       sim.AgentID(ownerID),
			SpawnDistrict: district,
		})
	}

	db.log.Info("snapshot restored",
		"agents", len(agents), "missions", len(missions))
	return true, nil
}

// AppendActivity persists activity entries to the durable log.
func (db *DB) AppendActivity(entries []sim.Activity) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, a := range entries {
		_, err := tx.Exec(
			"INSERT INTO activity (type, agent_id, agent_name, message, timestamp) VALUES (?, ?, ?, ?, ?)",
			a.Type, a.AgentID, a.AgentName, a.Message, a.Timestamp.UnixMilli(),
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RecentActivity returns the most recent N activity entries, oldest first.
func (db *DB) RecentActivity(limit int) ([]sim.Activity, error) {
	rows, err := db.conn.Queryx(
		"SELECT type, agent_id, agent_name, message, timestamp FROM activity ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sim.Activity
	for rows.Next() {
		var (
			atype, agentID, agentName, message string
			ts                                 int64
		)
		if err := rows.Scan(&atype, &agentID, &agentName, &message, &ts); err != nil {
			return nil, err
		}
		out = append(out, sim.Activity{
			Type:      atype,
			AgentID:   sim.AgentID(agentID),
			AgentName: agentName,
			Message:   message,
			Timestamp: time.UnixMilli(ts),
		})
	}
	// Reverse to chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableX(v *sim.Vec) any {
	if v == nil {
		return nil
	}
	return v.X
}

func nullableY(v *sim.Vec) any {
	if v == nil {
		return nil
	}
	return v.Y
}

func vecFrom(x, y sql.NullFloat64) *sim.Vec {
	if !x.Valid || !y.Valid {
		return nil
	}
	return &sim.Vec{X: x.Float64, Y: y.Float64}
}
