package chamber

import (
	"testing"
	"time"

	"github.com/google/uuid"
	sqlx "github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

var testSchema = []string{`
CREATE TABLE ChamberWires (
	Chamber  TEXT NOT NULL,
	Position INTEGER NOT NULL,
	Label    TEXT NOT NULL,
	X        REAL NOT NULL,
	Y        REAL NOT NULL,
	Radius   REAL NOT NULL,
	Voltage  REAL NOT NULL
)`, `
CREATE TABLE SimulationRuns (
	RunID       TEXT PRIMARY KEY,
	Chamber     TEXT NOT NULL,
	StartedAt   INTEGER NOT NULL,
	Tracks      INTEGER NOT NULL,
	Signals     INTEGER NOT NULL,
	NoElectrons INTEGER NOT NULL,
	NoCrossing  INTEGER NOT NULL
)`,
}

func openTestDB(t *testing.T) *sqlx.DB {
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, statement := range testSchema {
		_, err = db.Exec(statement)
		require.NoError(t, err)
	}
	return db
}

func TestLoadWires(t *testing.T) {
	db := openTestDB(t)
	rows := []struct {
		chamber  string
		position int
		label    string
		x, y     float64
	}{
		{"idea_cell", 1, "field0", -0.7, -0.7},
		{"idea_cell", 0, "s", 0, 0},
		{"other", 0, "a", 1, 1},
	}
	for _, r := range rows {
		_, err := db.Exec("INSERT INTO ChamberWires (Chamber, Position, Label, X, Y, Radius, Voltage) VALUES (?, ?, ?, ?, ?, 0.001, 2000)",
			r.chamber, r.position, r.label, r.x, r.y)
		require.NoError(t, err)
	}

	wires, err := LoadWires(db, "idea_cell", 0)
	require.NoError(t, err)
	require.Len(t, wires, 2)
	assert.Equal(t, Wire{X: 0, Y: 0, Radius: 0.001, Voltage: 2000, Label: "s"}, wires[0])
	assert.Equal(t, "field0", wires[1].Label)
	assert.Equal(t, -0.7, wires[1].X)

	_, err = LoadWires(db, "missing", 0)
	assert.Error(t, err)
}

func TestRecordRun(t *testing.T) {
	db := openTestDB(t)
	summary := RunSummary{
		Results:     make([]TrackResult, 4),
		Signals:     2,
		NoElectrons: 1,
		NoCrossing:  1,
	}
	started := time.Unix(1700000000, 0)

	runID, err := RecordRun(db, "idea_cell", started, summary)
	require.NoError(t, err)
	_, err = uuid.Parse(runID)
	require.NoError(t, err)

	var entry RunEntry
	require.NoError(t, db.Get(&entry, "SELECT * FROM SimulationRuns WHERE RunID = ?", runID))
	assert.Equal(t, RunEntry{
		RunID:       runID,
		Chamber:     "idea_cell",
		StartedAt:   1700000000,
		Tracks:      4,
		Signals:     2,
		NoElectrons: 1,
		NoCrossing:  1,
	}, entry)
}
