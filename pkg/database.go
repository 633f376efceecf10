package chamber

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
)

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

type WireEntry struct {
	Label   string  `db:"Label"`
	X       float64 `db:"X"`
	Y       float64 `db:"Y"`
	Radius  float64 `db:"Radius"`
	Voltage float64 `db:"Voltage"`
}

// LoadWires reads the wire layout of a chamber. The planes are not stored in
// the database.
func LoadWires(db *sqlx.DB, chamberName string, verbosity int) ([]Wire, error) {
	query := "SELECT Label, X, Y, Radius, Voltage FROM ChamberWires WHERE Chamber = ? ORDER BY Position"
	if verbosity > 0 {
		logger.Info(fmt.Sprintf("Reading wires of %s from database", chamberName), "database")
	}
	if verbosity > 2 {
		logger.Info(fmt.Sprintf("Query: %s", query), "database")
	}

	var entries []WireEntry
	if err := db.Select(&entries, query, chamberName); err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no wires for chamber %q", chamberName)
	}

	wires := make([]Wire, len(entries))
	for i, e := range entries {
		wires[i] = Wire{X: e.X, Y: e.Y, Radius: e.Radius, Voltage: e.Voltage, Label: e.Label}
	}
	return wires, nil
}

type RunEntry struct {
	RunID       string `db:"RunID"`
	Chamber     string `db:"Chamber"`
	StartedAt   int64  `db:"StartedAt"`
	Tracks      int    `db:"Tracks"`
	Signals     int    `db:"Signals"`
	NoElectrons int    `db:"NoElectrons"`
	NoCrossing  int    `db:"NoCrossing"`
}

// RecordRun stores the summary of a run and returns its identifier.
func RecordRun(db *sqlx.DB, chamberName string, started time.Time, summary RunSummary) (string, error) {
	entry := RunEntry{
		RunID:       uuid.NewString(),
		Chamber:     chamberName,
		StartedAt:   started.Unix(),
		Tracks:      len(summary.Results),
		Signals:     summary.Signals,
		NoElectrons: summary.NoElectrons,
		NoCrossing:  summary.NoCrossing,
	}
	query := `INSERT INTO SimulationRuns (RunID, Chamber, StartedAt, Tracks, Signals, NoElectrons, NoCrossing)
		VALUES (:RunID, :Chamber, :StartedAt, :Tracks, :Signals, :NoElectrons, :NoCrossing)`
	if _, err := db.NamedExec(query, entry); err != nil {
		return "", fmt.Errorf("error recording run: %w", err)
	}
	return entry.RunID, nil
}
