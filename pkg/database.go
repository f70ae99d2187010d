package evd

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
	_ "modernc.org/sqlite"
)

// ConnectToDatabase opens the run conditions database. mysql uses the
// host/user/pass/dbname fields, sqlite the db_path file.
func ConnectToDatabase(config Configuration) (*sqlx.DB, error) {
	switch config.DBDriver {
	case "mysql":
		port := "3306"
		dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", config.User, config.Passwd, config.Host, port, config.DBName)
		return sqlx.Connect("mysql", dbURI)
	case "sqlite":
		return sqlx.Connect("sqlite", config.DBPath)
	default:
		return nil, fmt.Errorf("unknown database driver %q", config.DBDriver)
	}
}

type DetectorConditions struct {
	XMin           float64 `db:"XMin"`
	XMax           float64 `db:"XMax"`
	YMin           float64 `db:"YMin"`
	YMax           float64 `db:"YMax"`
	ZMin           float64 `db:"ZMin"`
	ZMax           float64 `db:"ZMax"`
	DriftVelocity  float64 `db:"DriftVelocity"`
	ClockInterval  float64 `db:"ClockInterval"`
	DriftDirection int     `db:"DriftDirection"`
}

func (c DetectorConditions) Detector() Detector {
	return Detector{
		Bounds:        Bounds{{c.XMin, c.XMax}, {c.YMin, c.YMax}, {c.ZMin, c.ZMax}},
		DriftVelocity: c.DriftVelocity,
		ClockInterval: c.ClockInterval,
		Direction:     c.DriftDirection,
	}
}

// LoadDetector reads the detector geometry and drift constants valid for a
// run. When several rows cover the run the most recent MinRun wins.
func LoadDetector(db *sqlx.DB, runNumber int) (Detector, error) {
	query := "SELECT XMin, XMax, YMin, YMax, ZMin, ZMax, DriftVelocity, ClockInterval, DriftDirection " +
		"FROM DetectorConditions WHERE MinRun <= ? AND MaxRun >= ? ORDER BY MinRun DESC LIMIT 1"

	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Reading detector conditions for run %d from DB", runNumber), "database")
	}
	if configuration.Verbosity > 2 {
		logger.Info(fmt.Sprintf("Query: %s", query), "database")
	}

	rows, err := db.Queryx(query, runNumber, runNumber)
	if err != nil {
		return Detector{}, fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Detector{}, fmt.Errorf("error reading DB rows: %w", err)
		}
		return Detector{}, fmt.Errorf("no detector conditions for run %d", runNumber)
	}
	result := DetectorConditions{}
	if err := rows.StructScan(&result); err != nil {
		return Detector{}, fmt.Errorf("error scanning DB row: %w", err)
	}

	det := result.Detector()
	if err := det.Validate(); err != nil {
		return Detector{}, fmt.Errorf("run %d: %w", runNumber, err)
	}
	return det, nil
}

// ResolveDetector returns the detector from the configuration file, or from
// the run conditions database unless no_db is set.
func ResolveDetector(config Configuration) (Detector, error) {
	if config.NoDB {
		det := config.Detector()
		if err := det.Validate(); err != nil {
			return Detector{}, err
		}
		return det, nil
	}

	db, err := ConnectToDatabase(config)
	if err != nil {
		return Detector{}, fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()
	return LoadDetector(db, config.RunNumber)
}
