package evt

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx"
)

const geometryQuery = "SELECT FirstPmtID, OMsPerString, PmtsPerOM FROM DetectorGeometry WHERE MinRun <= ? and MaxRun >= ? ORDER BY MinRun DESC LIMIT 1"

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

// LoadGeometry reads the detector geometry valid for runNumber.
func LoadGeometry(db *sqlx.DB, runNumber int) (Geometry, error) {
	if verbosity > 0 {
		message := fmt.Sprintf("Reading detector geometry for run %d from database", runNumber)
		logger.Info(message, "database")
	}
	if verbosity > 2 {
		logger.Info(fmt.Sprintf("Query: %s", geometryQuery), "database")
	}

	rows, err := db.Queryx(geometryQuery, runNumber, runNumber)
	if err != nil {
		return Geometry{}, fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Geometry{}, fmt.Errorf("error reading DB rows: %w", err)
		}
		return Geometry{}, fmt.Errorf("no detector geometry found for run %d", runNumber)
	}
	geometry := Geometry{}
	if err := rows.StructScan(&geometry); err != nil {
		return Geometry{}, fmt.Errorf("error scanning DB row: %w", err)
	}
	if err := geometry.Validate(); err != nil {
		return Geometry{}, fmt.Errorf("invalid geometry for run %d: %w", runNumber, err)
	}
	return geometry, nil
}
