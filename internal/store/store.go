// Package store archives optimization runs in sqlite so operators can review
// and re-export previously planned missions.
package store

import (
	"compress/gzip"
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/tailscale/tailsql/server/tailsql"
	_ "modernc.org/sqlite"
	"tailscale.com/tsweb"

	"github.com/HansenHomeAI/DronePathAlgorithim/internal/geo"
	"github.com/HansenHomeAI/DronePathAlgorithim/internal/mission"
)

// Store wraps the mission archive database.
type Store struct {
	*sql.DB
	path string
}

// Open opens (creating if needed) the archive at path and ensures the base
// schema exists. Schema evolution beyond the base tables goes through
// MigrateUp.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open mission archive: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS missions (
			mission_id         TEXT PRIMARY KEY,
			center_lat         DOUBLE,
			center_lon         DOUBLE,
			target_minutes     DOUBLE,
			batteries          BIGINT,
			bounce_count       BIGINT,
			hold_radius_ft     DOUBLE,
			estimated_minutes  DOUBLE,
			utilization        DOUBLE,
			search_iterations  BIGINT,
			fallback           BOOLEAN,
			created_at         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create mission archive schema: %w", err)
	}

	return &Store{DB: db, path: path}, nil
}

// MissionRecord is one archived optimization run.
type MissionRecord struct {
	ID               string     `json:"id"`
	Center           geo.LatLon `json:"center"`
	TargetMinutes    float64    `json:"targetMinutes"`
	Batteries        int        `json:"batteries"`
	BounceCount      int        `json:"bounceCount"`
	HoldRadiusFt     float64    `json:"holdRadiusFt"`
	EstimatedMinutes float64    `json:"estimatedMinutes"`
	Utilization      float64    `json:"utilization"`
	Iterations       int        `json:"iterations"`
	Fallback         bool       `json:"fallback"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// RecordOptimization archives one optimizer result and returns its id.
func (s *Store) RecordOptimization(center geo.LatLon, res mission.Result) (string, error) {
	id := uuid.NewString()
	_, err := s.Exec(
		`INSERT INTO missions (
			mission_id, center_lat, center_lon, target_minutes, batteries,
			bounce_count, hold_radius_ft, estimated_minutes, utilization,
			search_iterations, fallback
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, center.Lat, center.Lon, res.TargetMinutes, res.Batteries,
		res.N, res.RHoldFt, res.EstimatedMinutes, res.Utilization,
		res.Iterations, res.Fallback,
	)
	if err != nil {
		return "", fmt.Errorf("record optimization: %w", err)
	}
	return id, nil
}

// ListMissions returns the most recent archived runs, newest first.
func (s *Store) ListMissions(limit int) ([]MissionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Query(
		`SELECT mission_id, center_lat, center_lon, target_minutes, batteries,
			bounce_count, hold_radius_ft, estimated_minutes, utilization,
			search_iterations, fallback, created_at
		 FROM missions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}
	defer rows.Close()

	var out []MissionRecord
	for rows.Next() {
		var r MissionRecord
		if err := rows.Scan(
			&r.ID, &r.Center.Lat, &r.Center.Lon, &r.TargetMinutes, &r.Batteries,
			&r.BounceCount, &r.HoldRadiusFt, &r.EstimatedMinutes, &r.Utilization,
			&r.Iterations, &r.Fallback, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan mission record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetMission returns one archived run by id.
func (s *Store) GetMission(id string) (*MissionRecord, error) {
	var r MissionRecord
	err := s.QueryRow(
		`SELECT mission_id, center_lat, center_lon, target_minutes, batteries,
			bounce_count, hold_radius_ft, estimated_minutes, utilization,
			search_iterations, fallback, created_at
		 FROM missions WHERE mission_id = ?`, id).Scan(
		&r.ID, &r.Center.Lat, &r.Center.Lon, &r.TargetMinutes, &r.Batteries,
		&r.BounceCount, &r.HoldRadiusFt, &r.EstimatedMinutes, &r.Utilization,
		&r.Iterations, &r.Fallback, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// AttachAdminRoutes mounts live SQL debugging and a backup download on the
// debug mux. Callers gate access (dev mode or tailnet only).
func (s *Store) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		log.Fatalf("failed to create tailsql server: %v", err)
	}
	tsql.SetDB("sqlite://"+s.path, s.DB, &tailsql.DBOptions{
		Label: "Mission archive",
	})
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.Handle("backup", "Create and download a backup of the mission archive", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backupPath := fmt.Sprintf("backup-%d.db", time.Now().Unix())
		if _, err := s.Exec("VACUUM INTO ?", backupPath); err != nil {
			http.Error(w, fmt.Sprintf("Failed to create backup: %v", err), http.StatusInternalServerError)
			return
		}

		backupFile, err := os.Open(backupPath)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to open backup file: %v", err), http.StatusInternalServerError)
			return
		}
		defer func() {
			backupFile.Close()
			if err := os.Remove(backupPath); err != nil {
				log.Printf("Failed to remove backup file: %v", err)
			}
		}()

		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", backupPath))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Encoding", "gzip")

		gz := gzip.NewWriter(w)
		defer gz.Close()
		if _, err := io.Copy(gz, backupFile); err != nil {
			log.Printf("Failed to stream backup: %v", err)
		}
	}))
}
