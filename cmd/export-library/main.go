package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"aniboard/internal/config"
	"aniboard/pkg/database"
)

// Dumps a user's library and progress history to CSV straight from the
// database, for backups or spreadsheet digging.

func main() {
	var (
		userID      = flag.String("user", "", "user id to export (empty exports all users)")
		libraryOut  = flag.String("library", "data/library.csv", "output CSV path for library entries")
		progressOut = flag.String("progress", "data/progress_history.csv", "output CSV path for progress history")
		configDir   = flag.String("config", "", "directory holding config.toml")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Open(database.Config{Path: cfg.DatabasePath})
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportLibrary(ctx, db, *userID, *libraryOut); err != nil {
		log.Fatalf("export library failed: %v", err)
	}
	if err := exportProgressHistory(ctx, db, *userID, *progressOut); err != nil {
		log.Fatalf("export progress history failed: %v", err)
	}

	log.Printf("exported library to %s and progress history to %s", *libraryOut, *progressOut)
}

func exportLibrary(ctx context.Context, db *sql.DB, userID, outPath string) error {
	w, f, err := openCSV(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := w.Write([]string{
		"user_id", "media_id", "media_kind", "status",
		"progress_volume", "progress_chapter", "progress_episode",
		"title", "updated_at",
	}); err != nil {
		return err
	}

	query := `
        SELECT user_id, media_id, media_kind, status,
               progress_volume, progress_chapter, progress_episode,
               title, updated_at
        FROM user_library
    `
	args := []any{}
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY user_id, updated_at DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			uid, kind, status, title string
			mediaID, vol, chap, ep   int
			updatedAt                sql.NullTime
		)
		if err := rows.Scan(&uid, &mediaID, &kind, &status, &vol, &chap, &ep, &title, &updatedAt); err != nil {
			return err
		}

		updated := ""
		if updatedAt.Valid {
			updated = updatedAt.Time.UTC().Format(time.RFC3339)
		}

		if err := w.Write([]string{
			uid,
			strconv.Itoa(mediaID),
			kind,
			status,
			strconv.Itoa(vol),
			strconv.Itoa(chap),
			strconv.Itoa(ep),
			title,
			updated,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportProgressHistory(ctx context.Context, db *sql.DB, userID, outPath string) error {
	w, f, err := openCSV(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := w.Write([]string{"user_id", "media_id", "volume", "chapter", "episode", "at"}); err != nil {
		return err
	}

	query := `
        SELECT user_id, media_id, volume, chapter, episode, at
        FROM user_progress_history
    `
	args := []any{}
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY at DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			uid                    string
			mediaID, vol, chap, ep int
			at                     time.Time
		)
		if err := rows.Scan(&uid, &mediaID, &vol, &chap, &ep, &at); err != nil {
			return err
		}

		if err := w.Write([]string{
			uid,
			strconv.Itoa(mediaID),
			strconv.Itoa(vol),
			strconv.Itoa(chap),
			strconv.Itoa(ep),
			at.UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func openCSV(path string) (*csv.Writer, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return csv.NewWriter(f), f, nil
}
