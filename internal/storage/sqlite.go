package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"projectpulse/internal/models"
)

// SQLiteStore is a durable Store backed by a SQLite file. It implements the
// same contract as MemoryStore; callers never see the difference.
// AUTOINCREMENT keeps ids monotonic and never reused after deletion.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS projects (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id INTEGER,
	title TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL,
	due_date TEXT
);
CREATE TABLE IF NOT EXISTS meetings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id INTEGER,
	title TEXT NOT NULL,
	date TEXT NOT NULL,
	notes TEXT,
	summary TEXT
);
CREATE TABLE IF NOT EXISTS reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id INTEGER,
	type TEXT NOT NULL,
	content TEXT NOT NULL,
	generated_at TEXT NOT NULL
);`

// NewSQLiteStore opens (or creates) the database file and ensures the schema
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// modernc.org/sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY on concurrent write transactions
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Projects returns all projects in insertion order
func (s *SQLiteStore) Projects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description, status FROM projects ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Project returns one project or ErrNotFound
func (s *SQLiteStore) Project(ctx context.Context, id int) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, description, status FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

// CreateProject inserts the project and returns it with its assigned id
func (s *SQLiteStore) CreateProject(ctx context.Context, in models.InsertProject) (*models.Project, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (name, description, status) VALUES (?, ?, ?)`,
		in.Name, nullString(in.Description), in.Status)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Project{
		ID:          int(id),
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
	}, nil
}

// Tasks returns tasks, optionally filtered by projectId
func (s *SQLiteStore) Tasks(ctx context.Context, projectID *int) ([]models.Task, error) {
	query := `SELECT id, project_id, title, description, status, due_date FROM tasks`
	args := []any{}
	if projectID != nil {
		query += ` WHERE project_id = ?`
		args = append(args, *projectID)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// Task returns one task or ErrNotFound
func (s *SQLiteStore) Task(ctx context.Context, id int) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, project_id, title, description, status, due_date FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

// CreateTask inserts the task and returns it with its assigned id
func (s *SQLiteStore) CreateTask(ctx context.Context, in models.InsertTask) (*models.Task, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (project_id, title, description, status, due_date) VALUES (?, ?, ?, ?, ?)`,
		nullInt(in.ProjectID), in.Title, nullString(in.Description), in.Status, nullTime(in.DueDate))
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Task{
		ID:          int(id),
		ProjectID:   in.ProjectID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		DueDate:     in.DueDate,
	}, nil
}

// UpdateTask merges the patch onto the stored row inside a transaction
// so concurrent patches cannot lose updates
func (s *SQLiteStore) UpdateTask(ctx context.Context, id int, patch models.TaskPatch) (*models.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT id, project_id, title, description, status, due_date FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, err
	}

	patch.Apply(t)

	_, err = tx.ExecContext(ctx,
		`UPDATE tasks SET project_id = ?, title = ?, description = ?, status = ?, due_date = ? WHERE id = ?`,
		nullInt(t.ProjectID), t.Title, nullString(t.Description), t.Status, nullTime(t.DueDate), id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTask removes the task; deleting an absent id is a no-op
func (s *SQLiteStore) DeleteTask(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	return err
}

// Meetings returns meetings, optionally filtered by projectId
func (s *SQLiteStore) Meetings(ctx context.Context, projectID *int) ([]models.Meeting, error) {
	query := `SELECT id, project_id, title, date, notes, summary FROM meetings`
	args := []any{}
	if projectID != nil {
		query += ` WHERE project_id = ?`
		args = append(args, *projectID)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Meeting{}
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// Meeting returns one meeting or ErrNotFound
func (s *SQLiteStore) Meeting(ctx context.Context, id int) (*models.Meeting, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, project_id, title, date, notes, summary FROM meetings WHERE id = ?`, id)
	return scanMeeting(row)
}

// CreateMeeting inserts the meeting with a null summary
func (s *SQLiteStore) CreateMeeting(ctx context.Context, in models.InsertMeeting) (*models.Meeting, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO meetings (project_id, title, date, notes, summary) VALUES (?, ?, ?, ?, NULL)`,
		nullInt(in.ProjectID), in.Title, in.Date.UTC().Format(time.RFC3339Nano), nullString(in.Notes))
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Meeting{
		ID:        int(id),
		ProjectID: in.ProjectID,
		Title:     in.Title,
		Date:      in.Date,
		Notes:     in.Notes,
	}, nil
}

// SetMeetingSummary stores a generated summary on the meeting
func (s *SQLiteStore) SetMeetingSummary(ctx context.Context, id int, summary string) (*models.Meeting, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE meetings SET summary = ? WHERE id = ?`, summary, id)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.Meeting(ctx, id)
}

// Reports returns reports, optionally filtered by projectId
func (s *SQLiteStore) Reports(ctx context.Context, projectID *int) ([]models.Report, error) {
	query := `SELECT id, project_id, type, content, generated_at FROM reports`
	args := []any{}
	if projectID != nil {
		query += ` WHERE project_id = ?`
		args = append(args, *projectID)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// CreateReport inserts the report and returns it with its assigned id
func (s *SQLiteStore) CreateReport(ctx context.Context, in models.InsertReport) (*models.Report, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (project_id, type, content, generated_at) VALUES (?, ?, ?, ?)`,
		nullInt(in.ProjectID), in.Type, in.Content, in.GeneratedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Report{
		ID:          int(id),
		ProjectID:   in.ProjectID,
		Type:        in.Type,
		Content:     in.Content,
		GeneratedAt: in.GeneratedAt,
	}, nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*models.Project, error) {
	var p models.Project
	var description sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &description, &p.Status); err != nil {
		return nil, mapScanErr(err)
	}
	p.Description = fromNullString(description)
	return &p, nil
}

func scanTask(row scanner) (*models.Task, error) {
	var t models.Task
	var projectID sql.NullInt64
	var description, dueDate sql.NullString
	if err := row.Scan(&t.ID, &projectID, &t.Title, &description, &t.Status, &dueDate); err != nil {
		return nil, mapScanErr(err)
	}
	t.ProjectID = fromNullInt(projectID)
	t.Description = fromNullString(description)
	due, err := fromNullTime(dueDate)
	if err != nil {
		return nil, err
	}
	t.DueDate = due
	return &t, nil
}

func scanMeeting(row scanner) (*models.Meeting, error) {
	var m models.Meeting
	var projectID sql.NullInt64
	var date string
	var notes, summary sql.NullString
	if err := row.Scan(&m.ID, &projectID, &m.Title, &date, &notes, &summary); err != nil {
		return nil, mapScanErr(err)
	}
	m.ProjectID = fromNullInt(projectID)
	m.Notes = fromNullString(notes)
	m.Summary = fromNullString(summary)
	parsed, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return nil, fmt.Errorf("invalid meeting date %q: %w", date, err)
	}
	m.Date = parsed
	return &m, nil
}

func scanReport(row scanner) (*models.Report, error) {
	var r models.Report
	var projectID sql.NullInt64
	var generatedAt string
	if err := row.Scan(&r.ID, &projectID, &r.Type, &r.Content, &generatedAt); err != nil {
		return nil, mapScanErr(err)
	}
	r.ProjectID = fromNullInt(projectID)
	parsed, err := time.Parse(time.RFC3339Nano, generatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid report timestamp %q: %w", generatedAt, err)
	}
	r.GeneratedAt = parsed
	return &r, nil
}

func mapScanErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func nullString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(time.RFC3339Nano)
}

func fromNullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func fromNullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func fromNullTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v.String)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", v.String, err)
	}
	return &t, nil
}
