// Package store persists correction history and the correction memory
// cache in SQLite: repeated texts are answered from memory instead of
// hitting the checker oracle again. It also keeps the user-defined
// abbreviation dictionary and checkpoints for batch CSV jobs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS correction_requests (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		mode TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS correction_results (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL,
		result_text TEXT NOT NULL,
		edits_count INTEGER,
		processing_ms REAL,
		checker_degraded BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (request_id) REFERENCES correction_requests(id)
	);

	-- correction_memory caches final results keyed by (text, mode)
	CREATE TABLE IF NOT EXISTS correction_memory (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		mode TEXT NOT NULL,
		result_text TEXT NOT NULL,
		edits_json TEXT,
		edits_count INTEGER DEFAULT 0,
		usage_count INTEGER DEFAULT 1,
		invalidated BOOLEAN DEFAULT FALSE,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(source_text, mode)
	);

	-- csv_checkpoints tracks progress of CSV correction jobs for resume support
	CREATE TABLE IF NOT EXISTS csv_checkpoints (
		id TEXT PRIMARY KEY,
		input_file TEXT NOT NULL,
		output_file TEXT NOT NULL,
		mode TEXT NOT NULL,
		status TEXT DEFAULT 'running',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- csv_checkpoint_cells stores per-cell corrected results
	CREATE TABLE IF NOT EXISTS csv_checkpoint_cells (
		checkpoint_id TEXT NOT NULL,
		row_idx INTEGER NOT NULL,
		col_idx INTEGER NOT NULL,
		corrected_text TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (checkpoint_id, row_idx, col_idx),
		FOREIGN KEY (checkpoint_id) REFERENCES csv_checkpoints(id)
	);

	-- abbreviations holds user-defined tokens preserved from quote conversion
	CREATE TABLE IF NOT EXISTS abbreviations (
		id TEXT PRIMARY KEY,
		token TEXT NOT NULL UNIQUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_memory_lookup ON correction_memory(source_text, mode);
	CREATE INDEX IF NOT EXISTS idx_results_request ON correction_results(request_id);
	CREATE INDEX IF NOT EXISTS idx_checkpoint_cells ON csv_checkpoint_cells(checkpoint_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRequest records an incoming correction request for audit.
func (s *Store) SaveRequest(ctx context.Context, id, sourceText, mode string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO correction_requests (id, source_text, mode, created_at) VALUES (?, ?, ?, ?)`,
		id, sourceText, mode, time.Now())
	return err
}

// SaveResult records the outcome of a request.
func (s *Store) SaveResult(ctx context.Context, requestID, resultText string, editsCount int, processingMS float64, degraded bool) error {
	id := fmt.Sprintf("%s_result", requestID)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO correction_results (id, request_id, result_text, edits_count, processing_ms, checker_degraded) VALUES (?, ?, ?, ?, ?, ?)`,
		id, requestID, resultText, editsCount, processingMS, degraded)
	return err
}

// CachedCorrection is a correction memory hit.
type CachedCorrection struct {
	ResultText string
	EditsJSON  string
	EditsCount int
}

// GetCached returns the memorized correction for (text, mode), if any.
// A hit bumps the usage counter.
func (s *Store) GetCached(ctx context.Context, sourceText, mode string) (*CachedCorrection, bool, error) {
	var c CachedCorrection
	var invalidated bool
	var editsJSON sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT result_text, edits_json, edits_count, invalidated FROM correction_memory WHERE source_text = ? AND mode = ?`,
		normalizeKey(sourceText), mode).Scan(&c.ResultText, &editsJSON, &c.EditsCount, &invalidated)

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if invalidated {
		return nil, false, nil
	}
	c.EditsJSON = editsJSON.String

	_, err = s.db.ExecContext(ctx,
		`UPDATE correction_memory SET usage_count = usage_count + 1, last_used = ? WHERE source_text = ? AND mode = ?`,
		time.Now(), normalizeKey(sourceText), mode)

	return &c, true, err
}

// SaveToMemory memorizes a correction result for (text, mode).
func (s *Store) SaveToMemory(ctx context.Context, sourceText, mode, resultText, editsJSON string, editsCount int) error {
	id := fmt.Sprintf("mem_%d", time.Now().UnixNano())
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO correction_memory (id, source_text, mode, result_text, edits_json, edits_count, usage_count, invalidated, last_used, created_at) VALUES (?, ?, ?, ?, ?, ?, 1, FALSE, ?, ?)`,
		id, normalizeKey(sourceText), mode, resultText, editsJSON, editsCount, time.Now(), time.Now())
	return err
}

// MemoryEntry is a row from the correction_memory table.
type MemoryEntry struct {
	ID          string
	SourceText  string
	Mode        string
	ResultText  string
	EditsCount  int
	UsageCount  int
	Invalidated bool
	LastUsed    time.Time
}

// MemoryStats summarises correction memory usage.
type MemoryStats struct {
	TotalEntries   int
	ActiveEntries  int
	InvalidEntries int
	TotalUsage     int
}

func (s *Store) InvalidateMemory(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE correction_memory SET invalidated = TRUE WHERE id = ?`, id)
	return err
}

// DeleteMemory permanently removes a correction memory entry by ID.
func (s *Store) DeleteMemory(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM correction_memory WHERE id = ?`, id)
	return err
}

// ClearMemory removes all correction memory entries.
func (s *Store) ClearMemory(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM correction_memory`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListMemory returns all correction memory entries ordered by most recently used.
func (s *Store) ListMemory(ctx context.Context) ([]MemoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_text, mode, result_text, edits_count, usage_count, invalidated, last_used FROM correction_memory ORDER BY last_used DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []MemoryEntry
	for rows.Next() {
		var e MemoryEntry
		if err := rows.Scan(&e.ID, &e.SourceText, &e.Mode, &e.ResultText, &e.EditsCount, &e.UsageCount, &e.Invalidated, &e.LastUsed); err != nil {
			return nil, err
		}
		results = append(results, e)
	}

	return results, rows.Err()
}

// Stats returns summary statistics for the correction memory.
func (s *Store) Stats(ctx context.Context) (*MemoryStats, error) {
	stats := &MemoryStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN NOT invalidated THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN invalidated THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(usage_count), 0)
		FROM correction_memory`).Scan(
		&stats.TotalEntries,
		&stats.ActiveEntries,
		&stats.InvalidEntries,
		&stats.TotalUsage,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// CSVCheckpoint represents a CSV correction job's checkpoint record.
type CSVCheckpoint struct {
	ID         string
	InputFile  string
	OutputFile string
	Mode       string
	Status     string
	CreatedAt  time.Time
}

// CreateCSVCheckpoint creates a new checkpoint record and returns its ID.
func (s *Store) CreateCSVCheckpoint(ctx context.Context, inputFile, outputFile, mode string) (string, error) {
	id := fmt.Sprintf("cp_%d", time.Now().UnixNano())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO csv_checkpoints (id, input_file, output_file, mode) VALUES (?, ?, ?, ?)`,
		id, inputFile, outputFile, mode)
	return id, err
}

// GetCSVCheckpoint retrieves a checkpoint by ID.
func (s *Store) GetCSVCheckpoint(ctx context.Context, checkpointID string) (*CSVCheckpoint, error) {
	var cp CSVCheckpoint
	err := s.db.QueryRowContext(ctx,
		`SELECT id, input_file, output_file, mode, status, created_at FROM csv_checkpoints WHERE id = ?`,
		checkpointID).Scan(&cp.ID, &cp.InputFile, &cp.OutputFile, &cp.Mode, &cp.Status, &cp.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("checkpoint not found: %s", checkpointID)
	}
	return &cp, err
}

// SaveCSVCell persists the corrected text for a single CSV cell.
func (s *Store) SaveCSVCell(ctx context.Context, checkpointID string, rowIdx, colIdx int, correctedText string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO csv_checkpoint_cells (checkpoint_id, row_idx, col_idx, corrected_text) VALUES (?, ?, ?, ?)`,
		checkpointID, rowIdx, colIdx, correctedText)
	return err
}

// GetCSVCells returns all already-corrected cells for a checkpoint as a "row:col" → text map.
func (s *Store) GetCSVCells(ctx context.Context, checkpointID string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT row_idx, col_idx, corrected_text FROM csv_checkpoint_cells WHERE checkpoint_id = ?`,
		checkpointID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cells := make(map[string]string)
	for rows.Next() {
		var rowIdx, colIdx int
		var correctedText string
		if err := rows.Scan(&rowIdx, &colIdx, &correctedText); err != nil {
			return nil, err
		}
		cells[fmt.Sprintf("%d:%d", rowIdx, colIdx)] = correctedText
	}
	return cells, rows.Err()
}

// CompleteCSVCheckpoint marks a checkpoint as completed.
func (s *Store) CompleteCSVCheckpoint(ctx context.Context, checkpointID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE csv_checkpoints SET status = 'completed', updated_at = ? WHERE id = ?`,
		time.Now(), checkpointID)
	return err
}

// Abbreviation is a user-defined preserved token.
type Abbreviation struct {
	ID        string
	Token     string
	CreatedAt time.Time
}

// AddAbbreviation inserts or replaces a preserved abbreviation token.
func (s *Store) AddAbbreviation(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("abbreviation token is empty")
	}
	id := fmt.Sprintf("ab_%d", time.Now().UnixNano())
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO abbreviations (id, token) VALUES (?, ?)`,
		id, token)
	return err
}

// ListAbbreviations returns all user-defined abbreviations ordered by token.
func (s *Store) ListAbbreviations(ctx context.Context) ([]Abbreviation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, token, created_at FROM abbreviations ORDER BY token`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Abbreviation
	for rows.Next() {
		var a Abbreviation
		if err := rows.Scan(&a.ID, &a.Token, &a.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}

// AbbreviationTokens returns just the token strings, ready to merge
// with the built-in defaults.
func (s *Store) AbbreviationTokens(ctx context.Context) ([]string, error) {
	entries, err := s.ListAbbreviations(ctx)
	if err != nil {
		return nil, err
	}
	tokens := make([]string, 0, len(entries))
	for _, e := range entries {
		tokens = append(tokens, e.Token)
	}
	return tokens, nil
}

// DeleteAbbreviation removes an abbreviation by ID.
func (s *Store) DeleteAbbreviation(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM abbreviations WHERE id = ?`, id)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeKey trims whitespace and applies Unicode NFC normalization
// for consistent cache key comparison.
func normalizeKey(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

// levenshtein returns the edit distance between two strings (rune-aware).
// Uses a space-optimized two-row DP implementation.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
			} else {
				min := prev[j]
				if prev[j-1] < min {
					min = prev[j-1]
				}
				if curr[j-1] < min {
					min = curr[j-1]
				}
				curr[j] = min + 1
			}
		}
		prev, curr = curr, prev
	}

	return prev[lb]
}

// stringSimilarity returns a similarity score in [0, 1] (1 = identical).
func stringSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	la, lb := len([]rune(a)), len([]rune(b))
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(maxLen)
}

// FuzzyGetCached returns a memorized correction whose normalized source
// text has at least threshold similarity (0–1) to sourceText. Pass
// threshold ≤ 0 to disable. To avoid O(n²) cost, texts longer than
// 1 000 runes are not fuzzy-matched.
func (s *Store) FuzzyGetCached(ctx context.Context, sourceText, mode string, threshold float64) (*CachedCorrection, bool, error) {
	if threshold <= 0 {
		return nil, false, nil
	}

	normalized := normalizeKey(sourceText)
	const maxFuzzyRunes = 1000
	if len([]rune(normalized)) > maxFuzzyRunes {
		return nil, false, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT source_text, result_text, edits_json, edits_count FROM correction_memory
		 WHERE mode = ? AND NOT invalidated`,
		mode)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var best *CachedCorrection
	bestScore := 0.0

	for rows.Next() {
		var srcText, resultText string
		var editsJSON sql.NullString
		var editsCount int
		if err := rows.Scan(&srcText, &resultText, &editsJSON, &editsCount); err != nil {
			return nil, false, err
		}

		// Quick length pre-filter: if the length difference alone makes
		// it impossible to reach the threshold, skip the expensive edit
		// distance.
		ls, lr := len([]rune(normalized)), len([]rune(srcText))
		maxL := ls
		if lr > maxL {
			maxL = lr
		}
		diff := ls - lr
		if diff < 0 {
			diff = -diff
		}
		if maxL > 0 && 1.0-float64(diff)/float64(maxL) < threshold {
			continue
		}

		score := stringSimilarity(normalized, srcText)
		if score >= threshold && score > bestScore {
			bestScore = score
			best = &CachedCorrection{
				ResultText: resultText,
				EditsJSON:  editsJSON.String,
				EditsCount: editsCount,
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	if best != nil {
		return best, true, nil
	}
	return nil, false, nil
}
