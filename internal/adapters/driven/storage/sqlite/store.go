// Package sqlite implements the PostStore on a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pulse-labs/productdna/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/pulse-labs/productdna/internal/core/domain"
	"github.com/pulse-labs/productdna/internal/core/ports/driven"
	"github.com/pulse-labs/productdna/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.PostStore = (*Store)(nil)

// postColumns is the column order shared by Upsert and Query scans.
var postColumns = []string{
	"post_id", "title", "body", "sentiment", "summary",
	"score", "url", "subreddit", "author", "created_utc",
	"num_comments", "upvote_ratio", "keywords", "enriched_at",
}

// Store persists Product DNA records in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.productdna/data/productdna.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".productdna", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "productdna.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert inserts or replaces the record keyed by post.PostID. It
// reports true when a row was written and false when an identical
// record already exists; the enrichment timestamp is excluded from
// the comparison, so a re-run over unchanged content is a no-op.
func (s *Store) Upsert(ctx context.Context, post domain.EnrichedPost) (bool, error) {
	existing, err := s.getPost(ctx, post.PostID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("loading existing record: %w", err)
	}

	if existing != nil {
		same, err := sameContent(*existing, post)
		if err != nil {
			return false, err
		}
		if same {
			return false, nil
		}
	}

	keywordsJSON, err := json.Marshal(post.Keywords)
	if err != nil {
		return false, fmt.Errorf("marshalling keywords: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO posts (post_id, title, body, sentiment, summary,
			score, url, subreddit, author, created_utc,
			num_comments, upvote_ratio, keywords, enriched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(post_id) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			sentiment = excluded.sentiment,
			summary = excluded.summary,
			score = excluded.score,
			url = excluded.url,
			subreddit = excluded.subreddit,
			author = excluded.author,
			created_utc = excluded.created_utc,
			num_comments = excluded.num_comments,
			upvote_ratio = excluded.upvote_ratio,
			keywords = excluded.keywords,
			enriched_at = excluded.enriched_at
	`, post.PostID, post.Title, post.Body, string(post.Sentiment), post.Summary,
		post.Metadata.Score, post.Metadata.URL, post.Metadata.Subreddit,
		post.Metadata.Author, post.Metadata.CreatedUTC.UTC(),
		post.Metadata.NumComments, post.Metadata.UpvoteRatio,
		string(keywordsJSON), post.EnrichedAt.UTC())
	if err != nil {
		return false, fmt.Errorf("upserting record: %w", err)
	}

	return true, nil
}

// sameContent compares two records ignoring their enrichment
// timestamps.
func sameContent(a, b domain.EnrichedPost) (bool, error) {
	a.EnrichedAt = time.Time{}
	b.EnrichedAt = time.Time{}
	a.Metadata.CreatedUTC = a.Metadata.CreatedUTC.UTC()
	b.Metadata.CreatedUTC = b.Metadata.CreatedUTC.UTC()

	aJSON, err := json.Marshal(a)
	if err != nil {
		return false, fmt.Errorf("marshalling record: %w", err)
	}
	bJSON, err := json.Marshal(b)
	if err != nil {
		return false, fmt.Errorf("marshalling record: %w", err)
	}

	return string(aJSON) == string(bJSON), nil
}

// getPost loads one record by post ID.
func (s *Store) getPost(ctx context.Context, postID string) (*domain.EnrichedPost, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+strings.Join(postColumns, ", ")+`
		FROM posts WHERE post_id = ?
	`, postID)

	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

// Query returns stored records matching the filter, ordered by
// enrichment time descending with the post ID as tiebreak.
func (s *Store) Query(ctx context.Context, filter domain.QueryFilter) ([]domain.EnrichedPost, error) {
	builder := sq.Select(postColumns...).
		From("posts").
		OrderBy("enriched_at DESC", "post_id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Skip))

	if filter.Sentiment != "" {
		builder = builder.Where(sq.Eq{"sentiment": string(filter.Sentiment)})
	}
	if filter.Subreddit != "" {
		builder = builder.Where(sq.Eq{"subreddit": filter.Subreddit})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var posts []domain.EnrichedPost //nolint:prealloc // size unknown from query
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	return posts, nil
}

// Stats aggregates the stored collection.
func (s *Store) Stats(ctx context.Context) (domain.DNAStats, error) {
	stats := domain.DNAStats{
		BySentiment: map[string]int{},
		BySubreddit: map[string]int{},
	}

	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts")
	if err := row.Scan(&stats.TotalPosts); err != nil {
		return stats, fmt.Errorf("counting records: %w", err)
	}

	if err := s.groupCount(ctx, "sentiment", stats.BySentiment); err != nil {
		return stats, err
	}
	if err := s.groupCount(ctx, "subreddit", stats.BySubreddit); err != nil {
		return stats, err
	}

	var last sql.NullTime
	row = s.db.QueryRowContext(ctx, "SELECT MAX(enriched_at) FROM posts")
	if err := row.Scan(&last); err != nil {
		return stats, fmt.Errorf("finding last enrichment: %w", err)
	}
	if last.Valid {
		t := last.Time.UTC()
		stats.LastEnrichedAt = &t
	}

	return stats, nil
}

// groupCount fills dest with per-value counts for one column.
func (s *Store) groupCount(ctx context.Context, column string, dest map[string]int) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+column+", COUNT(*) FROM posts GROUP BY "+column)
	if err != nil {
		return fmt.Errorf("grouping by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scanning %s group: %w", column, err)
		}
		dest[key] = count
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating %s groups: %w", column, err)
	}
	return nil
}

// EnsureIndexes creates the secondary indexes used by Query and
// Stats. post_id uniqueness is the primary key and needs no separate
// index. Safe to call repeatedly.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_posts_sentiment ON posts (sentiment)",
		"CREATE INDEX IF NOT EXISTS idx_posts_subreddit ON posts (subreddit)",
		"CREATE INDEX IF NOT EXISTS idx_posts_enriched_at ON posts (enriched_at)",
	}

	for _, stmt := range indexes {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}

	logger.Debug("ensured indexes on posts")
	return nil
}

// rowScanner abstracts sql.Row and sql.Rows for scanPost.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPost reads one record in postColumns order.
func scanPost(row rowScanner) (*domain.EnrichedPost, error) {
	var post domain.EnrichedPost
	var sentiment, keywordsJSON string
	var createdUTC, enrichedAt time.Time

	err := row.Scan(
		&post.PostID, &post.Title, &post.Body, &sentiment, &post.Summary,
		&post.Metadata.Score, &post.Metadata.URL, &post.Metadata.Subreddit,
		&post.Metadata.Author, &createdUTC,
		&post.Metadata.NumComments, &post.Metadata.UpvoteRatio,
		&keywordsJSON, &enrichedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning record: %w", err)
	}

	post.Sentiment = domain.Sentiment(sentiment)
	post.Metadata.CreatedUTC = createdUTC.UTC()
	post.EnrichedAt = enrichedAt.UTC()

	if err := json.Unmarshal([]byte(keywordsJSON), &post.Keywords); err != nil {
		return nil, fmt.Errorf("unmarshalling keywords: %w", err)
	}

	return &post, nil
}
