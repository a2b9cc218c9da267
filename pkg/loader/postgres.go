package loader

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"

	"path_finder/pkg/graph"
)

// Default table names for LoadPostgres.
const (
	DefaultNodesTable = "nodes"
	DefaultEdgesTable = "edges"
)

// OpenPostgres opens a connection pool through the pgx database/sql driver
// and verifies it.
func OpenPostgres(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("verify postgres connection: %w", err)
	}

	return db, nil
}

// Table names may be schema-qualified ("public.nodes") and are quoted as
// identifiers. Nodes are ordered by ID so repeated loads index identically.
func nodesQuery(table string) string {
	return fmt.Sprintf(`SELECT id, lat, lon FROM %s ORDER BY id`, quoteTable(table, DefaultNodesTable))
}

func edgesQuery(table string) string {
	return fmt.Sprintf(`SELECT source, target, length FROM %s`, quoteTable(table, DefaultEdgesTable))
}

func quoteTable(table, fallback string) string {
	if table == "" {
		table = fallback
	}
	return pgx.Identifier(strings.Split(table, ".")).Sanitize()
}

// LoadPostgres reads the node table (id, lat, lon) and the edge table
// (source, target, length) from db.
func LoadPostgres(ctx context.Context, db *sql.DB, nodesTable, edgesTable string) (*Tables, error) {
	nodes, err := queryNodes(ctx, db, nodesQuery(nodesTable))
	if err != nil {
		return nil, err
	}
	edges, err := queryEdges(ctx, db, edgesQuery(edgesTable))
	if err != nil {
		return nil, err
	}
	return &Tables{Nodes: nodes, Edges: edges}, nil
}

func queryNodes(ctx context.Context, db *sql.DB, q string) ([]graph.Node, error) {
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("load nodes: query: %w", err)
	}
	defer rows.Close()

	var nodes []graph.Node
	for rows.Next() {
		var n graph.Node
		if err := rows.Scan(&n.ID, &n.Lat, &n.Lon); err != nil {
			return nil, fmt.Errorf("load nodes: scan row: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load nodes: row iteration: %w", err)
	}
	return nodes, nil
}

func queryEdges(ctx context.Context, db *sql.DB, q string) ([]graph.Edge, error) {
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("load edges: query: %w", err)
	}
	defer rows.Close()

	var edges []graph.Edge
	for rows.Next() {
		var e graph.Edge
		if err := rows.Scan(&e.Source, &e.Target, &e.Weight); err != nil {
			return nil, fmt.Errorf("load edges: scan row: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load edges: row iteration: %w", err)
	}
	return edges, nil
}
