package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostgresQueries(t *testing.T) {
	assert.Equal(t, `SELECT id, lat, lon FROM "nodes" ORDER BY id`, nodesQuery(""))
	assert.Equal(t, `SELECT source, target, length FROM "edges"`, edgesQuery(""))
	assert.Equal(t, `SELECT id, lat, lon FROM "routing"."primary_nodes" ORDER BY id`, nodesQuery("routing.primary_nodes"))
	assert.Equal(t, `SELECT source, target, length FROM "bad""name"`, edgesQuery(`bad"name`))
}
