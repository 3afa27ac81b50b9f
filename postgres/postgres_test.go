// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"github.com/diffeo/go-trellis/ldp"
	"github.com/diffeo/go-trellis/ldp/ldptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"os"
	"testing"
)

// Suite runs the generic resource service tests against PostgreSQL.
type Suite struct {
	ldptest.Suite
}

// SetupSuite does global setup for the test suite.
func (s *Suite) SetupSuite() {
	s.Suite.SetupSuite()
	r, err := NewWithClock("", s.Clock)
	s.Require().NoError(err)
	s.Resources = r
}

// TestResourceService runs the generic tests.  It connects with an
// empty connection string, so the libpq environment variables
// described at
// http://www.postgresql.org/docs/current/static/libpq-envars.html
// must name a database; the test is skipped if PGHOST is unset.
func TestResourceService(t *testing.T) {
	if os.Getenv("PGHOST") == "" {
		t.Skip("PGHOST not set")
	}
	suite.Run(t, &Suite{})
}

func TestDatasetEncoding(t *testing.T) {
	id := ldp.IRI("trellis:repo/a")
	d := ldptest.Dataset(id, ldp.LDP.RDFSource, "A title")
	d.Add(ldp.Quad{Graph: ldp.Trellis.PreferUserManaged, Subject: id, Predicate: ldp.DC.Creator, Object: ldp.BlankNode{ID: "b0"}})
	d.Add(ldp.Quad{Graph: ldp.Trellis.PreferUserManaged, Subject: ldp.BlankNode{ID: "b0"}, Predicate: ldp.DC.Title, Object: ldp.NewLangLiteral("Bonjour", "fr")})
	d.Add(ldp.Quad{Graph: ldp.Trellis.PreferUserManaged, Subject: id, Predicate: ldp.DC.Extent, Object: ldp.NewTypedLiteral("3", ldp.XSD.Integer)})

	blob, err := datasetToBytes(d)
	if !assert.NoError(t, err) {
		return
	}
	back, err := bytesToDataset(blob)
	if assert.NoError(t, err) {
		assert.Equal(t, d.Quads(), back.Quads())
	}
}

func TestBadDataset(t *testing.T) {
	_, err := bytesToDataset([]byte{0x82})
	assert.Error(t, err)
}

func TestBuildSelect(t *testing.T) {
	assert.Equal(t,
		"SELECT resource_version.id FROM resource_version WHERE resource_version.identifier=$1 ORDER BY resource_version.id",
		buildSelect([]string{versionID}, []string{versionTable}, []string{isResource}, versionID))
}

func TestInsertStatement(t *testing.T) {
	var params queryParams
	query := insertStatement(&params, "t", []string{"a", "b"}, 1, "two")
	assert.Equal(t, "INSERT INTO t(a, b) VALUES($1, $2)", query)
	assert.Equal(t, queryParams{1, "two"}, params)
}
