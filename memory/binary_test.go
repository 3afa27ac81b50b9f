// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package memory

import (
	"context"
	"github.com/diffeo/go-trellis/ldp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io/ioutil"
	"strings"
	"testing"
)

func readAll(t *testing.T, svc ldp.BinaryService, loc ldp.IRI, from, to int64) string {
	r, err := svc.ContentRange(context.Background(), "repo", loc, from, to)
	require.NoError(t, err)
	defer r.Close()
	data, err := ioutil.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestBinaryService(t *testing.T) {
	ctx := context.Background()
	svc := NewBinaryService()
	loc := svc.IdentifierSupplier("repo")()

	_, err := svc.Content(ctx, "repo", loc)
	assert.Equal(t, ldp.ErrNoSuchBinary, err)

	require.NoError(t, svc.SetContent(ctx, "repo", loc, strings.NewReader("Some data")))
	assert.Equal(t, "Some data", readAll(t, svc, loc, 0, -1))
	assert.Equal(t, "ome", readAll(t, svc, loc, 1, 3))
	assert.Equal(t, "data", readAll(t, svc, loc, 5, 100))
	assert.Equal(t, "", readAll(t, svc, loc, 50, 100))

	_, err = svc.Content(ctx, "other", loc)
	assert.Equal(t, ldp.ErrNoSuchBinary, err)

	d, err := svc.Digest("md5", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "XUFAKrxLKna5cZ2REBfFkg==", d)
	assert.Contains(t, svc.SupportedAlgorithms(), "sha")
}
