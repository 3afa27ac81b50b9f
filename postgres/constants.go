// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

const (
	// SQL table names:
	versionTable = "resource_version"

	// SQL column names:
	versionID         = versionTable + ".id"
	versionIdentifier = versionTable + ".identifier"
	versionModified   = versionTable + ".modified"
	versionParent     = versionTable + ".parent"
	versionDeleted    = versionTable + ".deleted"
	versionDataset    = versionTable + ".dataset"

	// WHERE clause fragments:
	isResource  = versionIdentifier + "=$1"
	isVersion   = versionID + "=$1"
	isChildOf   = versionParent + "=$1"
	isNotDelete = "NOT " + versionDeleted

	// The newest version of every resource that has ever been
	// recorded as a child of $1
	latestChildren = ("SELECT MAX(" + versionID + ") FROM " + versionTable +
		" WHERE " + versionIdentifier + " IN (SELECT " + versionIdentifier +
		" FROM " + versionTable + " WHERE " + isChildOf + ")" +
		" GROUP BY " + versionIdentifier)
)
