package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUserListing(t *testing.T) {
	a := Installation{ID: uuid.New(), ExternalInstallationID: 1, AccountLogin: "acme"}
	b := Installation{ID: uuid.New(), ExternalInstallationID: 2, AccountLogin: "globex"}
	repos := []Repository{
		{ID: uuid.New(), InstallationID: a.ID, FullName: "acme/api", IngestionStatus: IngestionCompleted},
		{ID: uuid.New(), InstallationID: a.ID, FullName: "acme/web", IngestionStatus: IngestionFailed},
		{ID: uuid.New(), InstallationID: uuid.New(), FullName: "other/x", IngestionStatus: IngestionProcessing},
	}

	listing := BuildUserListing([]Installation{a, b}, repos)

	require.Len(t, listing.Installations, 2)
	assert.Equal(t, "acme", listing.Installations[0].AccountLogin)
	assert.Len(t, listing.Installations[0].Repositories, 2)
	assert.Equal(t, StatusSummary{Total: 2, Completed: 1, Failed: 1}, listing.Installations[0].Summary)
	assert.NotNil(t, listing.Installations[1].Repositories)
	assert.Empty(t, listing.Installations[1].Repositories)
	assert.Equal(t, StatusSummary{Total: 2, Completed: 1, Failed: 1}, listing.Summary)
}

func TestBuildUserListing_Empty(t *testing.T) {
	listing := BuildUserListing(nil, nil)

	assert.NotNil(t, listing.Installations)
	assert.Empty(t, listing.Installations)
	assert.Equal(t, StatusSummary{}, listing.Summary)
}
