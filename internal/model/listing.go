package model

import "github.com/google/uuid"

// BuildUserListing groups repos under the installations they belong to and counts
// ingestion states per installation and overall. Repositories whose installation is
// not in installs are left out.
func BuildUserListing(installs []Installation, repos []Repository) UserListing {
	listing := UserListing{Installations: make([]InstallationListing, 0, len(installs))}
	index := make(map[uuid.UUID]int, len(installs))
	for _, inst := range installs {
		index[inst.ID] = len(listing.Installations)
		listing.Installations = append(listing.Installations, InstallationListing{
			Installation: inst,
			Repositories: []Repository{},
		})
	}

	for _, repo := range repos {
		i, ok := index[repo.InstallationID]
		if !ok {
			continue
		}
		entry := &listing.Installations[i]
		entry.Repositories = append(entry.Repositories, repo)
		entry.Summary.Add(repo.IngestionStatus)
		listing.Summary.Add(repo.IngestionStatus)
	}
	return listing
}
