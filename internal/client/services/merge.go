package services

import (
	"sort"

	"github.com/reveriehq/reverie/internal/client/models"
)

// MergeRemote reconciles a freshly fetched server collection with the
// pending ledgers into one authoritative local collection:
//
//  1. Server records with a pending delete are dropped.
//  2. Server records with a pending edit are replaced by the local snapshot
//     (last local write wins until the edit confirms).
//  3. Pending-edit records the server does not know about yet (typically
//     creates whose remote call never confirmed) are prepended, unless they
//     are also pending deletion.
//
// The merge is last-write-wins at whole-record granularity; there is no
// field-level reconciliation.
func MergeRemote(remote []models.Dream, edits map[string]models.Dream, deletes map[string]struct{}) []models.Dream {
	remoteIDs := make(map[string]struct{}, len(remote))
	for _, d := range remote {
		remoteIDs[d.ID] = struct{}{}
	}

	localOnly := make([]models.Dream, 0, len(edits))
	for id, d := range edits {
		if _, onServer := remoteIDs[id]; onServer {
			continue
		}
		if _, deleted := deletes[id]; deleted {
			continue
		}
		localOnly = append(localOnly, d)
	}
	// map iteration order is random; keep local-only records newest first
	sort.Slice(localOnly, func(i, j int) bool {
		if localOnly[i].Date != localOnly[j].Date {
			return localOnly[i].Date > localOnly[j].Date
		}
		return localOnly[i].ID < localOnly[j].ID
	})

	merged := make([]models.Dream, 0, len(remote)+len(localOnly))
	merged = append(merged, localOnly...)

	for _, d := range remote {
		if _, deleted := deletes[d.ID]; deleted {
			continue
		}
		if local, edited := edits[d.ID]; edited {
			merged = append(merged, local)
			continue
		}
		merged = append(merged, d)
	}

	return merged
}
