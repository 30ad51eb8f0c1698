package model

import "strings"

// InstallationPatch is the partial view of an installation carried by one signal.
// The setup callback sets only OwnerUserID; a webhook sets only the metadata fields.
// Zero values mean "not supplied".
type InstallationPatch struct {
	OwnerUserID  *string
	AccountLogin string
	AccountType  string
	TargetType   string
}

// CallbackPatch builds the patch carried by a setup callback.
func CallbackPatch(userID string) InstallationPatch {
	return InstallationPatch{OwnerUserID: &userID}
}

// WebhookPatch builds the patch carried by a webhook delivery.
func WebhookPatch(accountLogin, accountType, targetType string) InstallationPatch {
	return InstallationPatch{
		AccountLogin: accountLogin,
		AccountType:  accountType,
		TargetType:   targetType,
	}
}

// MergeInstallation applies patch to current. Each signal owns disjoint fields, so
// applying any set of patches in any order, any number of times, gives the same result.
// A pending or empty value never replaces a known one and a set owner is never cleared.
func MergeInstallation(current Installation, patch InstallationPatch) Installation {
	merged := current
	if patch.OwnerUserID != nil && strings.TrimSpace(*patch.OwnerUserID) != "" {
		owner := *patch.OwnerUserID
		merged.OwnerUserID = &owner
	}
	merged.AccountLogin = mergeMetadata(current.AccountLogin, patch.AccountLogin)
	merged.AccountType = mergeMetadata(current.AccountType, patch.AccountType)
	merged.TargetType = mergeMetadata(current.TargetType, patch.TargetType)
	return merged
}

// IsPending reports whether a metadata value is still unknown.
func IsPending(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == PendingValue
}

func mergeMetadata(current, incoming string) string {
	if IsPending(incoming) {
		if IsPending(current) {
			return PendingValue
		}
		return current
	}
	return incoming
}
