package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func pendingInstallation() Installation {
	return Installation{
		ExternalInstallationID: 42,
		AccountLogin:           PendingValue,
		AccountType:            PendingValue,
		TargetType:             PendingValue,
	}
}

func applyAll(patches []InstallationPatch) Installation {
	inst := pendingInstallation()
	for _, p := range patches {
		inst = MergeInstallation(inst, p)
	}
	return inst
}

// permutations returns every ordering of in.
func permutations(in []InstallationPatch) [][]InstallationPatch {
	if len(in) <= 1 {
		return [][]InstallationPatch{append([]InstallationPatch(nil), in...)}
	}
	var out [][]InstallationPatch
	for i := range in {
		rest := make([]InstallationPatch, 0, len(in)-1)
		rest = append(rest, in[:i]...)
		rest = append(rest, in[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]InstallationPatch{in[i]}, p...))
		}
	}
	return out
}

func TestMergeInstallation_OrderIndependent(t *testing.T) {
	callback := CallbackPatch("u1")
	webhook := WebhookPatch("acme", "Organization", "Organization")
	placeholder := WebhookPatch(PendingValue, PendingValue, PendingValue)

	sequences := permutations([]InstallationPatch{callback, webhook, placeholder, callback, webhook})
	for _, seq := range sequences {
		got := applyAll(seq)
		if assert.NotNil(t, got.OwnerUserID) {
			assert.Equal(t, "u1", *got.OwnerUserID)
		}
		assert.Equal(t, "acme", got.AccountLogin)
		assert.Equal(t, "Organization", got.AccountType)
		assert.Equal(t, "Organization", got.TargetType)
	}
}

func TestMergeInstallation_Scenario(t *testing.T) {
	webhookFirst := applyAll([]InstallationPatch{WebhookPatch("acme", "User", "User"), CallbackPatch("u1")})
	callbackFirst := applyAll([]InstallationPatch{CallbackPatch("u1"), WebhookPatch("acme", "User", "User")})

	assert.Equal(t, webhookFirst, callbackFirst)
	assert.Equal(t, "acme", webhookFirst.AccountLogin)
	assert.Equal(t, "u1", *webhookFirst.OwnerUserID)
}

func TestMergeInstallation_NeverRegresses(t *testing.T) {
	owner := "u1"
	current := Installation{
		OwnerUserID:  &owner,
		AccountLogin: "acme",
		AccountType:  "Organization",
		TargetType:   "Organization",
	}

	t.Run("pending metadata keeps known values", func(t *testing.T) {
		got := MergeInstallation(current, WebhookPatch(PendingValue, "", "  "))
		assert.Equal(t, current, got)
	})

	t.Run("webhook patch keeps owner", func(t *testing.T) {
		got := MergeInstallation(current, WebhookPatch("acme-renamed", "Organization", "Organization"))
		assert.Equal(t, "u1", *got.OwnerUserID)
		assert.Equal(t, "acme-renamed", got.AccountLogin)
	})

	t.Run("empty owner does not clear", func(t *testing.T) {
		got := MergeInstallation(current, CallbackPatch(""))
		assert.Equal(t, "u1", *got.OwnerUserID)
	})

	t.Run("merge does not alias the patch owner", func(t *testing.T) {
		patch := CallbackPatch("u2")
		got := MergeInstallation(current, patch)
		*patch.OwnerUserID = "mutated"
		assert.Equal(t, "u2", *got.OwnerUserID)
	})
}

func TestMergeInstallation_EmptyMetadataBecomesPending(t *testing.T) {
	got := MergeInstallation(Installation{}, WebhookPatch("", "", ""))
	assert.Equal(t, PendingValue, got.AccountLogin)
	assert.Equal(t, PendingValue, got.AccountType)
	assert.Equal(t, PendingValue, got.TargetType)
}

func TestSummarize(t *testing.T) {
	repos := []Repository{
		{IngestionStatus: IngestionNotStarted},
		{IngestionStatus: IngestionProcessing},
		{IngestionStatus: IngestionCompleted},
		{IngestionStatus: IngestionCompleted},
		{IngestionStatus: IngestionFailed},
	}
	assert.Equal(t, StatusSummary{Total: 5, NotStarted: 1, Processing: 1, Completed: 2, Failed: 1}, Summarize(repos))
	assert.Equal(t, StatusSummary{}, Summarize(nil))
}
