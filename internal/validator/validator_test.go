package validator

import (
	"testing"

	"github.com/aretw0/labtour"
	"github.com/aretw0/labtour/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCatalog_Default(t *testing.T) {
	report := ValidateCatalog(labtour.DefaultCatalog())
	assert.NoError(t, report.Err())
	assert.Empty(t, report.Warnings)
}

func TestValidateCatalog_Findings(t *testing.T) {
	catalog := domain.MustCatalog(
		domain.Scene{Name: "farm", Title: "Contaminated Farm", Description: "soil", Icon: "warning"},
		domain.Scene{Name: "farm-again", Title: "Contaminated Farm", Description: "again", Icon: "warning"},
		domain.Scene{Name: "extra", Description: ""},
	)

	report := ValidateCatalog(catalog)
	require.Len(t, report.Errors, 2)
	assert.Contains(t, report.Errors[0], "repeats kind contaminated_farm")
	assert.Contains(t, report.Errors[1], "#3 'extra' has no description")
	assert.ElementsMatch(t, []string{
		"scene #3 'extra' has no interactive panel (unknown kind)",
		"scene #3 'extra' has no icon",
	}, report.Warnings)

	err := report.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found 2 errors")
}
