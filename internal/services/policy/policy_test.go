// internal/services/policy/policy_test.go
package policy

import (
	"testing"

	"card-advisor/internal/common/config"
	stderrors "card-advisor/internal/common/errors"
	"card-advisor/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRules(t *testing.T) *Rules {
	t.Helper()
	return NewRules(config.PolicyConfig{
		SupportedJurisdictions: []string{"SG", "us"},
		FlaggedIssuers: map[string][]string{
			"sg": {"Generic Bank"},
		},
	}, logger.NewTestLogger(t))
}

func TestRulesCheck(t *testing.T) {
	rules := testRules(t)

	assert.NoError(t, rules.Check("SG"))
	assert.NoError(t, rules.Check("us"))

	err := rules.Check("DE")
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeComplianceRejected, stderrors.CodeOf(err))

	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.False(t, stdErr.Retryable)
}

func TestRulesFlaggedIssuers(t *testing.T) {
	rules := testRules(t)

	assert.Equal(t, []string{"Generic Bank"}, rules.FlaggedIssuers("SG"))
	assert.Empty(t, rules.FlaggedIssuers("US"))
}
