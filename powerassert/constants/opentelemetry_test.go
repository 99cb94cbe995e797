//go:build unit

package constant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeMetricLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "transform", SanitizeMetricLabel("transform"))

	long := strings.Repeat("x", MaxMetricLabelLength+10)
	assert.Len(t, SanitizeMetricLabel(long), MaxMetricLabelLength)

	exact := strings.Repeat("y", MaxMetricLabelLength)
	assert.Equal(t, exact, SanitizeMetricLabel(exact))
}

func TestAssertionAttributeKeys(t *testing.T) {
	t.Parallel()

	for _, key := range []string{
		AttrAssertionName, AttrAssertionMessage, AttrAssertionExpression,
		AttrAssertionComponent, AttrAssertionOperation, AttrAssertionHint, AttrAssertionStack,
	} {
		assert.True(t, strings.HasPrefix(key, AttrPrefixAssertion), key)
	}
}
