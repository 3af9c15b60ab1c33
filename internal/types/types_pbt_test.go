package types

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestStatusNormalizationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: normalization is idempotent
	properties.Property("normalize is idempotent", prop.ForAll(
		func(raw string) bool {
			once := NormalizeStatus(raw)
			return NormalizeStatus(string(once)) == once
		},
		gen.AnyString(),
	))

	// Property: prunability never depends on the casing of the raw status
	properties.Property("prunability is case-insensitive", prop.ForAll(
		func(status string, upper bool) bool {
			raw := status
			if upper {
				raw = strings.ToUpper(status)
			} else {
				raw = strings.ToLower(status)
			}
			return NormalizeStatus(raw).IsPrunable() == NormalizeStatus(status).IsPrunable()
		},
		gen.OneConstOf("PAUSED", "COMPLETED", "ACTIVE", "DRAFTED", "STOPPED"),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
