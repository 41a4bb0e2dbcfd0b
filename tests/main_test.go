package tests

import (
	"os"
	"testing"
)

// TestMain seeds the token chain so commands that insist on a credential can
// run against stubbed tooling.
func TestMain(m *testing.M) {
	_ = os.Setenv("GH_TOKEN", "integration-token")
	os.Exit(m.Run())
}
