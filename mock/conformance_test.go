package mock

import (
	"testing"

	"github.com/jmgilman/go/treefs/core"
	"github.com/jmgilman/go/treefs/fstest"
)

func TestConformance(t *testing.T) {
	fstest.TestBackend(t, func(*testing.T) core.Backend {
		return New(nil)
	}, fstest.DefaultConfig())
}
