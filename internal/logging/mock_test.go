package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockLogger_DerivedLoggersShareEntries(t *testing.T) {
	m := NewMockLogger()

	m.Info("root")
	m.WithField(FieldSource, "paypal").Warn("child")
	m.WithError(errors.New("bad row")).Error("failed")

	entries := m.GetEntries()
	assert.Len(t, entries, 3)
	assert.True(t, m.HasEntry("WARN", "child"))
	assert.Len(t, m.GetEntriesByLevel("ERROR"), 1)
	assert.EqualError(t, m.GetEntriesByLevel("ERROR")[0].Error, "bad row")

	v, ok := m.FieldValue("child", FieldSource)
	assert.True(t, ok)
	assert.Equal(t, "paypal", v)
}

func TestMockLogger_FatalDoesNotExit(t *testing.T) {
	m := NewMockLogger()
	m.Fatalf("cannot open %s", "a.csv")
	assert.True(t, m.HasEntry("FATAL", "cannot open a.csv"))
}

func TestMockLogger_ZeroValueUsable(t *testing.T) {
	var m MockLogger
	m.Debug("ok")
	assert.Len(t, m.GetEntries(), 1)
}
