package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureDevelopment(t *testing.T) {
	l := logrus.New()
	require.NoError(t, Configure(Options{Development: true}, l))
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)
}

func TestConfigureProduction(t *testing.T) {
	a, b := logrus.New(), logrus.New()
	require.NoError(t, Configure(Options{}, a, b))
	for _, l := range []*logrus.Logger{a, b} {
		assert.Equal(t, logrus.InfoLevel, l.GetLevel())
		assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)
	}
}

func TestConfigureLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweeper.log")
	l := logrus.New()
	require.NoError(t, Configure(Options{LogFile: path}, l))
	Discard(l)

	l.WithField("game", "g1").Info("game started")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"game":"g1"`)
	assert.Contains(t, string(data), `"msg":"game started"`)
}
