package oitconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProcfile_Simple(t *testing.T) {
	content := "\nweb: bundle exec rails server -p 3000\nworker: bundle exec sidekiq\n"
	p, err := ParseProcfile(content)
	require.NoError(t, err)
	assert.Len(t, p.processes, 2)
	cmd, ok := p.GetCommand("web")
	assert.True(t, ok)
	assert.Equal(t, "bundle exec rails server -p 3000", cmd)
}

func TestParseProcfile_SkipsCommentsAndBlankLines(t *testing.T) {
	content := "\n# comment\nweb: rails server\n\n# another\nworker: sidekiq\n"
	p, err := ParseProcfile(content)
	require.NoError(t, err)
	assert.Len(t, p.processes, 2)
}

func TestParseProcfile_EmptyFails(t *testing.T) {
	_, err := ParseProcfile("# only comments\n\n")
	assert.Error(t, err)
}

func TestParseProcfile_DuplicateNameFails(t *testing.T) {
	content := "\nweb: rails server\nweb: another command\n"
	_, err := ParseProcfile(content)
	assert.Error(t, err)
}

func TestParseProcfile_InvalidSyntaxFails(t *testing.T) {
	_, err := ParseProcfile("web rails server")
	assert.Error(t, err)
}

func TestParseProcfile_EmptyNameFails(t *testing.T) {
	_, err := ParseProcfile(": rails server")
	assert.Error(t, err)
}

func TestParseProcfile_EmptyCommandFails(t *testing.T) {
	_, err := ParseProcfile("web:   \n")
	assert.Error(t, err)
}

func TestParseProcfile_ProcessNamesSorted(t *testing.T) {
	content := "\nzebra: command 1\nalpha: command 2\nmiddle: command 3\n"
	p, err := ParseProcfile(content)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "middle", "zebra"}, p.ProcessNames())
}
