package tags

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTagSeeds(t *testing.T) {
	rows, err := ParseTagSeeds([]byte(`[{"uid":" 04ab ","employee_id":7},{"uid":"04cd","status":"INACTIVE"}]`))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "04AB", rows[0].EmployeeTagUID)
	assert.Equal(t, "active", rows[0].EmployeeTagStatus)
	assert.Equal(t, "inactive", rows[1].EmployeeTagStatus)
	assert.Nil(t, rows[1].EmployeeTagEmployeeID)

	_, err = ParseTagSeeds([]byte(`[{"uid":"04ab"},{"uid":"04AB"}]`))
	assert.Error(t, err)
	_, err = ParseTagSeeds([]byte(`[{"uid":"x","status":"lost"}]`))
	assert.Error(t, err)
	_, err = ParseTagSeeds([]byte(`[{"uid":""}]`))
	assert.Error(t, err)
}

func TestBundledTagSeedIsValid(t *testing.T) {
	data, err := os.ReadFile("data_tags.json")
	require.NoError(t, err)
	rows, err := ParseTagSeeds(data)
	require.NoError(t, err)
	assert.NotEmpty(t, rows)
}
