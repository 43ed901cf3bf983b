package export

import (
	"bytes"
	"testing"

	"github.com/jengzang/guardian-backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDecisions(t *testing.T) {
	data, err := Decisions([]models.DecisionRecord{
		{
			ID: "d-1", SubjectID: "alice", Timestamp: 1741975200, Trigger: "location",
			Action: "AUTO_SOS", Reason: "stationary_night_low_poi",
			Evidence: "stationary=270s;night=true;poi_count=0", Latitude: 12.9716, Longitude: 77.5946,
		},
		{ID: "d-2", SubjectID: "bob", Timestamp: 0, Trigger: "direct", Action: "NONE", Reason: "ok"},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{DecisionsSheet}, f.GetSheetList())

	rows, err := f.GetRows(DecisionsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, DecisionsHeader, rows[0])
	assert.Equal(t, "d-1", rows[1][0])
	assert.Equal(t, "2025-03-14 18:00:00", rows[1][2])
	assert.Equal(t, "stationary=270s;night=true;poi_count=0", rows[1][6])
	assert.Equal(t, "12.9716", rows[1][7])
	assert.Equal(t, "ok", rows[2][5])
}

func TestDecisions_Empty(t *testing.T) {
	data, err := Decisions(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(DecisionsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
