package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/aggregator-service/internal/model"
)

func TestParseSource(t *testing.T) {
	for _, src := range model.AllSources() {
		got, err := model.ParseSource(string(src))
		require.NoError(t, err)
		assert.Equal(t, src, got)
	}

	_, err := model.ParseSource("monster")
	require.Error(t, err)
	_, err = model.ParseSource("JSearch")
	require.Error(t, err, "tags are case-sensitive")
}

func TestRemote_JSON(t *testing.T) {
	for _, c := range []struct {
		r    model.Remote
		json string
	}{
		{model.RemoteYes, "true"},
		{model.RemoteNo, "false"},
		{model.RemoteUnknown, "null"},
	} {
		b, err := json.Marshal(c.r)
		require.NoError(t, err)
		assert.Equal(t, c.json, string(b))

		var back model.Remote
		require.NoError(t, json.Unmarshal(b, &back))
		assert.Equal(t, c.r, back)
	}

	var r model.Remote
	require.Error(t, json.Unmarshal([]byte(`"yes"`), &r))
}

func TestRemote_Helpers(t *testing.T) {
	assert.True(t, model.RemoteFrom(true).Bool())
	assert.False(t, model.RemoteFrom(false).Bool())
	assert.True(t, model.RemoteFrom(false).Known())
	assert.False(t, model.RemoteUnknown.Known())
	assert.False(t, model.RemoteUnknown.Bool())
}

func TestJob_HasSalary(t *testing.T) {
	zero, some := 0.0, 50000.0
	assert.False(t, (&model.Job{}).HasSalary())
	assert.False(t, (&model.Job{SalaryMin: &zero}).HasSalary())
	assert.True(t, (&model.Job{SalaryMax: &some}).HasSalary())
}
