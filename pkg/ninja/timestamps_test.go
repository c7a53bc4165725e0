package ninja_test

import (
	"testing"

	"github.com/rmmkit/ninja/pkg/ninja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertEpochToISO(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    interface{}
		expected interface{}
	}{
		{
			name:     "float with microseconds",
			input:    1728487941.725760,
			expected: "2024-10-09T15:32:21.725760Z",
		},
		{
			name:     "whole seconds",
			input:    1640995200,
			expected: "2022-01-01T00:00:00Z",
		},
		{
			name:     "string epoch",
			input:    "1728487941.725760",
			expected: "2024-10-09T15:32:21.725760Z",
		},
		{
			name:     "invalid string returned unchanged",
			input:    "invalid",
			expected: "invalid",
		},
	}

	for _, testCase := range tests {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, ninja.ConvertEpochToISO(testCase.input))
		})
	}
}

func TestIsTimestampField(t *testing.T) {
	t.Parallel()

	assert.True(t, ninja.IsTimestampField("created"))
	assert.True(t, ninja.IsTimestampField("lastContact"))
	assert.True(t, ninja.IsTimestampField("documentUpdateTime"))
	assert.True(t, ninja.IsTimestampField("createdAt"))
	assert.True(t, ninja.IsTimestampField("updatedOn"))
	assert.True(t, ninja.IsTimestampField("someTimestamp"))
	assert.True(t, ninja.IsTimestampField("installDate"))

	assert.False(t, ninja.IsTimestampField("name"))
	assert.False(t, ninja.IsTimestampField("regularField"))
	assert.False(t, ninja.IsTimestampField("description"))
}

func TestIsEpochTimestamp(t *testing.T) {
	t.Parallel()

	assert.True(t, ninja.IsEpochTimestamp(1728487941.725760))
	assert.True(t, ninja.IsEpochTimestamp(1640995200))
	assert.True(t, ninja.IsEpochTimestamp("1728487941.725760"))

	assert.False(t, ninja.IsEpochTimestamp(-1))
	assert.False(t, ninja.IsEpochTimestamp(9999999999999.0)) // milliseconds, not seconds
	assert.False(t, ninja.IsEpochTimestamp("not_a_number"))
	assert.False(t, ninja.IsEpochTimestamp(nil))
	assert.False(t, ninja.IsEpochTimestamp([]interface{}{}))
}

func TestConvertTimestampsInData(t *testing.T) {
	t.Parallel()
	t.Run("converts recognized fields in map", func(t *testing.T) {
		t.Parallel()

		data := map[string]interface{}{
			"id":          123,
			"name":        "Test Device",
			"created":     1728487941.725760,
			"lastContact": 1640995200,
			"description": "Regular field",
		}

		result, ok := ninja.ConvertTimestampsInData(data, nil).(map[string]interface{})
		require.True(t, ok)

		assert.Equal(t, 123, result["id"])
		assert.Equal(t, "Test Device", result["name"])
		assert.Equal(t, "2024-10-09T15:32:21.725760Z", result["created"])
		assert.Equal(t, "2022-01-01T00:00:00Z", result["lastContact"])
		assert.Equal(t, "Regular field", result["description"])
	})

	t.Run("converts nested structures", func(t *testing.T) {
		t.Parallel()

		data := map[string]interface{}{
			"device": map[string]interface{}{
				"created": 1728487941.725760,
				"details": map[string]interface{}{"lastUpdate": 1640995200},
			},
			"activities": []interface{}{
				map[string]interface{}{"timestamp": 1640995200, "type": "login"},
			},
		}

		result, ok := ninja.ConvertTimestampsInData(data, nil).(map[string]interface{})
		require.True(t, ok)

		device, ok := result["device"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "2024-10-09T15:32:21.725760Z", device["created"])

		details, ok := device["details"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "2022-01-01T00:00:00Z", details["lastUpdate"])

		activities, ok := result["activities"].([]interface{})
		require.True(t, ok)

		first, ok := activities[0].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "2022-01-01T00:00:00Z", first["timestamp"])
		assert.Equal(t, "login", first["type"])
	})

	t.Run("honors extra field names", func(t *testing.T) {
		t.Parallel()

		data := map[string]interface{}{
			"customField":  1728487941.725760,
			"regularField": "value",
		}

		extra := map[string]struct{}{"customField": {}}

		result, ok := ninja.ConvertTimestampsInData(data, extra).(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "2024-10-09T15:32:21.725760Z", result["customField"])
		assert.Equal(t, "value", result["regularField"])
	})
}

func TestProcessAPIResponse(t *testing.T) {
	t.Parallel()
	t.Run("disabled leaves data untouched", func(t *testing.T) {
		t.Parallel()

		data := map[string]interface{}{"created": 1728487941.725760}

		result := ninja.ProcessAPIResponse(data, false, nil)
		assert.Equal(t, data, result)
	})

	t.Run("enabled converts timestamps", func(t *testing.T) {
		t.Parallel()

		data := map[string]interface{}{"created": 1728487941.725760}

		result, ok := ninja.ProcessAPIResponse(data, true, nil).(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "2024-10-09T15:32:21.725760Z", result["created"])
	})
}
