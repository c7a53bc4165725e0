package ninja

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rmmkit/ninja/internal/constants"
)

// The API reports times as epoch seconds, sometimes with a fractional
// part. These helpers convert such values to ISO 8601 strings in loosely
// typed payloads (query rows, custom fields).

// exactTimestampFields are field names known to carry epoch timestamps
// without matching any naming pattern.
var exactTimestampFields = map[string]struct{}{
	"created":            {},
	"createTime":         {},
	"updateTime":         {},
	"activityTime":       {},
	"lastContact":        {},
	"lastUpdate":         {},
	"lastRunTime":        {},
	"documentUpdateTime": {},
	"expires":            {},
	"timestamp":          {},
}

// timestampFieldSuffixes are naming patterns that mark a field as a
// timestamp, such as createdAt, updatedOn, installDate.
var timestampFieldSuffixes = []string{"At", "On", "Time", "Date"}

// IsTimestampField reports whether a field name denotes an epoch
// timestamp, by exact name or naming pattern.
func IsTimestampField(name string) bool {
	if _, ok := exactTimestampFields[name]; ok {
		return true
	}

	if strings.Contains(name, "Timestamp") {
		return true
	}

	for _, suffix := range timestampFieldSuffixes {
		if len(name) > len(suffix) && strings.HasSuffix(name, suffix) {
			return true
		}
	}

	return false
}

// IsEpochTimestamp reports whether a value is plausibly an epoch timestamp
// in seconds. Values outside the representable range (negative, or epoch
// milliseconds) are rejected.
func IsEpochTimestamp(value interface{}) bool {
	seconds, ok := toEpochSeconds(value)
	if !ok {
		return false
	}

	return seconds >= constants.MinEpochSeconds && seconds <= constants.MaxEpochSeconds
}

// ConvertEpochToISO converts an epoch timestamp to an ISO 8601 string in
// UTC. Fractional seconds are preserved at microsecond precision. Values
// that cannot be interpreted as timestamps are returned unchanged.
func ConvertEpochToISO(value interface{}) interface{} {
	seconds, ok := toEpochSeconds(value)
	if !ok {
		return value
	}

	whole := math.Floor(seconds)
	micros := int64(math.Round((seconds - whole) * 1e6))

	t := time.Unix(int64(whole), 0).UTC()

	if micros == 0 {
		return t.Format("2006-01-02T15:04:05Z")
	}

	return fmt.Sprintf("%s.%06dZ", t.Format("2006-01-02T15:04:05"), micros)
}

// ConvertTimestampsInData walks a decoded JSON structure and converts
// epoch timestamps in recognized fields to ISO 8601 strings. extraFields
// adds field names beyond the built-in set. Maps and slices are rebuilt;
// other values are returned as-is.
func ConvertTimestampsInData(data interface{}, extraFields map[string]struct{}) interface{} {
	switch value := data.(type) {
	case map[string]interface{}:
		converted := make(map[string]interface{}, len(value))

		for key, val := range value {
			switch val.(type) {
			case map[string]interface{}, []interface{}:
				converted[key] = ConvertTimestampsInData(val, extraFields)
			default:
				if isConvertibleField(key, extraFields) && IsEpochTimestamp(val) {
					converted[key] = ConvertEpochToISO(val)
				} else {
					converted[key] = val
				}
			}
		}

		return converted

	case []interface{}:
		converted := make([]interface{}, len(value))
		for i, item := range value {
			converted[i] = ConvertTimestampsInData(item, extraFields)
		}

		return converted

	default:
		return data
	}
}

// ProcessAPIResponse optionally converts timestamps in a decoded response.
// When convert is false, data is returned untouched.
func ProcessAPIResponse(data interface{}, convert bool, additionalFields map[string]struct{}) interface{} {
	if !convert {
		return data
	}

	return ConvertTimestampsInData(data, additionalFields)
}

func isConvertibleField(name string, extraFields map[string]struct{}) bool {
	if _, ok := extraFields[name]; ok {
		return true
	}

	return IsTimestampField(name)
}

func toEpochSeconds(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}

		return parsed, true
	default:
		return 0, false
	}
}
