package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"rewards-admin-service/pkg/common"
)

// Known backend fault signatures. The backend occasionally leaks raw .NET
// exception traces instead of an error payload; any of the listed substrings
// maps the whole response to guidance text a console user can act on.
var backendDefects = []struct {
	signatures []string
	guidance   string
}{
	{
		signatures: []string{"System.NullReferenceException", "Object reference not set"},
		guidance:   "The server could not find one of the referenced records. Verify the selected user and product still exist, then try again.",
	},
	{
		signatures: []string{"System.InvalidOperationException", "Sequence contains no elements"},
		guidance:   "The server rejected the operation in its current state. Refresh the page and try again.",
	},
	{
		signatures: []string{"IDbAsyncQueryProvider", "EntityFramework"},
		guidance:   "The server data layer failed while reading. Wait a moment and retry.",
	},
}

// ExtractMessage turns a non-2xx response body into a human-readable error
// string: JSON message/error fields first, defect-signature mapping second,
// raw text or the HTTP status as last resorts.
func ExtractMessage(body []byte, status int) string {
	text := strings.TrimSpace(string(body))

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"message", "error", "Message", "title"} {
			if v, ok := payload[key].(string); ok && v != "" {
				text = v
				break
			}
		}
	}

	for _, defect := range backendDefects {
		if common.ContainsAny(text, defect.signatures...) {
			return defect.guidance
		}
	}

	if text == "" {
		return fmt.Sprintf("request failed with status %d", status)
	}
	return text
}
