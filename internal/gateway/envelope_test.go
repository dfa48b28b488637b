package gateway

import (
	"testing"
)

func TestDecodeListBareArray(t *testing.T) {
	raws, info, err := DecodeList([]byte(`[{"id":1},{"id":2}]`))
	if err != nil {
		t.Fatalf("DecodeList failed: %v", err)
	}
	if len(raws) != 2 {
		t.Errorf("Expected 2 records, got %d", len(raws))
	}
	if info.TotalItems != 2 {
		t.Errorf("Expected totalItems 2, got %d", info.TotalItems)
	}
}

func TestDecodeListWrapped(t *testing.T) {
	for _, key := range []string{"items", "data", "result", "results", "list"} {
		body := []byte(`{"` + key + `":[{"id":1}]}`)
		raws, _, err := DecodeList(body)
		if err != nil {
			t.Errorf("DecodeList failed for key %q: %v", key, err)
			continue
		}
		if len(raws) != 1 {
			t.Errorf("Expected 1 record under %q, got %d", key, len(raws))
		}
	}
}

func TestDecodeListPaged(t *testing.T) {
	body := []byte(`{"items":[{"id":1},{"id":2}],"totalItems":40,"currentPage":3}`)
	raws, info, err := DecodeList(body)
	if err != nil {
		t.Fatalf("DecodeList failed: %v", err)
	}
	if len(raws) != 2 {
		t.Errorf("Expected 2 records, got %d", len(raws))
	}
	if info.TotalItems != 40 {
		t.Errorf("Expected totalItems 40, got %d", info.TotalItems)
	}
	if info.CurrentPage != 3 {
		t.Errorf("Expected currentPage 3, got %d", info.CurrentPage)
	}
}

func TestDecodeListNested(t *testing.T) {
	body := []byte(`{"data":{"items":[{"id":7}],"totalCount":12,"page":2}}`)
	raws, info, err := DecodeList(body)
	if err != nil {
		t.Fatalf("DecodeList failed: %v", err)
	}
	if len(raws) != 1 {
		t.Errorf("Expected 1 record, got %d", len(raws))
	}
	if info.TotalItems != 12 {
		t.Errorf("Expected totalItems 12, got %d", info.TotalItems)
	}
	if info.CurrentPage != 2 {
		t.Errorf("Expected currentPage 2, got %d", info.CurrentPage)
	}
}

func TestDecodeListRejectsNonList(t *testing.T) {
	if _, _, err := DecodeList([]byte(`"just a string"`)); err == nil {
		t.Error("Expected error for a scalar body")
	}
	if _, _, err := DecodeList([]byte(`{"message":"ok"}`)); err == nil {
		t.Error("Expected error when no list key is present")
	}
}

func TestDecodeObject(t *testing.T) {
	raw, err := DecodeObject([]byte(`{"id":5,"status":0}`))
	if err != nil {
		t.Fatalf("DecodeObject failed: %v", err)
	}
	if string(raw) != `{"id":5,"status":0}` {
		t.Errorf("Expected plain object back, got %s", raw)
	}

	raw, err = DecodeObject([]byte(`{"data":{"id":5}}`))
	if err != nil {
		t.Fatalf("DecodeObject failed: %v", err)
	}
	if string(raw) != `{"id":5}` {
		t.Errorf("Expected unwrapped object, got %s", raw)
	}

	if _, err := DecodeObject([]byte(`[1,2]`)); err == nil {
		t.Error("Expected error for a non-object body")
	}
}

func TestExtractMessage(t *testing.T) {
	if got := ExtractMessage([]byte(`{"message":"User not found"}`), 404); got != "User not found" {
		t.Errorf("Expected JSON message, got %q", got)
	}
	if got := ExtractMessage([]byte(`{"error":"boom"}`), 500); got != "boom" {
		t.Errorf("Expected error field, got %q", got)
	}
	if got := ExtractMessage([]byte("plain text failure"), 500); got != "plain text failure" {
		t.Errorf("Expected raw text, got %q", got)
	}
	if got := ExtractMessage(nil, 503); got != "request failed with status 503" {
		t.Errorf("Expected status fallback, got %q", got)
	}
}

func TestExtractMessageDefectMapping(t *testing.T) {
	body := []byte("System.NullReferenceException: Object reference not set at Rewards.Api.Controllers")
	got := ExtractMessage(body, 500)
	if got == string(body) {
		t.Error("Expected defect signature to map to guidance text")
	}

	body = []byte(`{"message":"The provider for IDbAsyncQueryProvider failed"}`)
	got = ExtractMessage(body, 500)
	if got == "The provider for IDbAsyncQueryProvider failed" {
		t.Error("Expected defect mapping to apply to JSON messages too")
	}

	// Each defect is keyed by several interchangeable signatures.
	aliases := []string{
		"Sequence contains no elements",
		"An EntityFramework provider was not found",
	}
	for _, alias := range aliases {
		if got := ExtractMessage([]byte(alias), 500); got == alias {
			t.Errorf("Expected alias signature %q to map to guidance text", alias)
		}
	}
}
