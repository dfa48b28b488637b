package gateway

import (
	"encoding/json"
	"errors"
)

// PageInfo carries whatever pagination metadata the backend decided to send.
type PageInfo struct {
	TotalItems  int `json:"totalItems"`
	CurrentPage int `json:"currentPage"`
}

var listKeys = []string{"items", "data", "result", "results", "list"}
var totalKeys = []string{"totalItems", "totalCount", "total", "count"}
var pageKeys = []string{"currentPage", "page", "pageNumber"}

// DecodeList flattens the backend's heterogeneous list envelopes into a slice
// of raw records. It accepts a bare array, {items}, {data}, {result[s]},
// {list}, and paged wrappers, including one level of nesting such as
// {data:{items:[...], totalItems:n}}.
func DecodeList(body []byte) ([]json.RawMessage, PageInfo, error) {
	var info PageInfo

	var arr []json.RawMessage
	if err := json.Unmarshal(body, &arr); err == nil {
		info.TotalItems = len(arr)
		return arr, info, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, info, errors.New("response is neither a list nor an object envelope")
	}

	readPageInfo(obj, &info)

	for _, key := range listKeys {
		raw, ok := obj[key]
		if !ok {
			continue
		}

		if err := json.Unmarshal(raw, &arr); err == nil {
			if info.TotalItems == 0 {
				info.TotalItems = len(arr)
			}
			return arr, info, nil
		}

		// Nested wrapper, e.g. {data: {data: [...], count: n}}.
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(raw, &inner); err != nil {
			continue
		}
		readPageInfo(inner, &info)
		for _, innerKey := range listKeys {
			innerRaw, ok := inner[innerKey]
			if !ok {
				continue
			}
			if err := json.Unmarshal(innerRaw, &arr); err == nil {
				if info.TotalItems == 0 {
					info.TotalItems = len(arr)
				}
				return arr, info, nil
			}
		}
	}

	return nil, info, errors.New("no list found in response envelope")
}

func readPageInfo(obj map[string]json.RawMessage, info *PageInfo) {
	for _, key := range totalKeys {
		if info.TotalItems != 0 {
			break
		}
		if raw, ok := obj[key]; ok {
			var n int
			if err := json.Unmarshal(raw, &n); err == nil {
				info.TotalItems = n
			}
		}
	}
	for _, key := range pageKeys {
		if info.CurrentPage != 0 {
			break
		}
		if raw, ok := obj[key]; ok {
			var n int
			if err := json.Unmarshal(raw, &n); err == nil {
				info.CurrentPage = n
			}
		}
	}
}

// DecodeObject unwraps a single-record envelope: either the object itself or
// one nested under a data/result key.
func DecodeObject(body []byte) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, errors.New("response is not an object")
	}
	for _, key := range []string{"data", "result", "item"} {
		if raw, ok := obj[key]; ok {
			var inner map[string]json.RawMessage
			if err := json.Unmarshal(raw, &inner); err == nil {
				return raw, nil
			}
		}
	}
	return body, nil
}
