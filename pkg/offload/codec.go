package offload

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Only encoded bytes cross the boundary between coordinator and worker, so
// neither side can reach the other's values.

func encodeRequest(req Request) ([]byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return data, nil
}

func decodeRequest(data []byte) (Request, error) {
	var req Request
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return Request{}, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}

func encodePayload(v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return data, nil
}

func encodeResult(res Result) []byte {
	data, err := json.Marshal(res)
	if err != nil {
		// Payload is already valid JSON and the rest are plain fields.
		data, _ = json.Marshal(Result{
			RequestID: res.RequestID,
			Outcome:   OutcomeFailure,
			Error:     fmt.Sprintf("encode result: %v", err),
			CreatedAt: res.CreatedAt,
		})
	}
	return data
}

func decodeResult(data []byte) (Result, error) {
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return Result{}, fmt.Errorf("decode result: %w", err)
	}
	return res, nil
}
