package provider

import "encoding/json"

// The API answers either with the payload at the top level or with the same
// payload nested one level under a wrapper key. envelope models both; the
// unwrap order is fixed so a response carrying several candidate keys is
// resolved deterministically.

type fngPayload struct {
	Coin      string   `json:"coin"`
	Tf        string   `json:"tf"`
	Value     *float64 `json:"value"`
	Label     string   `json:"label"`
	Status    string   `json:"status"`
	UpdatedAt string   `json:"updatedAt"`
	Error     string   `json:"error"`
}

func (p *fngPayload) populated() bool {
	return p != nil && (p.Value != nil || p.Label != "" || p.Status != "" || p.Error != "")
}

type fngEnvelope struct {
	fngPayload
	Data    *fngPayload `json:"data"`
	Result  *fngPayload `json:"result"`
	Payload *fngPayload `json:"payload"`
}

// statusLimitExceeded marks a quota refusal that is still a successful HTTP
// response.
const statusLimitExceeded = "limit_exceeded"

// unwrapPayload decodes body and resolves the first populated payload shape:
// top level, then data, result, payload wrappers in that order.
func unwrapPayload(body []byte) (*fngPayload, error) {
	var env fngEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &APIError{Kind: KindMalformed, Message: "decode response: " + err.Error(), Err: err}
	}

	if env.fngPayload.populated() {
		p := env.fngPayload
		return &p, nil
	}
	for _, wrapped := range []*fngPayload{env.Data, env.Result, env.Payload} {
		if wrapped.populated() {
			return wrapped, nil
		}
	}
	return nil, &APIError{Kind: KindMalformed, Message: "response carries no recognizable payload"}
}
