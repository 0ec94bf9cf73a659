package a2a

import "encoding/json"

// JSONRPCVersion is the only protocol version accepted.
const JSONRPCVersion = "2.0"

// Methods.
const (
	MethodMessageSend      = "message/send"
	MethodTasksSend        = "tasks/send"
	MethodMessageStream    = "message/stream"
	MethodTasksGet         = "tasks/get"
	MethodTasksCancel      = "tasks/cancel"
	MethodTasksResubscribe = "tasks/resubscribe"
)

// ResultStatusCompleted marks a finished aggregate response.
const ResultStatusCompleted = "completed"

// Request is a JSON-RPC request. ID is a string, a number or null.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC response carrying either Result or Error.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(id, result any) Response {
	return Response{JSONRPC: JSONRPCVersion, ID: id, Result: result}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(id any, err *Error) Response {
	return Response{JSONRPC: JSONRPCVersion, ID: id, Error: err}
}

// AggregateResult is the result of message/send and tasks/send: every
// event of the execution in emission order.
type AggregateResult struct {
	Events []Event `json:"events"`
	Status string  `json:"status"`
}

// rawResponse is a Response with an undecoded result.
type rawResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

type rawAggregate struct {
	Events []json.RawMessage `json:"events"`
	Status string            `json:"status"`
}

func decodeEvents(raws []json.RawMessage) ([]Event, error) {
	events := make([]Event, 0, len(raws))
	for _, raw := range raws {
		ev, err := DecodeEvent(raw)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}
