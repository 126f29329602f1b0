package keyboard

import (
	"errors"
	"fmt"
)

const (
	CallbackDataSeparator  = ":"
	CallbackDataLimitBytes = 64
)

var errEmptyCallback = errors.New("callback data is empty")

// EncodeCallback joins unique and data as unique:data. Either part may be empty, not both.
func EncodeCallback(unique, data string) (string, error) {
	var payload string
	switch {
	case unique == "" && data == "":
		return "", errEmptyCallback
	case unique == "":
		payload = data
	case data == "":
		payload = unique
	default:
		payload = unique + CallbackDataSeparator + data
	}

	if len(payload) > CallbackDataLimitBytes {
		return "", fmt.Errorf("callback data exceeds %d byte limit: got %d", CallbackDataLimitBytes, len(payload))
	}

	return payload, nil
}
