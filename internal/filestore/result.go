package filestore

// ReturnCode classifies the outcome of a Store operation.
// Every operation terminates in exactly one of these.
type ReturnCode int

const (
	Success ReturnCode = iota
	InvalidKey
	FileNotFound
	// FileAlreadyExists is part of the closed set for compatibility with
	// existing callers. Writes overwrite silently, so no backend returns it.
	FileAlreadyExists
	UnknownError
)

func (c ReturnCode) String() string {
	switch c {
	case Success:
		return "success"
	case InvalidKey:
		return "invalid_key"
	case FileNotFound:
		return "file_not_found"
	case FileAlreadyExists:
		return "file_already_exists"
	default:
		return "unknown_error"
	}
}

// TextResult is the outcome of GetTextFile. Value is "" unless Code is
// Success; an empty Value with Success is a valid, empty blob.
type TextResult struct {
	Code  ReturnCode
	Value string
}

// TextOK wraps a successfully read text blob.
func TextOK(value string) TextResult {
	return TextResult{Code: Success, Value: value}
}

// TextFailed returns a result carrying code and no value.
func TextFailed(code ReturnCode) TextResult {
	return TextResult{Code: failureCode(code)}
}

// IsSuccess reports whether the read succeeded.
func (r TextResult) IsSuccess() bool { return r.Code == Success }

// BinaryResult is the outcome of GetBinaryFile. Value is empty unless Code
// is Success.
type BinaryResult struct {
	Code  ReturnCode
	Value []byte
}

// BinaryOK wraps a successfully read binary blob. A nil value is
// normalised to an empty slice.
func BinaryOK(value []byte) BinaryResult {
	if value == nil {
		value = []byte{}
	}
	return BinaryResult{Code: Success, Value: value}
}

// BinaryFailed returns a result carrying code and no value.
func BinaryFailed(code ReturnCode) BinaryResult {
	return BinaryResult{Code: failureCode(code)}
}

// IsSuccess reports whether the read succeeded.
func (r BinaryResult) IsSuccess() bool { return r.Code == Success }

// a failed result must never claim Success
func failureCode(code ReturnCode) ReturnCode {
	if code == Success {
		return UnknownError
	}
	return code
}
